package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

var statusOf = map[apperr.Kind]int{
	apperr.KindPermissionDenied:    http.StatusForbidden,
	apperr.KindInvalidTransition:   http.StatusConflict,
	apperr.KindNotFound:            http.StatusNotFound,
	apperr.KindValidation:          http.StatusBadRequest,
	apperr.KindRoleNotGrantable:    http.StatusBadRequest,
	apperr.KindUpstreamUnavailable: http.StatusServiceUnavailable,
	apperr.KindUnauthenticated:     http.StatusUnauthorized,
	apperr.KindConflict:            http.StatusConflict,
}

// ErrorHandler writes {"error": msg, "code": kind}. Errors without a kind
// are logged and reported as 500 without detail.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		body := map[string]string{"error": "internal error", "code": "internal"}

		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = statusOf[ae.Kind]
			if status == 0 {
				status = http.StatusInternalServerError
			}
			body = map[string]string{"error": ae.Error(), "code": string(ae.Kind)}
			if ae.Kind == apperr.KindUpstreamUnavailable {
				// upstream detail stays in the log
				body["error"] = ae.Msg
				slog.Warn("upstream unavailable", "path", c.Path(), "err", err)
			}
		case errors.As(err, &he):
			status = he.Code
			body = map[string]string{"error": http.StatusText(he.Code), "code": "http"}
			if msg, ok := he.Message.(string); ok {
				body["error"] = msg
			}
		default:
			slog.Error("request failed", "method", c.Request().Method, "path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID), "err", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			e.Logger.Error(err)
		}
	}
}
