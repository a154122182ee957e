package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

// ParamID parses a positive integer path parameter.
func ParamID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid %s %q", name, c.Param(name))
	}
	return uint(id), nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validation("invalid %s %q", name, v)
	}
	return n, nil
}

// Bind decodes the request body, reporting failures as validation errors.
func Bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperr.Validation("bad json")
	}
	return nil
}

// QueryTime parses an optional RFC 3339 or YYYY-MM-DD query parameter.
func QueryTime(c echo.Context, name string) (time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("invalid %s %q", name, v)
}
