package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
)

const (
	uidKey   = "uid"
	actorKey = "actor"
)

type Authenticator interface {
	Authenticate(raw string) (uint, error)
}

// Bearer requires an "Authorization: Bearer <token>" header and stores the
// account id under "uid".
func Bearer(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, ok := strings.Cut(authz, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				return apperr.New(apperr.KindUnauthenticated, "missing bearer token")
			}
			uid, err := a.Authenticate(strings.TrimSpace(raw))
			if err != nil {
				return err
			}
			c.Set(uidKey, uid)
			return next(c)
		}
	}
}

// AccountID returns the id stored by Bearer, or 0.
func AccountID(c echo.Context) uint {
	uid, _ := c.Get(uidKey).(uint)
	return uid
}
