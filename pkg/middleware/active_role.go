package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/pkg/role"
)

// HeaderActiveRole selects the role a request acts under.
const HeaderActiveRole = "X-Active-Role"

type RoleResolver interface {
	Resolve(ctx context.Context, accountID uint, requested string) (role.Actor, error)
}

// ActiveRole runs after Bearer and stores the resolved role.Actor. A role
// the account does not hold is rejected; it is never granted here.
func ActiveRole(r RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := r.Resolve(c.Request().Context(), AccountID(c), c.Request().Header.Get(HeaderActiveRole))
			if err != nil {
				return err
			}
			c.Set(actorKey, actor)
			c.Response().Header().Set(HeaderActiveRole, string(actor.Role))
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) role.Actor {
	a, _ := c.Get(actorKey).(role.Actor)
	return a
}
