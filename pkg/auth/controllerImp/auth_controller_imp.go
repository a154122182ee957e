package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/pkg/auth"
	"github.com/deryamemmedli/agrimonitor/pkg/auth/controller"
	"github.com/deryamemmedli/agrimonitor/pkg/auth/service"
	"github.com/deryamemmedli/agrimonitor/pkg/middleware"
	"github.com/deryamemmedli/agrimonitor/pkg/role"
	roleSvc "github.com/deryamemmedli/agrimonitor/pkg/role/service"
)

type authCtrl struct {
	svc   service.AuthService
	roles roleSvc.RoleService
}

func NewAuthController(svc service.AuthService, roles roleSvc.RoleService) controller.AuthController {
	return &authCtrl{svc: svc, roles: roles}
}

func (h *authCtrl) Register(c echo.Context) error {
	var in auth.RegisterInput
	if err := middleware.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authCtrl) Login(c echo.Context) error {
	var req loginReq
	if err := middleware.Bind(c, &req); err != nil {
		return err
	}
	s, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *authCtrl) Me(c echo.Context) error {
	me, err := h.svc.Me(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}

func (h *authCtrl) Roles(c echo.Context) error {
	roles, err := h.roles.AvailableRoles(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"roles": roles})
}

type activateReq struct {
	Role string `json:"role"`
}

// ActivateRole grants the role if needed; clients then send it in
// X-Active-Role.
func (h *authCtrl) ActivateRole(c echo.Context) error {
	var req activateReq
	if err := middleware.Bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	uid := middleware.AccountID(c)
	r, err := h.roles.ActivateRole(ctx, uid, req.Role)
	if err != nil {
		return err
	}
	roles, err := h.roles.AvailableRoles(ctx, uid)
	if err != nil {
		return err
	}
	c.Response().Header().Set(middleware.HeaderActiveRole, string(r))
	return c.JSON(http.StatusOK, map[string]any{"active_role": r, "roles": roles})
}

func (h *authCtrl) UpdateProfile(c echo.Context) error {
	var p role.Profile
	if err := middleware.Bind(c, &p); err != nil {
		return err
	}
	g, err := h.roles.UpdateProfile(c.Request().Context(), middleware.ActorFrom(c), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}
