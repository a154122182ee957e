package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/middleware"
	"github.com/deryamemmedli/agrimonitor/pkg/request"
	"github.com/deryamemmedli/agrimonitor/pkg/request/controller"
	"github.com/deryamemmedli/agrimonitor/pkg/request/service"
)

type requestCtrl struct{ svc service.RequestService }

func New(svc service.RequestService) controller.RequestController { return &requestCtrl{svc} }

func (h *requestCtrl) Create(c echo.Context) error {
	var in request.CreateInput
	if err := middleware.Bind(c, &in); err != nil {
		return err
	}
	req, err := h.svc.Create(c.Request().Context(), middleware.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *requestCtrl) List(c echo.Context) error {
	status := entities.RequestStatus(c.QueryParam("status"))
	switch status {
	case "", entities.RequestPending, entities.RequestAccepted, entities.RequestRejected:
	default:
		return apperr.Validation("unknown status %q", status)
	}
	out, err := h.svc.List(c.Request().Context(), middleware.ActorFrom(c), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *requestCtrl) Get(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	req, err := h.svc.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

func (h *requestCtrl) Delete(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *requestCtrl) Accept(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	req, t, err := h.svc.Accept(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"request": req, "treatment": t})
}

func (h *requestCtrl) Reject(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	req, err := h.svc.Reject(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}
