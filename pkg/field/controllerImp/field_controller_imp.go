package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/pkg/field"
	"github.com/deryamemmedli/agrimonitor/pkg/field/controller"
	"github.com/deryamemmedli/agrimonitor/pkg/field/service"
	"github.com/deryamemmedli/agrimonitor/pkg/middleware"
)

type fieldCtrl struct{ svc service.FieldService }

func New(svc service.FieldService) controller.FieldController { return &fieldCtrl{svc} }

func (h *fieldCtrl) Create(c echo.Context) error {
	var in field.Input
	if err := middleware.Bind(c, &in); err != nil {
		return err
	}
	f, err := h.svc.Create(c.Request().Context(), middleware.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *fieldCtrl) Get(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	f, err := h.svc.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

func (h *fieldCtrl) Update(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var p field.Patch
	if err := middleware.Bind(c, &p); err != nil {
		return err
	}
	f, err := h.svc.Update(c.Request().Context(), middleware.ActorFrom(c), id, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

func (h *fieldCtrl) Delete(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *fieldCtrl) List(c echo.Context) error {
	limit, err := middleware.QueryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	offset, err := middleware.QueryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	out, err := h.svc.List(c.Request().Context(), middleware.ActorFrom(c), service.Page{Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
