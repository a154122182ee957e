package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/pkg/middleware"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi/controller"
	"github.com/deryamemmedli/agrimonitor/pkg/ndvi/service"
)

type ndviCtrl struct{ svc service.NDVIService }

func New(svc service.NDVIService) controller.NDVIController { return &ndviCtrl{svc} }

func (h *ndviCtrl) Series(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	from, err := middleware.QueryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := middleware.QueryTime(c, "to")
	if err != nil {
		return err
	}
	out, err := h.svc.Series(c.Request().Context(), middleware.ActorFrom(c), id, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ndviCtrl) Latest(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.svc.Latest(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ndviCtrl) Record(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in ndvi.RecordInput
	if err := middleware.Bind(c, &in); err != nil {
		return err
	}
	m, err := h.svc.Record(c.Request().Context(), middleware.ActorFrom(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *ndviCtrl) Fetch(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	at, err := middleware.QueryTime(c, "date")
	if err != nil {
		return err
	}
	m, err := h.svc.Fetch(c.Request().Context(), middleware.ActorFrom(c), id, at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *ndviCtrl) Map(c echo.Context) error {
	out, err := h.svc.MapSummary(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"fields": out, "legend": ndvi.Legend()})
}
