package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deryamemmedli/agrimonitor/entities"
	"github.com/deryamemmedli/agrimonitor/pkg/apperr"
	"github.com/deryamemmedli/agrimonitor/pkg/middleware"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/controller"
	"github.com/deryamemmedli/agrimonitor/pkg/treatment/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type treatmentCtrl struct{ svc service.TreatmentService }

func New(svc service.TreatmentService) controller.TreatmentController { return &treatmentCtrl{svc} }

func (h *treatmentCtrl) List(c echo.Context) error {
	status := entities.TreatmentStatus(c.QueryParam("status"))
	switch status {
	case "", entities.TreatmentScheduled, entities.TreatmentInProgress, entities.TreatmentCompleted, entities.TreatmentVerified:
	default:
		return apperr.Validation("unknown status %q", status)
	}
	out, err := h.svc.List(c.Request().Context(), middleware.ActorFrom(c), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *treatmentCtrl) Get(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *treatmentCtrl) Export(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	var buf bytes.Buffer
	if err := h.svc.Export(c.Request().Context(), actor, &buf); err != nil {
		return err
	}
	name := fmt.Sprintf("treatments-%s-%d.xlsx", actor.Role, actor.AccountID)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (h *treatmentCtrl) Start(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.Start(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *treatmentCtrl) Complete(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in treatment.CompleteInput
	if err := middleware.Bind(c, &in); err != nil {
		return err
	}
	t, err := h.svc.Complete(c.Request().Context(), middleware.ActorFrom(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *treatmentCtrl) Verify(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in treatment.VerifyInput
	if c.Request().ContentLength != 0 {
		if err := middleware.Bind(c, &in); err != nil {
			return err
		}
	}
	t, err := h.svc.Verify(c.Request().Context(), middleware.ActorFrom(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *treatmentCtrl) FarmerConfirm(c echo.Context) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.svc.FarmerConfirm(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}
