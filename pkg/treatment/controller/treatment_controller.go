package controller

import "github.com/labstack/echo/v4"

type TreatmentController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Export(c echo.Context) error
	Start(c echo.Context) error
	Complete(c echo.Context) error
	Verify(c echo.Context) error
	FarmerConfirm(c echo.Context) error
}
