package controller

import "github.com/labstack/echo/v4"

type NDVIController interface {
	Series(c echo.Context) error
	Latest(c echo.Context) error
	Record(c echo.Context) error
	Fetch(c echo.Context) error
	Map(c echo.Context) error
}
