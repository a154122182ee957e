package controller

import "github.com/labstack/echo/v4"

type RequestController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Get(c echo.Context) error
	Delete(c echo.Context) error
	Accept(c echo.Context) error
	Reject(c echo.Context) error
}
