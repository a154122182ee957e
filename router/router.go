package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/deryamemmedli/agrimonitor/api"
	authCtrl "github.com/deryamemmedli/agrimonitor/pkg/auth/controller"
	fieldCtrl "github.com/deryamemmedli/agrimonitor/pkg/field/controller"
	"github.com/deryamemmedli/agrimonitor/pkg/middleware"
	ndviCtrl "github.com/deryamemmedli/agrimonitor/pkg/ndvi/controller"
	requestCtrl "github.com/deryamemmedli/agrimonitor/pkg/request/controller"
	treatmentCtrl "github.com/deryamemmedli/agrimonitor/pkg/treatment/controller"
)

func New(
	e *echo.Echo,
	authn middleware.Authenticator,
	roles middleware.RoleResolver,
	authC authCtrl.AuthController,
	fieldC fieldCtrl.FieldController,
	ndviC ndviCtrl.NDVIController,
	requestC requestCtrl.RequestController,
	treatmentC treatmentCtrl.TreatmentController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.HTTPErrorHandler = ErrorHandler(e)

	e.GET("/health", healthCtrl.Health)
	e.GET("/api/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", api.OpenAPI)
	})
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler(httpSwagger.URL("/api/openapi.yaml"))))

	pub := e.Group("/api/auth")
	pub.POST("/register", authC.Register)
	pub.POST("/login", authC.Login)

	// token only; the active role is not resolved
	session := e.Group("/api/auth", middleware.Bearer(authn))
	session.GET("/me", authC.Me)
	session.GET("/roles", authC.Roles)
	session.POST("/roles/activate", authC.ActivateRole)

	g := e.Group("/api", middleware.Bearer(authn), middleware.ActiveRole(roles))
	g.PUT("/auth/profile", authC.UpdateProfile)

	g.GET("/fields", fieldC.List)
	g.POST("/fields", fieldC.Create)
	g.GET("/fields/:id", fieldC.Get)
	g.PUT("/fields/:id", fieldC.Update)
	g.DELETE("/fields/:id", fieldC.Delete)

	g.GET("/ndvi/map", ndviC.Map)
	g.GET("/ndvi/fields/:id", ndviC.Series)
	g.GET("/ndvi/fields/:id/latest", ndviC.Latest)
	g.POST("/ndvi/fields/:id/readings", ndviC.Record)
	g.POST("/ndvi/fields/:id/fetch", ndviC.Fetch)

	g.GET("/requests", requestC.List)
	g.POST("/requests", requestC.Create)
	g.GET("/requests/:id", requestC.Get)
	g.DELETE("/requests/:id", requestC.Delete)
	g.POST("/requests/:id/accept", requestC.Accept)
	g.POST("/requests/:id/reject", requestC.Reject)

	g.GET("/treatments", treatmentC.List)
	g.GET("/treatments/export", treatmentC.Export)
	g.GET("/treatments/:id", treatmentC.Get)
	// PUT kept for clients of the earlier API
	for _, method := range []string{http.MethodPost, http.MethodPut} {
		g.Add(method, "/treatments/:id/start", treatmentC.Start)
		g.Add(method, "/treatments/:id/complete", treatmentC.Complete)
		g.Add(method, "/treatments/:id/verify", treatmentC.Verify)
		g.Add(method, "/treatments/:id/farmer-confirm", treatmentC.FarmerConfirm)
	}
	return e
}
