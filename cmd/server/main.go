package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"

	"github.com/deryamemmedli/agrimonitor/config"
	"github.com/deryamemmedli/agrimonitor/database"
	"github.com/deryamemmedli/agrimonitor/pkg/auth"
	"github.com/deryamemmedli/agrimonitor/pkg/clock"
	"github.com/deryamemmedli/agrimonitor/pkg/imagery"
	"github.com/deryamemmedli/agrimonitor/pkg/middleware"
	"github.com/deryamemmedli/agrimonitor/router"

	// Auth + roles
	authCtrlImp "github.com/deryamemmedli/agrimonitor/pkg/auth/controllerImp"
	authRepoImp "github.com/deryamemmedli/agrimonitor/pkg/auth/repositoryImp"
	authSvcImp "github.com/deryamemmedli/agrimonitor/pkg/auth/serviceImp"
	roleRepoImp "github.com/deryamemmedli/agrimonitor/pkg/role/repositoryImp"
	roleSvcImp "github.com/deryamemmedli/agrimonitor/pkg/role/serviceImp"

	// Field
	fieldCtrlImp "github.com/deryamemmedli/agrimonitor/pkg/field/controllerImp"
	fieldRepoImp "github.com/deryamemmedli/agrimonitor/pkg/field/repositoryImp"
	fieldSvcImp "github.com/deryamemmedli/agrimonitor/pkg/field/serviceImp"

	// NDVI
	ndviCtrlImp "github.com/deryamemmedli/agrimonitor/pkg/ndvi/controllerImp"
	ndviRepoImp "github.com/deryamemmedli/agrimonitor/pkg/ndvi/repositoryImp"
	ndviSvcImp "github.com/deryamemmedli/agrimonitor/pkg/ndvi/serviceImp"

	// Requests + treatments
	requestCtrlImp "github.com/deryamemmedli/agrimonitor/pkg/request/controllerImp"
	requestRepoImp "github.com/deryamemmedli/agrimonitor/pkg/request/repositoryImp"
	requestSvcImp "github.com/deryamemmedli/agrimonitor/pkg/request/serviceImp"
	treatmentCtrlImp "github.com/deryamemmedli/agrimonitor/pkg/treatment/controllerImp"
	treatmentRepoImp "github.com/deryamemmedli/agrimonitor/pkg/treatment/repositoryImp"
	treatmentSvcImp "github.com/deryamemmedli/agrimonitor/pkg/treatment/serviceImp"

	// Health
	healthCtrlImp "github.com/deryamemmedli/agrimonitor/pkg/health/controllerImp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// 1) Config, flags override env
	cfg := config.Load()
	flags := pflag.NewFlagSet("agrimonitor", pflag.ExitOnError)
	flags.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text|json")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	log := newLogger(cfg)
	slog.SetDefault(log)
	log.Info("config loaded", "cfg", cfg)
	if cfg.JWTSecret == config.DevSecret {
		log.Warn("JWT_SECRET not set; using development secret")
	}

	// 2) DB (sqlite) + automigrate
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// 3) Imagery source (synthetic fallback)
	var source imagery.Client
	if cfg.ImageryEndpoint != "" {
		source = imagery.NewHTTP(cfg.ImageryEndpoint, cfg.ImageryAPIKey, cfg.ImageryTimeout)
	} else {
		source = imagery.NewSynthetic()
	}
	log.Info("imagery source", "name", source.Name())

	// 4) Repos/Services/Controllers
	clk := clock.Real()
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	fRepo := fieldRepoImp.New(db)
	rdRepo := ndviRepoImp.New(db)

	roleSvc := roleSvcImp.NewRoleService(roleRepoImp.New(db), log)
	authSvc := authSvcImp.NewAuthService(authRepoImp.New(db), tokens, log)
	fieldSvc := fieldSvcImp.NewFieldService(fRepo, log)
	ndviSvc := ndviSvcImp.NewNDVIService(rdRepo, fRepo, source, clk, log)
	reqSvc := requestSvcImp.NewRequestService(requestRepoImp.New(db), clk, log)
	trSvc := treatmentSvcImp.NewTreatmentService(treatmentRepoImp.New(db), rdRepo, clk, log)

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.HeaderActiveRole},
		ExposeHeaders: []string{middleware.HeaderActiveRole, echo.HeaderXRequestID},
	}))
	e.Use(requestLogger(log))

	// 6) Router
	r := router.New(
		e,
		authSvc,
		roleSvc,
		authCtrlImp.NewAuthController(authSvc, roleSvc),
		fieldCtrlImp.New(fieldSvc),
		ndviCtrlImp.New(ndviSvc),
		requestCtrlImp.New(reqSvc),
		treatmentCtrlImp.New(trSvc),
		healthCtrlImp.NewHealthCtrl(db, source.Name()),
	)

	// 7) Start, stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		errc <- r.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func newLogger(cfg config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
			}
			log.LogAttrs(c.Request().Context(), levelFor(v.Status), "request", slog.Group("http", attrs...))
			return nil
		},
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
