package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/contactbook/internal/auth"
	"github.com/sudo-init-do/contactbook/internal/config"
	"github.com/sudo-init-do/contactbook/internal/contact"
	appmw "github.com/sudo-init-do/contactbook/internal/middleware"
)

const readyTimeout = 2 * time.Second

type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Auth     *auth.Service
	Contacts *contact.Service
	// Ping backs /ready.
	Ping func(ctx context.Context) error
	// RateLimitStore guards the credential endpoints; nil disables limiting.
	RateLimitStore echomw.RateLimiterStore
	Metrics        *appmw.Metrics
}

func NewRouter(d Deps) *echo.Echo {
	cfg := d.Config
	metrics := d.Metrics
	if metrics == nil {
		metrics = appmw.NewMetrics()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = appmw.ErrorHandler(d.Logger)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(appmw.RequestLogger(d.Logger))
	e.Use(metrics.Middleware())
	e.Use(appmw.Secure(cfg.IsProduction()))
	e.Use(echomw.BodyLimit(cfg.Avatar.MaxUploadSize))

	// Health
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				d.Logger.Warn().Err(err).Msg("readiness check failed")
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "not ready"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	if cfg.Avatar.Driver == "local" {
		e.Static(cfg.Avatar.PublicPath, cfg.Avatar.PublicDir)
	}

	authed := appmw.JWT(d.Auth)
	var limited echo.MiddlewareFunc
	if d.RateLimitStore != nil {
		limited = appmw.RateLimit(d.RateLimitStore)
	}

	// Accounts
	auth.NewHandler(d.Auth).Register(e.Group("/users"), authed, limited)

	// Contacts, all authenticated
	contact.NewHandler(d.Contacts).Register(e.Group("/contacts", authed))

	return e
}
