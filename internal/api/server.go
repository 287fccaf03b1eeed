package api

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/shms/shms/internal/platform/auth"
	"github.com/shms/shms/internal/platform/middleware"
	"github.com/shms/shms/internal/store"
)

// BodyLimit caps request bodies. Every record is a small JSON document.
const BodyLimit = "1M"

// NewServer builds the echo instance: global middleware, Basic auth against
// the store's accounts, GET /health and the /api/v1 routes.
func NewServer(s *store.Store, logger zerolog.Logger, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.BodyLimit(BodyLimit))
	e.Use(auth.BasicAuth(s))

	h := NewHandler(s, logger, opts)
	e.GET("/health", h.Health)
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}
