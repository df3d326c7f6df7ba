// Package router builds the Echo instance and registers every API route.
package router

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/venue-booking-api/internal/handler"
	"github.com/iliyamo/venue-booking-api/internal/middleware"
)

// Handlers groups the per-resource handlers.
type Handlers struct {
	Auth         *handler.AuthHandler
	Bookings     *handler.BookingHandler
	VenueRequest *handler.VenueRequestHandler
	Venues       *handler.VenueHandler
	TableTypes   *handler.TableTypeHandler
}

// Options carries the cross-cutting pieces of the stack.
type Options struct {
	Logger     *slog.Logger
	Production bool
	// Authn verifies admin bearer tokens.
	Authn middleware.Authenticator
	// Limiter guards the public write routes. Nil disables it.
	Limiter echo.MiddlewareFunc
	// VenueCache and TableTypeCache front the public catalogue reads. Nil
	// caches pass through.
	VenueCache     *middleware.ResponseCache
	TableTypeCache *middleware.ResponseCache
}

// New returns an Echo instance with the shared middleware, the JSON codec,
// the error handler and all routes registered.
func New(h Handlers, opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.HTTPErrorHandler = handler.ErrorHandler(opts.Production, logger)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())

	RegisterRoutes(e)
	limit := opts.Limiter
	if limit == nil {
		limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	admin := middleware.AdminAuth(opts.Authn)

	RegisterAuth(e, h.Auth, limit, admin)
	RegisterBookings(e, h.Bookings, limit, admin)
	RegisterVenueRequests(e, h.VenueRequest, limit, admin)
	RegisterCatalog(e, h.Venues, h.TableTypes, admin, opts.VenueCache, opts.TableTypeCache)
	return e
}

// RegisterRoutes registers the routes that need no handler dependencies.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
}

// RegisterAuth mounts /api/auth. Register and login are rate limited.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit, admin echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.GET("/me", a.Me, admin)
}

// RegisterBookings mounts /api/bookings.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, limit, admin echo.MiddlewareFunc) {
	g := e.Group("/api/bookings")

	// public
	g.POST("", b.Create, limit)
	g.GET("/customer/:email", b.ListByEmail)
	g.PATCH("/cancel/:id", b.Cancel, limit)

	// admin
	g.GET("", b.List, admin)
	g.GET("/status/:status", b.ListByStatus, admin)
	g.GET("/stats/summary", b.Stats, admin)
	g.GET("/:id", b.Get, admin)
	g.PATCH("/:id/status", b.UpdateStatus, admin)
	g.PUT("/:id", b.Update, admin)
	g.DELETE("/:id", b.Delete, admin)
}

// RegisterVenueRequests mounts /api/venue-requests with the same layout as
// bookings. Only submission is public.
func RegisterVenueRequests(e *echo.Echo, r *handler.VenueRequestHandler, limit, admin echo.MiddlewareFunc) {
	g := e.Group("/api/venue-requests")
	g.POST("", r.Create, limit)

	g.GET("", r.List, admin)
	g.GET("/status/:status", r.ListByStatus, admin)
	g.GET("/stats/summary", r.Stats, admin)
	g.GET("/:id", r.Get, admin)
	g.PATCH("/:id/status", r.UpdateStatus, admin)
	g.PUT("/:id", r.Update, admin)
	g.DELETE("/:id", r.Delete, admin)
}

// RegisterCatalog mounts /api/venues and /api/table-types: public reads,
// admin writes. Reads go through the response cache; successful writes
// invalidate it.
func RegisterCatalog(e *echo.Echo, v *handler.VenueHandler, t *handler.TableTypeHandler, admin echo.MiddlewareFunc, vc, tc *middleware.ResponseCache) {
	venues := e.Group("/api/venues")
	venues.GET("", v.List, vc.Cache())
	venues.GET("/:id", v.Get, vc.Cache())
	venues.POST("", v.Create, admin, vc.Invalidate())
	venues.PUT("/:id", v.Update, admin, vc.Invalidate())
	venues.DELETE("/:id", v.Delete, admin, vc.Invalidate())

	types := e.Group("/api/table-types")
	types.GET("", t.List, tc.Cache())
	types.GET("/:id", t.Get, tc.Cache())
	types.POST("", t.Create, admin, tc.Invalidate())
	types.PUT("/:id", t.Update, admin, tc.Invalidate())
	types.DELETE("/:id", t.Delete, admin, tc.Invalidate())
}
