package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-lot-service/internal/handler"
)

// RegisterRoutes registers the health check on the provided Echo
// instance.  This endpoint is used by load balancers and monitoring
// systems to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterEntries registers vehicle entry routes under /v1/entries.
func RegisterEntries(e *echo.Echo, h *handler.EntryHandler) {
	g := e.Group("/v1/entries")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	// Fee preview computes what the vehicle owes right now without
	// touching the row; the authoritative calculation happens on exit.
	g.GET("/:id/fee", h.FeePreview)
	g.POST("/:id/exit", h.Exit)
	g.POST("/:id/adjustments", h.AddAdjustment)
	g.GET("/:id/adjustments", h.ListAdjustments)
}

// RegisterShifts registers shift session routes under /v1/shifts.
func RegisterShifts(e *echo.Echo, h *handler.ShiftHandler) {
	g := e.Group("/v1/shifts")
	g.POST("", h.Start)
	// /active must be declared before /:id so Echo does not swallow it
	// as a parameter match.
	g.GET("/active", h.GetActive)
	g.GET("/:id", h.Get)
	g.POST("/:id/end", h.End)
	g.POST("/:id/statistics/sync", h.SyncStatistics)
	g.POST("/:id/entries/:entryID/link", h.LinkEntry)
}

// RegisterRates registers rate table routes under /v1/rates.  The
// read side takes the cache middleware when Redis is configured, since
// the table is small and changes rarely.
func RegisterRates(e *echo.Echo, h *handler.RateHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/rates")
	if cache != nil {
		g.GET("", h.List, cache)
		g.GET("/estimate", h.Estimate, cache)
	} else {
		g.GET("", h.List)
		g.GET("/estimate", h.Estimate)
	}
	g.PUT("/:vehicleType", h.Update)
}
