package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/handler"
)

// RegisterOrder wires the Order service routes.  Session validation is
// delegated to the Course service: the orchestrator resolves the
// principal over RPC before touching any order, so no local session
// middleware runs here.
func RegisterOrder(e *echo.Echo, h *handler.OrderHandler) {
	e.GET("/healthz", handler.Health)

	e.POST("/orders", h.Create)
	e.POST("/orders/:id/pay", h.Pay)
	e.GET("/orders/:id", h.Get)
}
