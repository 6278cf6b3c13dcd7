package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stay-booking/internal/handler"
	"github.com/iliyamo/stay-booking/internal/middleware"
	"github.com/iliyamo/stay-booking/internal/model"
)

// RegisterHost registers HOST endpoints for managing stays and reading
// their bookings.
func RegisterHost(e *echo.Echo, s *handler.StayHandler, r *handler.ReservationHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleHost),
		limit,
	)

	g.GET("/stays", s.List)
	g.POST("/stays", s.Create)
	g.GET("/stays/:id", s.Get)
	g.DELETE("/stays/:id", s.Delete)

	g.GET("/stays/:id/reservations", r.ListForStay)
	g.GET("/stays/:id/reservations/export", r.ExportForStay)
}
