package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stay-booking/internal/handler"
	"github.com/iliyamo/stay-booking/internal/middleware"
	"github.com/iliyamo/stay-booking/internal/model"
)

// RegisterGuest registers GUEST endpoints: booking and search.
func RegisterGuest(e *echo.Echo, r *handler.ReservationHandler, s *handler.SearchHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleGuest),
		limit,
	)

	g.GET("/reservations", r.List)
	g.POST("/reservations", r.Create)
	g.DELETE("/reservations/:id", r.Delete)

	g.GET("/search", s.Find)
}
