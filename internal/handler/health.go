package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports liveness plus the state of the database and, when
// configured, Redis.  A failing database turns the response into 503.
type Health struct {
	DB    Pinger
	Redis func(ctx context.Context) error
}

func (h *Health) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	body := echo.Map{}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			body["db"] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
		} else {
			body["db"] = "up"
		}
	}
	switch {
	case h.Redis == nil:
		body["redis"] = "disabled"
	case h.Redis(ctx) != nil:
		body["redis"] = "down"
	default:
		body["redis"] = "up"
	}
	body["status"] = status
	return c.JSON(code, body)
}
