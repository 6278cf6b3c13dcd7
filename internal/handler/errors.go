package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/service"
)

// writeError maps service errors to HTTP responses.  Unknown errors are
// logged and reported as 500 without detail.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, service.ErrCollision):
		status, msg = http.StatusConflict, "dates already reserved"
	case errors.Is(err, service.ErrReservationNotFound):
		status, msg = http.StatusNotFound, "reservation not found"
	case errors.Is(err, service.ErrStayNotFound):
		status, msg = http.StatusNotFound, "stay not found"
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrInvalidRange):
		status, msg = http.StatusBadRequest, "checkin must be today or later and before checkout"
	case errors.Is(err, service.ErrInvalidDistance):
		status, msg = http.StatusBadRequest, "invalid distance"
	case errors.Is(err, service.ErrInvalidStay):
		status, msg = http.StatusBadRequest, "name, address and guest_number >= 1 are required"
	case errors.Is(err, service.ErrInvalidAddress):
		status, msg = http.StatusBadRequest, "address could not be resolved exactly"
	case errors.Is(err, service.ErrUnsupportedImage):
		status, msg = http.StatusBadRequest, "unsupported or oversized image"
	case errors.Is(err, service.ErrInvalidUser):
		status, msg = http.StatusBadRequest, "invalid username, password or role"
	case errors.Is(err, service.ErrStayHasReservations):
		status, msg = http.StatusConflict, "stay has upcoming reservations"
	case errors.Is(err, service.ErrUserExists):
		status, msg = http.StatusConflict, "username already taken"
	case errors.Is(err, service.ErrBadCredentials):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		c.Response().Header().Set("Retry-After", "1")
		status, msg = http.StatusServiceUnavailable, "temporarily unavailable, retry"
	case errors.Is(err, service.ErrGeoCoding):
		status, msg = http.StatusBadGateway, "geocoding unavailable"
	case errors.Is(err, service.ErrImageUpload):
		status, msg = http.StatusInternalServerError, "image upload failed"
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": msg})
}
