package handler // handler defines the HTTP handlers of the stay booking API

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/service"
	"github.com/iliyamo/stay-booking/internal/utils"
)

// Services as seen by the handlers.

type ReservationAPI interface {
	Add(ctx context.Context, stayID uint64, guest string, rng model.DateRange) (*model.Reservation, error)
	Delete(ctx context.Context, id uint64, guest string) error
	ListByGuest(ctx context.Context, guest string) ([]model.Reservation, error)
	ListByStay(ctx context.Context, stayID uint64) ([]model.Reservation, error)
}

type SearchAPI interface {
	Search(ctx context.Context, guestNumber int, checkin, checkout time.Time, lat, lon float64, distance string) ([]model.Stay, error)
}

type StayAPI interface {
	ListByHost(ctx context.Context, host string) ([]model.Stay, error)
	GetByIDAndHost(ctx context.Context, id uint64, host string) (*model.Stay, error)
	GetByID(ctx context.Context, id uint64) (*model.Stay, error)
	Create(ctx context.Context, host string, in service.NewStayInput) (*model.Stay, error)
	Delete(ctx context.Context, id uint64, host string) error
}

type AuthAPI interface {
	Register(ctx context.Context, username, password, role string) error
	Login(ctx context.Context, username, password, role string) (utils.AccessToken, error)
}

// Context keys set by middleware.JWTAuth.
const (
	CtxUsername = "username"
	CtxRole     = "role"
)

const requestTimeout = 10 * time.Second

var errNoIdentity = errors.New("missing identity")

// getUsername returns the authenticated username placed in the
// context by the JWT middleware.
func getUsername(c echo.Context) (string, error) {
	u, ok := c.Get(CtxUsername).(string)
	if !ok || u == "" {
		return "", errNoIdentity
	}
	return u, nil
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// requestContext bounds store calls made for one request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// parseRange parses two YYYY-MM-DD dates and applies the booking rule:
// checkin before checkout and not in the past.
func parseRange(checkin, checkout string, today time.Time) (model.DateRange, error) {
	in, err := model.ParseDate(checkin)
	if err != nil {
		return model.DateRange{}, model.ErrInvalidRange
	}
	out, err := model.ParseDate(checkout)
	if err != nil {
		return model.DateRange{}, model.ErrInvalidRange
	}
	rng := model.NewDateRange(in, out)
	if err := rng.Validate(today); err != nil {
		return model.DateRange{}, err
	}
	return rng, nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
