package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/model"
)

// ReservationHandler serves guest bookings and the host's view of the
// bookings on a stay.
type ReservationHandler struct {
	Reservations ReservationAPI
	Stays        StayAPI
	Log          *zap.Logger
	Now          func() time.Time
}

func NewReservationHandler(res ReservationAPI, stays StayAPI, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Reservations: res, Stays: stays, Log: log, Now: time.Now}
}

type createReservationReq struct {
	StayID       uint64 `json:"stay_id" validate:"required"`
	CheckinDate  string `json:"checkin_date" validate:"required,datetime=2006-01-02"`
	CheckoutDate string `json:"checkout_date" validate:"required,datetime=2006-01-02"`
}

func views(list []model.Reservation) []model.ReservationView {
	out := make([]model.ReservationView, 0, len(list))
	for i := range list {
		out = append(out, list[i].View())
	}
	return out
}

// List returns the calling guest's reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	guest, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Reservations.ListByGuest(ctx, guest)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(list)})
}

// Create books a stay for the calling guest.
func (h *ReservationHandler) Create(c echo.Context) error {
	guest, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createReservationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	rng, err := parseRange(req.CheckinDate, req.CheckoutDate, h.Now())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Reservations.Add(ctx, req.StayID, guest, rng)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, res.View())
}

// Delete cancels one of the calling guest's reservations.
func (h *ReservationHandler) Delete(c echo.Context) error {
	guest, err := getUsername(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id, guest); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForStay returns the reservations on a stay owned by the caller.
func (h *ReservationHandler) ListForStay(c echo.Context) error {
	list, ok, err := h.hostReservations(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(list)})
}

// hostReservations checks ownership and loads the stay's reservations.
// When ok is false the response has already been written.
func (h *ReservationHandler) hostReservations(c echo.Context) ([]model.Reservation, bool, error) {
	host, err := getUsername(c)
	if err != nil {
		return nil, false, unauthorized(c)
	}
	stayID, err := parseID(c, "id")
	if err != nil {
		return nil, false, badRequest(c, err.Error())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Stays.GetByIDAndHost(ctx, stayID, host); err != nil {
		return nil, false, writeError(c, h.Log, err)
	}
	list, err := h.Reservations.ListByStay(ctx, stayID)
	if err != nil {
		return nil, false, writeError(c, h.Log, err)
	}
	return list, true, nil
}
