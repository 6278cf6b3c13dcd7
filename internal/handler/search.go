package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SearchHandler serves geo and availability search for guests.
type SearchHandler struct {
	Search SearchAPI
	Log    *zap.Logger
	Now    func() time.Time
}

func NewSearchHandler(search SearchAPI, log *zap.Logger) *SearchHandler {
	return &SearchHandler{Search: search, Log: log, Now: time.Now}
}

type searchReq struct {
	GuestNumber  int    `query:"guest_number" validate:"required,min=1"`
	CheckinDate  string `query:"checkin_date" validate:"required,datetime=2006-01-02"`
	CheckoutDate string `query:"checkout_date" validate:"required,datetime=2006-01-02"`
	Lat          string `query:"lat" validate:"required,latitude"`
	Lon          string `query:"lon" validate:"required,longitude"`
	Distance     string `query:"distance"`
}

// Find runs the search.  The date range is held to the same rule as
// booking: a bad range is a 400, not an empty list.
func (h *SearchHandler) Find(c echo.Context) error {
	var req searchReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	rng, err := parseRange(req.CheckinDate, req.CheckoutDate, h.Now())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	// both already passed the latitude/longitude validators
	lat, _ := strconv.ParseFloat(req.Lat, 64)
	lon, _ := strconv.ParseFloat(req.Lon, 64)
	ctx, cancel := requestContext(c)
	defer cancel()

	stays, err := h.Search.Search(ctx, req.GuestNumber, rng.Checkin, rng.Checkout, lat, lon, req.Distance)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": stays})
}
