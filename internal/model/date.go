package model

import (
	"errors"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidRange is returned when a date range does not satisfy
// checkin < checkout or starts before today.
var ErrInvalidRange = errors.New("invalid date range")

// Day truncates t to midnight UTC of its calendar date.  All dates
// handled by the booking core are normalised this way so that equal
// calendar days compare equal.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in UTC.
func Today() time.Time { return Day(time.Now().UTC()) }

// ParseDate parses a YYYY-MM-DD string into a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// DateRange is a half-open interval of calendar days [Checkin, Checkout).
// The guest occupies every night from Checkin up to but excluding the
// Checkout day.
type DateRange struct {
	Checkin  time.Time
	Checkout time.Time
}

// NewDateRange normalises both ends to calendar days.
func NewDateRange(checkin, checkout time.Time) DateRange {
	return DateRange{Checkin: Day(checkin), Checkout: Day(checkout)}
}

// Valid reports whether Checkin is strictly before Checkout.
func (r DateRange) Valid() bool { return r.Checkin.Before(r.Checkout) }

// Validate rejects empty or backwards ranges and ranges starting
// before today.
func (r DateRange) Validate(today time.Time) error {
	if !r.Valid() || r.Checkin.Before(Day(today)) {
		return ErrInvalidRange
	}
	return nil
}

// LastNight is the last occupied day, i.e. Checkout minus one day.
func (r DateRange) LastNight() time.Time { return r.Checkout.AddDate(0, 0, -1) }

// Nights lists every occupied day in the range.  An invalid range
// yields nil.
func (r DateRange) Nights() []time.Time {
	if !r.Valid() {
		return nil
	}
	var out []time.Time
	for d := r.Checkin; d.Before(r.Checkout); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Overlaps reports whether the two ranges share at least one night.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Checkin.Before(o.Checkout) && o.Checkin.Before(r.Checkout)
}
