package model

import "time"

// Reservation books one stay for the nights [CheckinDate, CheckoutDate).
// It is immutable once created; only the owning guest may delete it.
type Reservation struct {
	ID           uint64    // reservations.id
	CheckinDate  time.Time // reservations.checkin_date
	CheckoutDate time.Time // reservations.checkout_date (exclusive)
	Guest        string    // reservations.guest
	StayID       uint64    // reservations.stay_id
}

// NewReservation builds an unsaved reservation.
func NewReservation(stayID uint64, guest string, rng DateRange) *Reservation {
	return &Reservation{
		CheckinDate:  rng.Checkin,
		CheckoutDate: rng.Checkout,
		Guest:        guest,
		StayID:       stayID,
	}
}

// Range returns the reservation's nights as a DateRange.
func (r *Reservation) Range() DateRange {
	return NewDateRange(r.CheckinDate, r.CheckoutDate)
}

// ReservationView is the JSON representation of a reservation.
type ReservationView struct {
	ID           uint64 `json:"id"`
	CheckinDate  string `json:"checkin_date"`
	CheckoutDate string `json:"checkout_date"`
	Guest        string `json:"guest"`
	StayID       uint64 `json:"stay_id"`
}

// View converts the reservation into its JSON form.
func (r *Reservation) View() ReservationView {
	return ReservationView{
		ID:           r.ID,
		CheckinDate:  FormatDate(r.CheckinDate),
		CheckoutDate: FormatDate(r.CheckoutDate),
		Guest:        r.Guest,
		StayID:       r.StayID,
	}
}
