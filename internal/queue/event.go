// Package queue carries reservation events over RabbitMQ: a publisher
// used by the booking service and a consumer that appends each event to
// an audit log file.
package queue

import (
	"time"

	"github.com/iliyamo/stay-booking/internal/model"
)

// Event types.
const (
	ReservationCreated   = "reservation.created"
	ReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a booking or cancellation commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	StayID        uint64 `json:"stay_id"`
	Guest         string `json:"guest"`
	CheckinDate   string `json:"checkin_date"`
	CheckoutDate  string `json:"checkout_date"`
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type for res.
func NewReservationEvent(typ string, res *model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		ReservationID: res.ID,
		StayID:        res.StayID,
		Guest:         res.Guest,
		CheckinDate:   model.FormatDate(res.CheckinDate),
		CheckoutDate:  model.FormatDate(res.CheckoutDate),
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
