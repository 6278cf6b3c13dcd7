package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/queue"
	"github.com/iliyamo/stay-booking/internal/repository"
)

// TxBeginner opens a serializable booking unit of work.
type TxBeginner interface {
	Begin(ctx context.Context) (repository.BookingUnit, error)
}

// ReservationLister reads reservations outside a transaction.
type ReservationLister interface {
	ListByGuest(ctx context.Context, guest string) ([]model.Reservation, error)
	ListByStay(ctx context.Context, stayID uint64) ([]model.Reservation, error)
}

// EventPublisher receives reservation events after commit.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, ev queue.ReservationEvent) error
}

// ReservationService books and cancels stays.  The occupancy ledger is
// the only source of truth for whether a night is taken; checking it
// and claiming the nights happen in one serializable unit that also
// holds the stay's row lock.
type ReservationService struct {
	tx     TxBeginner
	reader ReservationLister
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewReservationService wires the service.  events may be nil.
func NewReservationService(tx TxBeginner, reader ReservationLister, events EventPublisher, log *zap.Logger) *ReservationService {
	return &ReservationService{tx: tx, reader: reader, events: events, log: log, now: time.Now}
}

// Add books stayID for guest over rng.  The range is expected to be
// validated by the caller; an empty range is still refused so that no
// reservation without nights can exist.  No retry happens here: a
// serialization failure comes back as ErrTransient.
func (s *ReservationService) Add(ctx context.Context, stayID uint64, guest string, rng model.DateRange) (*model.Reservation, error) {
	if !rng.Valid() {
		return nil, ErrInvalidRange
	}

	u, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	committed := false
	defer func() {
		if !committed {
			_ = u.Rollback()
		}
	}()

	if err := u.LockStay(ctx, stayID); err != nil {
		return nil, storeErr(err, ErrStayNotFound)
	}
	taken, err := u.FindOccupiedStayIDs(ctx, []uint64{stayID}, rng.Checkin, rng.LastNight())
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if _, ok := taken[stayID]; ok {
		return nil, ErrCollision
	}

	// nights are claimed before the reservation row exists
	if err := u.SaveOccupancy(ctx, model.OccupancyFor(stayID, rng)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCollision
		}
		return nil, storeErr(err, nil)
	}
	res := model.NewReservation(stayID, guest, rng)
	if err := u.SaveReservation(ctx, res); err != nil {
		return nil, storeErr(err, nil)
	}
	if err := u.Commit(); err != nil {
		return nil, storeErr(err, nil)
	}
	committed = true

	s.log.Info("reservation created",
		zap.Uint64("reservation_id", res.ID),
		zap.Uint64("stay_id", stayID),
		zap.String("guest", guest),
		zap.String("checkin", model.FormatDate(rng.Checkin)),
		zap.String("checkout", model.FormatDate(rng.Checkout)))
	s.publish(ctx, queue.ReservationCreated, res)
	return res, nil
}

// Delete cancels reservation id if it belongs to guest, releasing
// exactly its nights.  A foreign reservation is reported as not found.
func (s *ReservationService) Delete(ctx context.Context, id uint64, guest string) error {
	u, err := s.tx.Begin(ctx)
	if err != nil {
		return storeErr(err, nil)
	}
	committed := false
	defer func() {
		if !committed {
			_ = u.Rollback()
		}
	}()

	res, err := u.FindReservationByIDAndGuest(ctx, id, guest)
	if err != nil {
		return storeErr(err, ErrReservationNotFound)
	}
	if err := u.LockStay(ctx, res.StayID); err != nil {
		return storeErr(err, ErrStayNotFound)
	}
	for _, night := range res.Range().Nights() {
		if err := u.DeleteOccupancy(ctx, res.StayID, night); err != nil {
			return storeErr(err, nil)
		}
	}
	if err := u.DeleteReservation(ctx, res.ID); err != nil {
		return storeErr(err, ErrReservationNotFound)
	}
	if err := u.Commit(); err != nil {
		return storeErr(err, nil)
	}
	committed = true

	s.log.Info("reservation cancelled",
		zap.Uint64("reservation_id", res.ID),
		zap.Uint64("stay_id", res.StayID),
		zap.String("guest", guest))
	s.publish(ctx, queue.ReservationCancelled, res)
	return nil
}

// ListByGuest returns the guest's own reservations.
func (s *ReservationService) ListByGuest(ctx context.Context, guest string) ([]model.Reservation, error) {
	out, err := s.reader.ListByGuest(ctx, guest)
	return out, storeErr(err, nil)
}

// ListByStay returns all reservations of a stay.  Callers check that
// the requester hosts the stay.
func (s *ReservationService) ListByStay(ctx context.Context, stayID uint64) ([]model.Reservation, error) {
	out, err := s.reader.ListByStay(ctx, stayID)
	return out, storeErr(err, nil)
}

// publish is best-effort: the booking already committed.
func (s *ReservationService) publish(ctx context.Context, typ string, res *model.Reservation) {
	if s.events == nil {
		return
	}
	ev := queue.NewReservationEvent(typ, res, s.now())
	if err := s.events.PublishReservationEvent(ctx, ev); err != nil {
		s.log.Warn("reservation event not published",
			zap.String("type", typ), zap.Uint64("reservation_id", res.ID), zap.Error(err))
	}
}
