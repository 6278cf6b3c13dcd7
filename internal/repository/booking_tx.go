package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/stay-booking/internal/model"
)

// BookingUnit is one serializable transaction over the stay, reservation
// and occupancy tables.  Every exit path must end in Commit or
// Rollback; Rollback after a successful Commit is a no-op.
type BookingUnit interface {
	LockStay(ctx context.Context, stayID uint64) error
	LockStayOfHost(ctx context.Context, stayID uint64, host string) error
	FindOccupiedStayIDs(ctx context.Context, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error)
	SaveOccupancy(ctx context.Context, recs []model.OccupancyRecord) error
	DeleteOccupancy(ctx context.Context, stayID uint64, date time.Time) error
	SaveReservation(ctx context.Context, res *model.Reservation) error
	FindReservationByIDAndGuest(ctx context.Context, id uint64, guest string) (*model.Reservation, error)
	FindReservationsByStayWithCheckoutAfter(ctx context.Context, stayID uint64, date time.Time) ([]model.Reservation, error)
	DeleteReservation(ctx context.Context, id uint64) error
	SaveStay(ctx context.Context, s *model.Stay) error
	DeleteStay(ctx context.Context, stayID uint64) error
	Commit() error
	Rollback() error
}

// BookingTxManager opens BookingUnits on a MySQL connection pool.
type BookingTxManager struct {
	db           *sql.DB
	stays        *StayRepo
	reservations *ReservationRepo
	occupancy    *OccupancyRepo
}

// NewBookingTxManager wires the three repos that share each transaction.
func NewBookingTxManager(db *sql.DB) *BookingTxManager {
	return &BookingTxManager{
		db:           db,
		stays:        NewStayRepo(db),
		reservations: NewReservationRepo(db),
		occupancy:    NewOccupancyRepo(db),
	}
}

// Begin starts a SERIALIZABLE transaction.
func (m *BookingTxManager) Begin(ctx context.Context) (BookingUnit, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, classify(err)
	}
	return &sqlBookingUnit{tx: tx, m: m}, nil
}

type sqlBookingUnit struct {
	tx *sql.Tx
	m  *BookingTxManager
}

func (u *sqlBookingUnit) LockStay(ctx context.Context, stayID uint64) error {
	return u.m.stays.LockByIDTx(ctx, u.tx, stayID)
}

func (u *sqlBookingUnit) LockStayOfHost(ctx context.Context, stayID uint64, host string) error {
	return u.m.stays.LockByIDAndHostTx(ctx, u.tx, stayID, host)
}

func (u *sqlBookingUnit) FindOccupiedStayIDs(ctx context.Context, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error) {
	return u.m.occupancy.FindOccupiedStayIDsTx(ctx, u.tx, stayIDs, from, to)
}

func (u *sqlBookingUnit) SaveOccupancy(ctx context.Context, recs []model.OccupancyRecord) error {
	return u.m.occupancy.SaveAllTx(ctx, u.tx, recs)
}

func (u *sqlBookingUnit) DeleteOccupancy(ctx context.Context, stayID uint64, date time.Time) error {
	return u.m.occupancy.DeleteByKeyTx(ctx, u.tx, stayID, date)
}

func (u *sqlBookingUnit) SaveReservation(ctx context.Context, res *model.Reservation) error {
	return u.m.reservations.CreateTx(ctx, u.tx, res)
}

func (u *sqlBookingUnit) FindReservationByIDAndGuest(ctx context.Context, id uint64, guest string) (*model.Reservation, error) {
	return u.m.reservations.GetByIDAndGuestTx(ctx, u.tx, id, guest)
}

func (u *sqlBookingUnit) FindReservationsByStayWithCheckoutAfter(ctx context.Context, stayID uint64, date time.Time) ([]model.Reservation, error) {
	return u.m.reservations.ListByStayWithCheckoutAfterTx(ctx, u.tx, stayID, date)
}

func (u *sqlBookingUnit) DeleteReservation(ctx context.Context, id uint64) error {
	return u.m.reservations.DeleteByIDTx(ctx, u.tx, id)
}

func (u *sqlBookingUnit) SaveStay(ctx context.Context, s *model.Stay) error {
	return u.m.stays.CreateTx(ctx, u.tx, s)
}

func (u *sqlBookingUnit) DeleteStay(ctx context.Context, stayID uint64) error {
	return u.m.stays.DeleteTx(ctx, u.tx, stayID)
}

// Commit maps serialization failures reported at commit time to
// ErrTransient like any other statement.
func (u *sqlBookingUnit) Commit() error {
	return classify(u.tx.Commit())
}

func (u *sqlBookingUnit) Rollback() error {
	err := u.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
