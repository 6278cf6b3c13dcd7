package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/stay-booking/internal/model"
)

// ReservationRepo stores range-grain bookings.  The per-night ledger
// lives in OccupancyRepo; the two are always written together by the
// booking unit of work.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, checkin_date, checkout_date, guest, stay_id`

// CreateTx inserts res within tx and populates its generated ID.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (checkin_date, checkout_date, guest, stay_id) VALUES (?, ?, ?, ?)`,
		model.FormatDate(res.CheckinDate), model.FormatDate(res.CheckoutDate), res.Guest, res.StayID)
	if err != nil {
		return classify(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// ListByGuest returns the guest's reservations ordered by checkin.
func (r *ReservationRepo) ListByGuest(ctx context.Context, guest string) ([]model.Reservation, error) {
	return listReservations(ctx, r.db,
		`SELECT `+reservationColumns+` FROM reservations WHERE guest = ? ORDER BY checkin_date, id`, guest)
}

// ListByStay returns every reservation of a stay ordered by checkin.
func (r *ReservationRepo) ListByStay(ctx context.Context, stayID uint64) ([]model.Reservation, error) {
	return listReservations(ctx, r.db,
		`SELECT `+reservationColumns+` FROM reservations WHERE stay_id = ? ORDER BY checkin_date, id`, stayID)
}

// GetByIDAndGuestTx loads a reservation only if it belongs to guest and
// locks the row until tx ends.  A foreign or missing reservation
// yields ErrNotFound.
func (r *ReservationRepo) GetByIDAndGuestTx(ctx context.Context, tx *sql.Tx, id uint64, guest string) (*model.Reservation, error) {
	var res model.Reservation
	err := tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? AND guest = ? FOR UPDATE`,
		id, guest).Scan(&res.ID, &res.CheckinDate, &res.CheckoutDate, &res.Guest, &res.StayID)
	if err != nil {
		return nil, classify(err)
	}
	res.CheckinDate = model.Day(res.CheckinDate)
	res.CheckoutDate = model.Day(res.CheckoutDate)
	return &res, nil
}

// ListByStayWithCheckoutAfterTx returns reservations of a stay whose
// checkout is strictly after date.
func (r *ReservationRepo) ListByStayWithCheckoutAfterTx(ctx context.Context, tx *sql.Tx, stayID uint64, date time.Time) ([]model.Reservation, error) {
	return listReservations(ctx, tx,
		`SELECT `+reservationColumns+` FROM reservations WHERE stay_id = ? AND checkout_date > ? ORDER BY checkin_date, id`,
		stayID, model.FormatDate(date))
}

// DeleteByIDTx removes the reservation row.  Its nights must be
// released separately through OccupancyRepo.
func (r *ReservationRepo) DeleteByIDTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func listReservations(ctx context.Context, q querier, query string, args ...any) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.CheckinDate, &res.CheckoutDate, &res.Guest, &res.StayID); err != nil {
			return nil, classify(err)
		}
		res.CheckinDate = model.Day(res.CheckinDate)
		res.CheckoutDate = model.Day(res.CheckoutDate)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}
