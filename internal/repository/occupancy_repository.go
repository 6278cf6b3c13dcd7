package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/stay-booking/internal/model"
)

// OccupancyRepo reads and writes the stay_reserved_dates ledger.  One
// row per (stay, night); the composite primary key is the collision
// guard, so writes belong inside the booking transaction.
type OccupancyRepo struct {
	db *sql.DB
}

// NewOccupancyRepo returns an OccupancyRepo bound to db.
func NewOccupancyRepo(db *sql.DB) *OccupancyRepo { return &OccupancyRepo{db: db} }

// FindOccupiedStayIDs returns the subset of stayIDs that have at least
// one reserved night in [from, to].  Both ends are inclusive and are
// nights, not checkout days.
func (r *OccupancyRepo) FindOccupiedStayIDs(ctx context.Context, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error) {
	return findOccupiedStayIDs(ctx, r.db, stayIDs, from, to)
}

// FindOccupiedStayIDsTx is FindOccupiedStayIDs inside tx.
func (r *OccupancyRepo) FindOccupiedStayIDsTx(ctx context.Context, tx *sql.Tx, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error) {
	return findOccupiedStayIDs(ctx, tx, stayIDs, from, to)
}

func findOccupiedStayIDs(ctx context.Context, q querier, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error) {
	occupied := make(map[uint64]struct{})
	if len(stayIDs) == 0 {
		return occupied, nil
	}
	in, args := inClause(stayIDs)
	args = append(args, model.FormatDate(from), model.FormatDate(to))
	query := `SELECT DISTINCT stay_id FROM stay_reserved_dates
              WHERE stay_id IN (` + in + `) AND date BETWEEN ? AND ?`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, classify(err)
		}
		occupied[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return occupied, nil
}

// SaveAllTx inserts every record in one statement.  A night that is
// already taken makes the whole insert fail with ErrDuplicate.
// Passing an empty slice has no effect.
func (r *OccupancyRepo) SaveAllTx(ctx context.Context, tx *sql.Tx, recs []model.OccupancyRecord) error {
	if len(recs) == 0 {
		return nil
	}
	query := `INSERT INTO stay_reserved_dates (stay_id, date) VALUES `
	args := make([]any, 0, len(recs)*2)
	for i, rec := range recs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, rec.StayID, model.FormatDate(rec.Date))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return classify(err)
}

// DeleteByKeyTx removes the single night (stayID, date).
func (r *OccupancyRepo) DeleteByKeyTx(ctx context.Context, tx *sql.Tx, stayID uint64, date time.Time) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM stay_reserved_dates WHERE stay_id = ? AND date = ?`,
		stayID, model.FormatDate(date))
	return classify(err)
}
