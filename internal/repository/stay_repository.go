package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/stay-booking/internal/model"
)

// StayRepo persists stays and their images.  Reads hydrate the image
// list with one extra query per call, never one per stay.
type StayRepo struct {
	db *sql.DB
}

// NewStayRepo returns a new StayRepo bound to the given database.
func NewStayRepo(db *sql.DB) *StayRepo { return &StayRepo{db: db} }

const stayColumns = `id, name, description, address, guest_number, host`

// CreateTx inserts the stay and its images inside tx and sets s.ID.
func (r *StayRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Stay) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO stays (name, description, address, guest_number, host) VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.Description, s.Address, s.GuestNumber, s.Host)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	if len(s.Images) == 0 {
		return nil
	}
	query := `INSERT INTO stay_images (url, stay_id) VALUES `
	args := make([]any, 0, len(s.Images)*2)
	for i := range s.Images {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		s.Images[i].StayID = s.ID
		args = append(args, s.Images[i].URL, s.ID)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return classify(err)
}

// GetByID returns a stay with its images, or ErrNotFound.
func (r *StayRepo) GetByID(ctx context.Context, id uint64) (*model.Stay, error) {
	stays, err := r.list(ctx, `SELECT `+stayColumns+` FROM stays WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(stays) == 0 {
		return nil, ErrNotFound
	}
	return &stays[0], nil
}

// GetByIDAndHost returns the stay only when host owns it.
func (r *StayRepo) GetByIDAndHost(ctx context.Context, id uint64, host string) (*model.Stay, error) {
	stays, err := r.list(ctx, `SELECT `+stayColumns+` FROM stays WHERE id = ? AND host = ?`, id, host)
	if err != nil {
		return nil, err
	}
	if len(stays) == 0 {
		return nil, ErrNotFound
	}
	return &stays[0], nil
}

// ListByHost returns every stay owned by host, newest first.
func (r *StayRepo) ListByHost(ctx context.Context, host string) ([]model.Stay, error) {
	return r.list(ctx, `SELECT `+stayColumns+` FROM stays WHERE host = ? ORDER BY id DESC`, host)
}

// FindByIDsWithCapacityAtLeast returns the stays among ids that sleep at
// least minGuests.  Result order is unspecified; callers reorder.
func (r *StayRepo) FindByIDsWithCapacityAtLeast(ctx context.Context, ids []uint64, minGuests int) ([]model.Stay, error) {
	if len(ids) == 0 {
		return []model.Stay{}, nil
	}
	in, args := inClause(ids)
	args = append(args, minGuests)
	return r.list(ctx, `SELECT `+stayColumns+` FROM stays WHERE id IN (`+in+`) AND guest_number >= ?`, args...)
}

// LockByIDTx takes a row lock on the stay for the rest of tx.  Adds and
// cancellations on the same stay queue behind this lock.
func (r *StayRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM stays WHERE id = ? FOR UPDATE`, id).Scan(&got)
	return classify(err)
}

// LockByIDAndHostTx is LockByIDTx restricted to stays owned by host.
func (r *StayRepo) LockByIDAndHostTx(ctx context.Context, tx *sql.Tx, id uint64, host string) error {
	var got uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM stays WHERE id = ? AND host = ? FOR UPDATE`, id, host).Scan(&got)
	return classify(err)
}

// DeleteTx removes the stay.  Images, nights and reservations go with
// it through ON DELETE CASCADE.
func (r *StayRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	return deleteStay(ctx, tx, id)
}

// Delete removes the stay outside any transaction.  Used to undo a
// create whose geo indexing failed.
func (r *StayRepo) Delete(ctx context.Context, id uint64) error {
	return deleteStay(ctx, r.db, id)
}

func deleteStay(ctx context.Context, q querier, id uint64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM stays WHERE id = ?`, id)
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

func (r *StayRepo) list(ctx context.Context, query string, args ...any) ([]model.Stay, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	stays := []model.Stay{}
	for rows.Next() {
		var s model.Stay
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Address, &s.GuestNumber, &s.Host); err != nil {
			return nil, classify(err)
		}
		s.Images = []model.StayImage{}
		stays = append(stays, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	if len(stays) == 0 {
		return stays, nil
	}
	if err := r.attachImages(ctx, stays); err != nil {
		return nil, err
	}
	return stays, nil
}

// attachImages loads the images of all stays with a single IN query.
func (r *StayRepo) attachImages(ctx context.Context, stays []model.Stay) error {
	ids := make([]uint64, len(stays))
	index := make(map[uint64]int, len(stays))
	for i, s := range stays {
		ids[i] = s.ID
		index[s.ID] = i
	}
	in, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx,
		`SELECT url, stay_id FROM stay_images WHERE stay_id IN (`+in+`) ORDER BY url`, args...)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()
	for rows.Next() {
		var img model.StayImage
		if err := rows.Scan(&img.URL, &img.StayID); err != nil {
			return classify(err)
		}
		if i, ok := index[img.StayID]; ok {
			stays[i].Images = append(stays[i].Images, img)
		}
	}
	return classify(rows.Err())
}
