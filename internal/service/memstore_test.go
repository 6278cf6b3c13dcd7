package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/repository"
)

type nightKey struct {
	stay uint64
	date string
}

// memStore is an in-memory stand-in for MySQL.  A unit holds txMu from
// Begin until Commit or Rollback, which makes every unit serializable;
// Rollback restores the snapshot taken at Begin.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	stays        map[uint64]model.Stay
	reservations map[uint64]model.Reservation
	nights       map[nightKey]struct{}
	nextID       uint64

	lockErr   error // returned by LockStay when set
	commitErr error // returned by Commit when set
	begins    int
}

func newMemStore() *memStore {
	return &memStore{
		stays:        map[uint64]model.Stay{},
		reservations: map[uint64]model.Reservation{},
		nights:       map[nightKey]struct{}{},
		nextID:       100,
	}
}

func (m *memStore) addStay(s model.Stay) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stays[s.ID] = s
}

func (m *memStore) nightTaken(stay uint64, d string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.nights[nightKey{stay, d}]
	return ok
}

func (m *memStore) Begin(ctx context.Context) (repository.BookingUnit, error) {
	m.txMu.Lock()
	m.mu.Lock()
	m.begins++
	snap := memSnapshot{
		stays:        cloneMap(m.stays),
		reservations: cloneMap(m.reservations),
		nights:       cloneMap(m.nights),
		nextID:       m.nextID,
	}
	m.mu.Unlock()
	return &memUnit{m: m, snap: snap}, nil
}

type memSnapshot struct {
	stays        map[uint64]model.Stay
	reservations map[uint64]model.Reservation
	nights       map[nightKey]struct{}
	nextID       uint64
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type memUnit struct {
	m    *memStore
	snap memSnapshot
	done bool
}

func (u *memUnit) LockStay(ctx context.Context, stayID uint64) error {
	if u.m.lockErr != nil {
		return u.m.lockErr
	}
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if _, ok := u.m.stays[stayID]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (u *memUnit) LockStayOfHost(ctx context.Context, stayID uint64, host string) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if s, ok := u.m.stays[stayID]; !ok || s.Host != host {
		return repository.ErrNotFound
	}
	return nil
}

func (u *memUnit) FindOccupiedStayIDs(ctx context.Context, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error) {
	return u.m.FindOccupiedStayIDs(ctx, stayIDs, from, to)
}

func (u *memUnit) SaveOccupancy(ctx context.Context, recs []model.OccupancyRecord) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	for _, r := range recs {
		k := nightKey{r.StayID, model.FormatDate(r.Date)}
		if _, ok := u.m.nights[k]; ok {
			return fmt.Errorf("%w: %v", repository.ErrDuplicate, k)
		}
		u.m.nights[k] = struct{}{}
	}
	return nil
}

func (u *memUnit) DeleteOccupancy(ctx context.Context, stayID uint64, date time.Time) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	delete(u.m.nights, nightKey{stayID, model.FormatDate(date)})
	return nil
}

func (u *memUnit) SaveReservation(ctx context.Context, res *model.Reservation) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	u.m.nextID++
	res.ID = u.m.nextID
	u.m.reservations[res.ID] = *res
	return nil
}

func (u *memUnit) FindReservationByIDAndGuest(ctx context.Context, id uint64, guest string) (*model.Reservation, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	r, ok := u.m.reservations[id]
	if !ok || r.Guest != guest {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (u *memUnit) FindReservationsByStayWithCheckoutAfter(ctx context.Context, stayID uint64, date time.Time) ([]model.Reservation, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	var out []model.Reservation
	for _, r := range u.m.reservations {
		if r.StayID == stayID && r.CheckoutDate.After(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (u *memUnit) DeleteReservation(ctx context.Context, id uint64) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	if _, ok := u.m.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(u.m.reservations, id)
	return nil
}

func (u *memUnit) SaveStay(ctx context.Context, s *model.Stay) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	u.m.nextID++
	s.ID = u.m.nextID
	for i := range s.Images {
		s.Images[i].StayID = s.ID
	}
	u.m.stays[s.ID] = *s
	return nil
}

func (u *memUnit) DeleteStay(ctx context.Context, stayID uint64) error {
	return u.m.Delete(ctx, stayID)
}

func (u *memUnit) Commit() error {
	if u.done {
		return nil
	}
	if err := u.m.commitErr; err != nil {
		return err
	}
	u.done = true
	u.m.txMu.Unlock()
	return nil
}

func (u *memUnit) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.m.mu.Lock()
	u.m.stays = u.snap.stays
	u.m.reservations = u.snap.reservations
	u.m.nights = u.snap.nights
	u.m.nextID = u.snap.nextID
	u.m.mu.Unlock()
	u.m.txMu.Unlock()
	return nil
}

// Non-transactional reads used by the services and the search stages.

func (m *memStore) FindOccupiedStayIDs(ctx context.Context, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uint64]struct{}{}
	for _, id := range stayIDs {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if _, ok := m.nights[nightKey{id, model.FormatDate(d)}]; ok {
				out[id] = struct{}{}
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) FindByIDsWithCapacityAtLeast(ctx context.Context, ids []uint64, minGuests int) ([]model.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Stay{}
	for _, id := range ids {
		if s, ok := m.stays[id]; ok && s.GuestNumber >= minGuests {
			out = append(out, s)
		}
	}
	// store order, not request order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListByGuest(ctx context.Context, guest string) ([]model.Reservation, error) {
	return m.listReservations(func(r model.Reservation) bool { return r.Guest == guest }), nil
}

func (m *memStore) ListByStay(ctx context.Context, stayID uint64) ([]model.Reservation, error) {
	return m.listReservations(func(r model.Reservation) bool { return r.StayID == stayID }), nil
}

func (m *memStore) listReservations(keep func(model.Reservation) bool) []model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range m.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckinDate.Before(out[j].CheckinDate) })
	return out
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (*model.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stays[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) GetByIDAndHost(ctx context.Context, id uint64, host string) (*model.Stay, error) {
	s, err := m.GetByID(ctx, id)
	if err != nil || s.Host != host {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (m *memStore) ListByHost(ctx context.Context, host string) ([]model.Stay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Stay{}
	for _, s := range m.stays {
		if s.Host == host {
			out = append(out, s)
		}
	}
	return out, nil
}

// Delete cascades to reservations and nights like the real schema.
func (m *memStore) Delete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stays[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.stays, id)
	for rid, r := range m.reservations {
		if r.StayID == id {
			delete(m.reservations, rid)
		}
	}
	for k := range m.nights {
		if k.stay == id {
			delete(m.nights, k)
		}
	}
	return nil
}
