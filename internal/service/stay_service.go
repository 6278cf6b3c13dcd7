package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/stay-booking/internal/model"
)

// ImageStore persists uploaded pictures and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Geocoder turns an address into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (model.Location, error)
}

// LocationIndex stores one location entry per stay.
type LocationIndex interface {
	Add(ctx context.Context, stayID uint64, loc model.Location) error
	Remove(ctx context.Context, stayID uint64) error
}

// StayReader covers the stay lookups and the compensating delete.
type StayReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Stay, error)
	GetByIDAndHost(ctx context.Context, id uint64, host string) (*model.Stay, error)
	ListByHost(ctx context.Context, host string) ([]model.Stay, error)
	Delete(ctx context.Context, id uint64) error
}

// ImageUpload is one picture attached to a new stay.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// NewStayInput is what a host submits to list a stay.
type NewStayInput struct {
	Name        string
	Description string
	Address     string
	GuestNumber int
	Images      []ImageUpload
}

// StayService manages a host's stays and keeps the geo index in step
// with the relational store.
type StayService struct {
	tx     TxBeginner
	stays  StayReader
	images ImageStore
	geo    Geocoder
	index  LocationIndex
	log    *zap.Logger
	now    func() time.Time
}

func NewStayService(tx TxBeginner, stays StayReader, images ImageStore, geo Geocoder, index LocationIndex, log *zap.Logger) *StayService {
	return &StayService{tx: tx, stays: stays, images: images, geo: geo, index: index, log: log, now: time.Now}
}

// ListByHost returns the host's stays.
func (s *StayService) ListByHost(ctx context.Context, host string) ([]model.Stay, error) {
	out, err := s.stays.ListByHost(ctx, host)
	return out, storeErr(err, nil)
}

// GetByIDAndHost returns a stay only to its host.
func (s *StayService) GetByIDAndHost(ctx context.Context, id uint64, host string) (*model.Stay, error) {
	st, err := s.stays.GetByIDAndHost(ctx, id, host)
	return st, storeErr(err, ErrStayNotFound)
}

// GetByID is the public view of a stay.
func (s *StayService) GetByID(ctx context.Context, id uint64) (*model.Stay, error) {
	st, err := s.stays.GetByID(ctx, id)
	return st, storeErr(err, ErrStayNotFound)
}

// Create stores the images, geocodes the address, inserts the stay and
// finally indexes its location.  Uploaded files are removed again when
// a later step fails, and a stay that cannot be indexed is deleted so
// it never exists unsearchable.
func (s *StayService) Create(ctx context.Context, host string, in NewStayInput) (*model.Stay, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Address == "" || in.GuestNumber < 1 {
		return nil, ErrInvalidStay
	}

	urls, err := s.saveImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}
	stored := false
	defer func() {
		if !stored {
			s.dropImages(urls)
		}
	}()

	loc, err := s.geo.Resolve(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	st := model.NewStay(in.Name, in.Description, in.Address, in.GuestNumber, host)
	st.AttachImages(urls...)
	if err := s.insert(ctx, st); err != nil {
		return nil, err
	}

	if err := s.index.Add(ctx, st.ID, loc); err != nil {
		s.log.Error("geo index add failed, removing stay", zap.Uint64("stay_id", st.ID), zap.Error(err))
		if derr := s.stays.Delete(context.WithoutCancel(ctx), st.ID); derr != nil {
			s.log.Error("compensating stay delete failed", zap.Uint64("stay_id", st.ID), zap.Error(derr))
		}
		return nil, fmt.Errorf("index stay location: %w", err)
	}
	stored = true

	s.log.Info("stay created", zap.Uint64("stay_id", st.ID), zap.String("host", host), zap.Int("images", len(urls)))
	return st, nil
}

func (s *StayService) insert(ctx context.Context, st *model.Stay) error {
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
	if err := u.SaveStay(ctx, st); err != nil {
		return storeErr(err, nil)
	}
	if err := u.Commit(); err != nil {
		return storeErr(err, nil)
	}
	committed = true
	return nil
}

// saveImages uploads in parallel and keeps the input order of URLs.
func (s *StayService) saveImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			u, err := s.images.Save(gctx, img.Filename, img.Content)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.dropImages(urls)
		return nil, fmt.Errorf("%w: %w", ErrImageUpload, err)
	}
	return urls, nil
}

func (s *StayService) dropImages(urls []string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := s.images.Delete(context.Background(), u); err != nil {
			s.log.Warn("image cleanup failed", zap.String("url", u), zap.Error(err))
		}
	}
}

// Delete removes the host's stay unless a reservation checks out after
// today.  Past reservations, nights and image rows go with the stay.
// The location entry is removed after commit; if that fails the entry
// is left for search to skip.
func (s *StayService) Delete(ctx context.Context, id uint64, host string) error {
	st, err := s.stays.GetByIDAndHost(ctx, id, host)
	if err != nil {
		return storeErr(err, ErrStayNotFound)
	}

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

	if err := u.LockStayOfHost(ctx, id, host); err != nil {
		return storeErr(err, ErrStayNotFound)
	}
	upcoming, err := u.FindReservationsByStayWithCheckoutAfter(ctx, id, model.Day(s.now()))
	if err != nil {
		return storeErr(err, nil)
	}
	if len(upcoming) > 0 {
		return ErrStayHasReservations
	}
	if err := u.DeleteStay(ctx, id); err != nil {
		return storeErr(err, ErrStayNotFound)
	}
	if err := u.Commit(); err != nil {
		return storeErr(err, nil)
	}
	committed = true

	if err := s.index.Remove(ctx, id); err != nil {
		s.log.Warn("geo index remove failed", zap.Uint64("stay_id", id), zap.Error(err))
	}
	urls := make([]string, 0, len(st.Images))
	for _, img := range st.Images {
		urls = append(urls, img.URL)
	}
	s.dropImages(urls)
	s.log.Info("stay deleted", zap.Uint64("stay_id", id), zap.String("host", host))
	return nil
}
