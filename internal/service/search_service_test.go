package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/config"
	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/repository"
)

// fakeGeo returns every stay whose preset distance is within radius.
type fakeGeo struct {
	dist  map[uint64]float64
	calls int
	radii []float64
}

func (g *fakeGeo) SearchWithinRadius(ctx context.Context, lat, lon, radius float64) ([]model.GeoHit, error) {
	g.calls++
	g.radii = append(g.radii, radius)
	var hits []model.GeoHit
	for id, d := range g.dist {
		if d <= radius {
			hits = append(hits, model.GeoHit{StayID: id, Distance: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits, nil
}

type MockOccupancyFinder struct{ mock.Mock }

func (m *MockOccupancyFinder) FindOccupiedStayIDs(ctx context.Context, ids []uint64, from, to time.Time) (map[uint64]struct{}, error) {
	args := m.Called(ctx, ids, from, to)
	if v := args.Get(0); v != nil {
		return v.(map[uint64]struct{}), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCapacityFinder struct{ mock.Mock }

func (m *MockCapacityFinder) FindByIDsWithCapacityAtLeast(ctx context.Context, ids []uint64, minGuests int) ([]model.Stay, error) {
	args := m.Called(ctx, ids, minGuests)
	if v := args.Get(0); v != nil {
		return v.([]model.Stay), args.Error(1)
	}
	return nil, args.Error(1)
}

var searchCfg = config.SearchConfig{DefaultDistance: "50", DistanceUnit: "km", GeoIndexKey: "stays:geo"}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestSearch_CapacityFiltersSmallStay(t *testing.T) {
	store := newMemStore()
	store.addStay(model.Stay{ID: 1, Name: "A", GuestNumber: 4, Host: "h"})
	store.addStay(model.Stay{ID: 2, Name: "B", GuestNumber: 1, Host: "h"})
	geo := &fakeGeo{dist: map[uint64]float64{1: 2, 2: 2}}
	svc := NewSearchService(geo, store, store, searchCfg, zap.NewNop())

	got, err := svc.Search(context.Background(), 2, mustDay(t, "2025-07-01"), mustDay(t, "2025-07-03"), 10.0, 10.0, "5")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, []float64{5}, geo.radii)
}

func TestSearch_EmptyGeoStageShortCircuits(t *testing.T) {
	geo := &fakeGeo{dist: map[uint64]float64{1: 80}}
	occ := &MockOccupancyFinder{}
	caps := &MockCapacityFinder{}
	svc := NewSearchService(geo, occ, caps, searchCfg, zap.NewNop())

	got, err := svc.Search(context.Background(), 1, mustDay(t, "2025-07-01"), mustDay(t, "2025-07-03"), 0, 0, "5")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, geo.calls)
	occ.AssertNotCalled(t, "FindOccupiedStayIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	caps.AssertNotCalled(t, "FindByIDsWithCapacityAtLeast", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_AllBookedSkipsCapacityStage(t *testing.T) {
	geo := &fakeGeo{dist: map[uint64]float64{1: 1, 2: 3}}
	occ := &MockOccupancyFinder{}
	caps := &MockCapacityFinder{}
	occ.On("FindOccupiedStayIDs", mock.Anything, []uint64{1, 2}, mustDay(t, "2025-07-01"), mustDay(t, "2025-07-02")).
		Return(map[uint64]struct{}{1: {}, 2: {}}, nil).Once()
	svc := NewSearchService(geo, occ, caps, searchCfg, zap.NewNop())

	got, err := svc.Search(context.Background(), 1, mustDay(t, "2025-07-01"), mustDay(t, "2025-07-03"), 0, 0, "")

	require.NoError(t, err)
	assert.Empty(t, got)
	occ.AssertExpectations(t)
	caps.AssertNotCalled(t, "FindByIDsWithCapacityAtLeast", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_OccupiedStayDroppedRestOrderedByDistance(t *testing.T) {
	store := newMemStore()
	for id := uint64(1); id <= 4; id++ {
		store.addStay(model.Stay{ID: id, GuestNumber: 2, Host: "h"})
	}
	store.nights[nightKey{2, "2025-07-02"}] = struct{}{}
	// checkout day of the query range is not a requested night
	store.nights[nightKey{4, "2025-07-03"}] = struct{}{}
	geo := &fakeGeo{dist: map[uint64]float64{1: 4, 2: 1, 3: 0.5, 4: 3}}
	svc := NewSearchService(geo, store, store, searchCfg, zap.NewNop())

	got, err := svc.Search(context.Background(), 2, mustDay(t, "2025-07-01"), mustDay(t, "2025-07-03"), 0, 0, "10km")

	require.NoError(t, err)
	var ids []uint64
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []uint64{3, 4, 1}, ids)
}

func TestSearch_MoreGuestsNeverMoreResults(t *testing.T) {
	store := newMemStore()
	geo := &fakeGeo{dist: map[uint64]float64{}}
	for id := uint64(1); id <= 6; id++ {
		store.addStay(model.Stay{ID: id, GuestNumber: int(id), Host: "h"})
		geo.dist[id] = float64(id)
	}
	svc := NewSearchService(geo, store, store, searchCfg, zap.NewNop())
	ctx := context.Background()
	in, out := mustDay(t, "2025-07-01"), mustDay(t, "2025-07-05")

	prev := -1
	for guests := 1; guests <= 7; guests++ {
		got, err := svc.Search(ctx, guests, in, out, 0, 0, "5")
		require.NoError(t, err)
		for _, s := range got {
			assert.LessOrEqual(t, geo.dist[s.ID], 5.0, "result outside the spatial candidates")
		}
		if prev >= 0 {
			assert.LessOrEqual(t, len(got), prev)
		}
		prev = len(got)
	}
	assert.Zero(t, prev)
}

func TestSearch_BadRangeIsEmptyWithoutQueries(t *testing.T) {
	geo := &fakeGeo{dist: map[uint64]float64{1: 1}}
	svc := NewSearchService(geo, &MockOccupancyFinder{}, &MockCapacityFinder{}, searchCfg, zap.NewNop())

	got, err := svc.Search(context.Background(), 1, mustDay(t, "2025-07-03"), mustDay(t, "2025-07-03"), 0, 0, "5")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, geo.calls)
}

func TestSearch_StoreFailureIsFatal(t *testing.T) {
	geo := &fakeGeo{dist: map[uint64]float64{1: 1}}
	occ := &MockOccupancyFinder{}
	occ.On("FindOccupiedStayIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))
	svc := NewSearchService(geo, occ, &MockCapacityFinder{}, searchCfg, zap.NewNop())

	got, err := svc.Search(context.Background(), 1, mustDay(t, "2025-07-01"), mustDay(t, "2025-07-03"), 0, 0, "5")

	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestSearchRadiusParsing(t *testing.T) {
	svc := NewSearchService(nil, nil, nil, searchCfg, zap.NewNop())

	cases := map[string]float64{
		"5":      5,
		"":       50,
		"500m":   0.5,
		" 2 km ": 2,
		"1mi":    1.609344,
		"1000ft": 0.3048,
	}
	for in, want := range cases {
		got, err := svc.radius(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	for _, bad := range []string{"abc", "-1", "0", "NaN", "5yards"} {
		_, err := svc.radius(bad)
		assert.ErrorIs(t, err, ErrInvalidDistance, bad)
	}
}

type failingGeo struct{ err error }

func (g failingGeo) SearchWithinRadius(ctx context.Context, lat, lon, radius float64) ([]model.GeoHit, error) {
	return nil, g.err
}

func TestSearch_GeoOutageIsTransient(t *testing.T) {
	store := newMemStore()
	down := fmt.Errorf("%w: dial tcp 127.0.0.1:6379: connect: connection refused", repository.ErrTransient)
	svc := NewSearchService(failingGeo{err: down}, store, store, searchCfg, zap.NewNop())

	_, err := svc.Search(context.Background(), 1, mustDay(t, "2030-07-01"), mustDay(t, "2030-07-03"), 1, 1, "")
	assert.ErrorIs(t, err, ErrTransient)
}
