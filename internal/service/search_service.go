package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/config"
	"github.com/iliyamo/stay-booking/internal/model"
)

// GeoSearcher is the spatial stage.  Hits come back nearest first.
type GeoSearcher interface {
	SearchWithinRadius(ctx context.Context, lat, lon, radius float64) ([]model.GeoHit, error)
}

// OccupancyFinder is the availability stage.
type OccupancyFinder interface {
	FindOccupiedStayIDs(ctx context.Context, stayIDs []uint64, from, to time.Time) (map[uint64]struct{}, error)
}

// CapacityFinder is the capacity stage; it also hydrates full stays.
type CapacityFinder interface {
	FindByIDsWithCapacityAtLeast(ctx context.Context, ids []uint64, minGuests int) ([]model.Stay, error)
}

// SearchService narrows stays in three stages: within distance of a
// point, free for every night of the range, and sleeping at least the
// requested number of guests.  Each stage only sees the survivors of the
// previous one and full records are loaded last.
type SearchService struct {
	geo   GeoSearcher
	occ   OccupancyFinder
	stays CapacityFinder
	cfg   config.SearchConfig
	log   *zap.Logger
}

func NewSearchService(geo GeoSearcher, occ OccupancyFinder, stays CapacityFinder, cfg config.SearchConfig, log *zap.Logger) *SearchService {
	return &SearchService{geo: geo, occ: occ, stays: stays, cfg: cfg, log: log}
}

// Search returns the matching stays ordered by ascending distance from
// (lat, lon).  distance is a number with an optional unit suffix (m,
// km, mi, ft); a bare number is read in the configured unit and an
// empty string means the configured default.  A range with checkin not
// before checkout yields an empty result, as does an empty stage.
// Store failures abort the whole search.
func (s *SearchService) Search(ctx context.Context, guestNumber int, checkin, checkout time.Time, lat, lon float64, distance string) ([]model.Stay, error) {
	rng := model.NewDateRange(checkin, checkout)
	if !rng.Valid() {
		return []model.Stay{}, nil
	}
	radius, err := s.radius(distance)
	if err != nil {
		return nil, err
	}

	hits, err := s.geo.SearchWithinRadius(ctx, lat, lon, radius)
	if err != nil {
		return nil, fmt.Errorf("geo stage: %w", storeErr(err, nil))
	}
	if len(hits) == 0 {
		return []model.Stay{}, nil
	}
	order := make(map[uint64]int, len(hits))
	ids := make([]uint64, 0, len(hits))
	for _, h := range hits {
		if _, dup := order[h.StayID]; dup {
			continue
		}
		order[h.StayID] = len(ids)
		ids = append(ids, h.StayID)
	}

	occupied, err := s.occ.FindOccupiedStayIDs(ctx, ids, rng.Checkin, rng.LastNight())
	if err != nil {
		return nil, fmt.Errorf("availability stage: %w", storeErr(err, nil))
	}
	free := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, taken := occupied[id]; !taken {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return []model.Stay{}, nil
	}

	stays, err := s.stays.FindByIDsWithCapacityAtLeast(ctx, free, guestNumber)
	if err != nil {
		return nil, fmt.Errorf("capacity stage: %w", storeErr(err, nil))
	}
	// a stay indexed but already deleted from the store simply drops out
	sort.SliceStable(stays, func(i, j int) bool { return order[stays[i].ID] < order[stays[j].ID] })

	s.log.Debug("stay search",
		zap.Int("geo_hits", len(ids)),
		zap.Int("available", len(free)),
		zap.Int("results", len(stays)))
	return stays, nil
}

var metersPer = map[string]float64{
	"m":  1,
	"km": 1000,
	"mi": 1609.344,
	"ft": 0.3048,
}

// radius converts distance into the configured index unit.
func (s *SearchService) radius(distance string) (float64, error) {
	unit := strings.ToLower(s.cfg.DistanceUnit)
	base, ok := metersPer[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidDistance, s.cfg.DistanceUnit)
	}
	d := strings.ToLower(strings.TrimSpace(distance))
	if d == "" {
		d = s.cfg.DefaultDistance
	}
	from := unit
	// longest suffix first so "km" is not read as "m"
	for _, u := range []string{"km", "mi", "ft", "m"} {
		if strings.HasSuffix(d, u) {
			from = u
			d = strings.TrimSpace(strings.TrimSuffix(d, u))
			break
		}
	}
	v, err := strconv.ParseFloat(d, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDistance, distance)
	}
	return v * metersPer[from] / base, nil
}
