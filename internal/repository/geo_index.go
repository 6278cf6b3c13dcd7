package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/stay-booking/internal/model"
)

// GeoIndex keeps one LocationEntry per stay in a Redis GEO sorted set.
// Members are the decimal stay IDs.
type GeoIndex struct {
	rdb  *redis.Client
	key  string
	unit string
}

// ErrGeoIndexUnavailable is returned when no Redis client is configured.
var ErrGeoIndexUnavailable = errors.New("geo index unavailable")

// NewGeoIndex returns a GeoIndex storing entries under key.  unit is
// the radius unit accepted by GEORADIUS (m, km, mi, ft).
func NewGeoIndex(rdb *redis.Client, key, unit string) *GeoIndex {
	return &GeoIndex{rdb: rdb, key: key, unit: unit}
}

// Unit returns the radius unit used by SearchWithinRadius.
func (g *GeoIndex) Unit() string { return g.unit }

// Add stores or replaces the stay's location.
func (g *GeoIndex) Add(ctx context.Context, stayID uint64, loc model.Location) error {
	if g.rdb == nil {
		return ErrGeoIndexUnavailable
	}
	return classifyRedis(g.rdb.GeoAdd(ctx, g.key, &redis.GeoLocation{
		Name:      strconv.FormatUint(stayID, 10),
		Longitude: loc.Lon,
		Latitude:  loc.Lat,
	}).Err())
}

// Remove drops the stay's location.  Removing an absent stay is not an
// error.
func (g *GeoIndex) Remove(ctx context.Context, stayID uint64) error {
	if g.rdb == nil {
		return ErrGeoIndexUnavailable
	}
	return classifyRedis(g.rdb.ZRem(ctx, g.key, strconv.FormatUint(stayID, 10)).Err())
}

// SearchWithinRadius returns every stay within radius of (lat, lon),
// nearest first.
func (g *GeoIndex) SearchWithinRadius(ctx context.Context, lat, lon, radius float64) ([]model.GeoHit, error) {
	if g.rdb == nil {
		return nil, ErrGeoIndexUnavailable
	}
	locs, err := g.rdb.GeoRadius(ctx, g.key, lon, lat, &redis.GeoRadiusQuery{
		Radius:   radius,
		Unit:     g.unit,
		WithDist: true,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, classifyRedis(err)
	}
	hits := make([]model.GeoHit, 0, len(locs))
	for _, l := range locs {
		id, err := strconv.ParseUint(l.Name, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("geo index member %q: %w", l.Name, err)
		}
		hits = append(hits, model.GeoHit{StayID: id, Distance: l.Dist})
	}
	return hits, nil
}
