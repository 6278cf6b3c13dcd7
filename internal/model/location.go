package model

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoHit is one stay returned by a radius query, with its distance
// from the query point in the query's unit.
type GeoHit struct {
	StayID   uint64
	Distance float64
}
