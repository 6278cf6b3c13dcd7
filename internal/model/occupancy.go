package model

import "time"

// OccupancyRecord marks one calendar day of a stay as taken.  The pair
// (StayID, Date) is the row's only key; the store's uniqueness on that
// pair is what makes double booking impossible.
type OccupancyRecord struct {
	StayID uint64    // stay_reserved_dates.stay_id
	Date   time.Time // stay_reserved_dates.date
}

// OccupancyFor returns one record per night of rng for the given stay.
func OccupancyFor(stayID uint64, rng DateRange) []OccupancyRecord {
	nights := rng.Nights()
	out := make([]OccupancyRecord, 0, len(nights))
	for _, d := range nights {
		out = append(out, OccupancyRecord{StayID: stayID, Date: d})
	}
	return out
}
