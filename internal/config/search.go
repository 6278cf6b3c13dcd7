package config

// SearchConfig holds the fixed defaults of stay search.  A request
// without a distance uses DefaultDistance; a distance without a unit
// suffix is read in DistanceUnit.
type SearchConfig struct {
	DefaultDistance string // SEARCH_DEFAULT_DISTANCE, "50"
	DistanceUnit    string // SEARCH_DISTANCE_UNIT, "km"
	GeoIndexKey     string // GEO_INDEX_KEY, "stays:geo"
}

func LoadSearchConfig() SearchConfig {
	return SearchConfig{
		DefaultDistance: envStr("SEARCH_DEFAULT_DISTANCE", "50"),
		DistanceUnit:    envStr("SEARCH_DISTANCE_UNIT", "km"),
		GeoIndexKey:     envStr("GEO_INDEX_KEY", "stays:geo"),
	}
}
