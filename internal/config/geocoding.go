package config

import "time"

// GeocodingConfig points the geocoder at a Google-compatible
// /maps/api/geocode/json endpoint.
type GeocodingConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retries int
}

func LoadGeocodingConfig() GeocodingConfig {
	return GeocodingConfig{
		BaseURL: envStr("GEOCODING_BASE_URL", "https://maps.googleapis.com"),
		APIKey:  envStr("GEOCODING_API_KEY", ""),
		Timeout: envDur("GEOCODING_TIMEOUT", 5*time.Second),
		Retries: envInt("GEOCODING_RETRIES", 2),
	}
}
