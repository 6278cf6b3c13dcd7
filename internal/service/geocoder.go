package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/iliyamo/stay-booking/internal/config"
	"github.com/iliyamo/stay-booking/internal/model"
)

// GoogleGeocoder resolves addresses with the Google Geocoding JSON API
// (or anything speaking the same format at BaseURL).
type GoogleGeocoder struct {
	client *resty.Client
	apiKey string
}

func NewGoogleGeocoder(cfg config.GeocodingConfig) *GoogleGeocoder {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetHeader("Accept", "application/json")
	return &GoogleGeocoder{client: client, apiKey: cfg.APIKey}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PartialMatch bool `json:"partial_match"`
		Geometry     struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve returns the coordinates of address.  A partial or missing
// match fails with ErrInvalidAddress; transport and API failures fail
// with ErrGeoCoding.
func (g *GoogleGeocoder) Resolve(ctx context.Context, address string) (model.Location, error) {
	var out geocodeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"address": address, "key": g.apiKey}).
		SetResult(&out).
		Get("/maps/api/geocode/json")
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %w", ErrGeoCoding, err)
	}
	if resp.IsError() {
		return model.Location{}, fmt.Errorf("%w: http %d", ErrGeoCoding, resp.StatusCode())
	}
	switch out.Status {
	case "OK":
	case "ZERO_RESULTS":
		return model.Location{}, ErrInvalidAddress
	default:
		return model.Location{}, fmt.Errorf("%w: %s %s", ErrGeoCoding, out.Status, out.ErrorMessage)
	}
	if len(out.Results) == 0 || out.Results[0].PartialMatch {
		return model.Location{}, ErrInvalidAddress
	}
	loc := out.Results[0].Geometry.Location
	return model.Location{Lat: loc.Lat, Lon: loc.Lng}, nil
}
