package news

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-news-service/internal/domain"
)

const geocodeTimeout = 3 * time.Second

// PlaceResolver names the place the dataset was observed at. With a geocoder
// and station coordinates it reverse-geocodes them; otherwise, or on failure,
// it returns the configured fallback name.
type PlaceResolver struct {
	fallback string
	geocoder domain.Geocoder
	lat, lon float64
	logger   *slog.Logger
}

// NewPlaceResolver returns a resolver that always answers fallback.
func NewPlaceResolver(fallback string) *PlaceResolver {
	return &PlaceResolver{fallback: fallback}
}

// WithGeocoder enables reverse geocoding of the station at lat, lon.
func (r *PlaceResolver) WithGeocoder(g domain.Geocoder, lat, lon float64, logger *slog.Logger) *PlaceResolver {
	r.geocoder = g
	r.lat, r.lon = lat, lon
	r.logger = logger
	return r
}

// Resolve returns the place name for narration.
func (r *PlaceResolver) Resolve(ctx context.Context) string {
	if r.geocoder == nil {
		return r.fallback
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	result, err := r.geocoder.ReverseGeocode(ctx, r.lat, r.lon)
	if err != nil {
		r.logger.Warn("place lookup failed, using configured name", "place", r.fallback, "error", err)
		return r.fallback
	}
	if result.PlaceName == "" {
		return r.fallback
	}
	return result.PlaceName
}
