package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-news-service/internal/domain"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{PlaceName: "Madrid", FormattedAddress: "Madrid, Spain"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	r1, err := cached.ReverseGeocode(context.Background(), 40.4168, -3.7038)
	require.NoError(t, err)
	assert.Equal(t, "Madrid", r1.PlaceName)

	r2, err := cached.ReverseGeocode(context.Background(), 40.4168, -3.7038)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{PlaceName: "Place"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 40.4168, -3.7038)
	_, _ = cached.ReverseGeocode(context.Background(), 37.3891, -5.9845)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ReverseGeocode(context.Background(), 0, 0)
	_, _ = cached.ReverseGeocode(context.Background(), 0, 0)
	assert.Equal(t, 2, inner.calls, "empty results are retried")

	inner.err = errors.New("boom")
	_, err := cached.ReverseGeocode(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Equal(t, 0, cached.cache.size())
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.GeocodingResult{PlaceName: "A"})
	c.put("b", domain.GeocodingResult{PlaceName: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.PlaceName)

	_, ok = c.get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{PlaceName: "A"})
	c.put("b", domain.GeocodingResult{PlaceName: "B"})
	c.put("c", domain.GeocodingResult{PlaceName: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result.PlaceName)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result.PlaceName)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{PlaceName: "A"})
	c.put("b", domain.GeocodingResult{PlaceName: "B"})

	c.get("a")

	// "b" is now least recently used.
	c.put("c", domain.GeocodingResult{PlaceName: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{PlaceName: "A1"})
	c.put("a", domain.GeocodingResult{PlaceName: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.PlaceName)
	assert.Equal(t, 1, c.size())
}

func TestLRUCache_NonPositiveSize(t *testing.T) {
	c := newLRUCache(0)
	c.put("a", domain.GeocodingResult{PlaceName: "A"})
	c.put("b", domain.GeocodingResult{PlaceName: "B"})
	assert.Equal(t, 1, c.size())
}
