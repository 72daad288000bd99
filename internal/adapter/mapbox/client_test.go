package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-news-service/internal/observability"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	c := NewClient(testToken, 5*time.Second, testMetrics(), testLogger())
	c.baseURL = baseURL
	return c
}

func TestClient_ReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// lon,lat order in the path.
		assert.True(t, strings.HasSuffix(r.URL.Path, "/-3.703800,40.416800.json"), r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{
				{
					PlaceName: "Madrid, Comunidad de Madrid, Spain",
					Text:      "Madrid",
					Relevance: 0.98,
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ReverseGeocode(context.Background(), 40.4168, -3.7038)
	require.NoError(t, err)

	assert.Equal(t, "Madrid, Comunidad de Madrid, Spain", result.FormattedAddress)
	assert.Equal(t, "Madrid", result.PlaceName)
	assert.Equal(t, 0.98, result.Confidence)
}

func TestClient_ReverseGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, result.PlaceName)
	assert.Empty(t, result.FormattedAddress)
}

func TestClient_ReverseGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ReverseGeocode(context.Background(), 40.4168, -3.7038)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_ReverseGeocode_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ReverseGeocode(context.Background(), 40.4168, -3.7038)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	for range 3 {
		_, err := c.ReverseGeocode(context.Background(), 40.4168, -3.7038)
		require.Error(t, err)
	}

	_, err := c.ReverseGeocode(context.Background(), 40.4168, -3.7038)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls, "open breaker should not reach the API")
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL)
	_, err := c.ReverseGeocode(ctx, 40.4168, -3.7038)
	require.Error(t, err)
}
