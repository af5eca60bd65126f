package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmatch-engine/backend/internal/geo"
	"github.com/jobmatch-engine/backend/internal/storage"
)

func TestGeocodeSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mumbai", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"19.0760","lon":"72.8777"}]`))
	}))
	defer ts.Close()

	g := geo.NewNominatimGeocoder(ts.URL, "test-agent", 5*time.Second, 0, nil)
	point, err := g.Geocode(context.Background(), "Mumbai")

	require.NoError(t, err)
	require.NotNil(t, point)
	assert.InDelta(t, 19.0760, point.Lat, 1e-6)
	assert.InDelta(t, 72.8777, point.Lon, 1e-6)
}

func TestGeocodeNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	g := geo.NewNominatimGeocoder(ts.URL, "test-agent", 5*time.Second, 0, nil)
	point, err := g.Geocode(context.Background(), "Nowhere Specific")

	require.NoError(t, err)
	assert.Nil(t, point)
}

func TestGeocodeServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	g := geo.NewNominatimGeocoder(ts.URL, "test-agent", 5*time.Second, 0, nil)
	_, err := g.Geocode(context.Background(), "Mumbai")
	assert.Error(t, err)
}

func TestGeocodeEmptyLocation(t *testing.T) {
	g := geo.NewNominatimGeocoder("http://unused.invalid", "test-agent", time.Second, 0, nil)
	point, err := g.Geocode(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, point)
}

func TestGeocodeUsesCache(t *testing.T) {
	var hits int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`[{"lat":"28.6139","lon":"77.2090"}]`))
	}))
	defer ts.Close()

	g := geo.NewNominatimGeocoder(ts.URL, "test-agent", 5*time.Second, 0, storage.NewMemoryCache())

	for i := 0; i < 3; i++ {
		point, err := g.Geocode(context.Background(), "Delhi")
		require.NoError(t, err)
		require.NotNil(t, point)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "repeat lookups must be served from cache")
}

func TestGeocodeMinDelayPacing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"1.0","lon":"2.0"}]`))
	}))
	defer ts.Close()

	g := geo.NewNominatimGeocoder(ts.URL, "test-agent", 5*time.Second, 50*time.Millisecond, nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := g.Geocode(context.Background(), "Pune")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond,
		"three requests must be spaced by at least two min-delay intervals")
}
