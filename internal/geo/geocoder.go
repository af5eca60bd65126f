package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder resolves a free-text location name to coordinates.
// Implementations return (nil, nil) when the location is unknown.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*Point, error)
	Name() string
}

// Cache stores resolved coordinates keyed by location name.
type Cache interface {
	Get(location string) (*Point, bool)
	Put(location string, p Point) error
}

// NominatimGeocoder queries the OpenStreetMap Nominatim search API.
// Outbound requests are paced by MinDelay and answered from the cache
// when possible.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	MinDelay  time.Duration
	Cache     Cache

	client *http.Client

	mu              sync.Mutex
	lastRequestTime time.Time
}

func NewNominatimGeocoder(baseURL, userAgent string, timeout, minDelay time.Duration, cache Cache) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org/search"
	}
	return &NominatimGeocoder{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		MinDelay:  minDelay,
		Cache:     cache,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *NominatimGeocoder) Name() string {
	return "nominatim"
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, location string) (*Point, error) {
	if location == "" {
		return nil, nil
	}
	if g.Cache != nil {
		if p, ok := g.Cache.Get(location); ok {
			return p, nil
		}
	}

	g.waitForSlot()

	endpoint := fmt.Sprintf("%s?q=%s&format=json&limit=1", g.BaseURL, url.QueryEscape(location))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status: %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	point := Point{Lat: lat, Lon: lon}
	if g.Cache != nil {
		// cache writes are best effort; a failed write must not fail the lookup
		_ = g.Cache.Put(location, point)
	}
	return &point, nil
}

// waitForSlot enforces the minimum delay between outbound requests.
func (g *NominatimGeocoder) waitForSlot() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastRequestTime.IsZero() {
		elapsed := time.Since(g.lastRequestTime)
		if elapsed < g.MinDelay {
			time.Sleep(g.MinDelay - elapsed)
		}
	}
	g.lastRequestTime = time.Now()
}
