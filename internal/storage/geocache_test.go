package storage_test

import (
	"testing"

	"github.com/jobmatch-engine/backend/internal/geo"
	"github.com/jobmatch-engine/backend/internal/storage"
)

func TestFileCacheRoundTrip(t *testing.T) {
	cache, err := storage.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}

	if _, ok := cache.Get("Mumbai, India"); ok {
		t.Error("Expected miss for unseen location")
	}

	want := geo.Point{Lat: 19.076, Lon: 72.8777}
	if err := cache.Put("Mumbai, India", want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := cache.Get("Mumbai, India")
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if got.Lat != want.Lat || got.Lon != want.Lon {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestFileCacheDistinguishesLocations(t *testing.T) {
	cache, err := storage.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}

	cache.Put("Delhi", geo.Point{Lat: 28.6139, Lon: 77.209})
	cache.Put("Pune", geo.Point{Lat: 18.5204, Lon: 73.8567})

	delhi, ok := cache.Get("Delhi")
	if !ok || delhi.Lat != 28.6139 {
		t.Errorf("Unexpected Delhi entry: %+v", delhi)
	}
	pune, ok := cache.Get("Pune")
	if !ok || pune.Lat != 18.5204 {
		t.Errorf("Unexpected Pune entry: %+v", pune)
	}
}

func TestMemoryCache(t *testing.T) {
	cache := storage.NewMemoryCache()

	if _, ok := cache.Get("x"); ok {
		t.Error("Expected miss on empty cache")
	}
	cache.Put("x", geo.Point{Lat: 1, Lon: 2})
	p, ok := cache.Get("x")
	if !ok || p.Lat != 1 || p.Lon != 2 {
		t.Errorf("Unexpected entry: %+v", p)
	}
}
