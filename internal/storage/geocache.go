package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jobmatch-engine/backend/internal/geo"
)

// FileCache persists geocoding results as one JSON file per location name,
// so repeated requests never hit the geocoding service twice across restarts.
type FileCache struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileCache creates a file-based geocode cache
func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileCache{
		baseDir: baseDir,
	}, nil
}

// Get retrieves a cached point; a missing or unreadable file is a miss.
func (fc *FileCache) Get(location string) (*geo.Point, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	path := filepath.Join(fc.baseDir, safeFilename(location))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var point geo.Point
	if err := json.Unmarshal(data, &point); err != nil {
		return nil, false
	}
	return &point, true
}

// Put writes the point to disk
func (fc *FileCache) Put(location string, p geo.Point) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal point: %w", err)
	}

	path := filepath.Join(fc.baseDir, safeFilename(location))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// MemoryCache is an in-process geocode cache for tests and one-shot CLI runs.
type MemoryCache struct {
	mu     sync.RWMutex
	points map[string]geo.Point
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{points: make(map[string]geo.Point)}
}

func (mc *MemoryCache) Get(location string) (*geo.Point, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	p, ok := mc.points[location]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (mc *MemoryCache) Put(location string, p geo.Point) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.points[location] = p
	return nil
}

// safeFilename converts a location name to a safe filename
func safeFilename(location string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(location) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	safe := b.String()
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe + ".json"
}
