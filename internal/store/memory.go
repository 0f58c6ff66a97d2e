package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/grow-planner/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

type cacheEntry struct {
	loc      weather.Location
	snapshot weather.WeatherSnapshot
}

// MemoryStore is a concurrency-safe in-memory cache holding the latest
// weather snapshot per location.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]cacheEntry

	// retention configuration
	maxLocations int           // max number of cached locations (0 = unlimited)
	maxAge       time.Duration // snapshots older than this are dropped (0 = unlimited)

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
func NewMemoryStore(maxLocations int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:         make(map[string]cacheEntry),
		maxLocations: maxLocations,
		maxAge:       maxAge,
		now:          time.Now,
	}
}

// SaveSnapshot replaces the snapshot for a location and enforces retention.
func (s *MemoryStore) SaveSnapshot(loc weather.Location, snapshot weather.WeatherSnapshot) {
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[loc.Key()] = cacheEntry{loc: loc, snapshot: snapshot}
	s.pruneLocked()
}

func (s *MemoryStore) pruneLocked() {
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		for key, e := range s.data {
			if e.snapshot.FetchedAt.Before(cutoff) {
				delete(s.data, key)
			}
		}
	}

	// Evict the least recently fetched locations.
	for s.maxLocations > 0 && len(s.data) > s.maxLocations {
		var (
			oldestKey string
			oldest    time.Time
		)
		for key, e := range s.data {
			if oldestKey == "" || e.snapshot.FetchedAt.Before(oldest) {
				oldestKey, oldest = key, e.snapshot.FetchedAt
			}
		}
		delete(s.data, oldestKey)
	}
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[loc.Key()]
	if !ok {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	if s.maxAge > 0 && e.snapshot.FetchedAt.Before(s.now().Add(-s.maxAge)) {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return e.snapshot, nil
}

// Locations lists cached locations ordered by key.
func (s *MemoryStore) Locations() []weather.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	locs := make([]weather.Location, 0, len(keys))
	for _, key := range keys {
		locs = append(locs, s.data[key].loc)
	}
	return locs
}
