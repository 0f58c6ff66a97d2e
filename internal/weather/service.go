package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service orchestrates fetching from multiple providers and caching snapshots.
type Service struct {
	store     Store
	providers []Provider
	maxAge    time.Duration
	logger    *zap.Logger
	group     singleflight.Group
	now       func() time.Time

	// idleAfter stops background refreshes of a city nobody looked up for
	// that long (0 = refresh while cached).
	idleAfter  time.Duration
	mu         sync.Mutex
	lastLookup map[string]time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithRefreshIdle sets how long after its last lookup a city stays tracked.
func WithRefreshIdle(d time.Duration) ServiceOption {
	return func(s *Service) { s.idleAfter = d }
}

// NewService creates a new Service. Cached snapshots younger than maxAge are
// served without contacting providers; maxAge <= 0 disables the cache.
func NewService(store Store, providers []Provider, maxAge time.Duration, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:      store,
		providers:  providers,
		maxAge:     maxAge,
		logger:     logger,
		now:        time.Now,
		lastLookup: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the current weather report for loc. Concurrent lookups for
// the same location share one provider round trip.
func (s *Service) Lookup(ctx context.Context, loc Location) (Report, error) {
	if loc.City == "" {
		return Report{}, ErrCityRequired
	}
	s.touch(loc)

	if snap, err := s.store.GetLatest(loc); err == nil && s.fresh(snap) {
		s.logger.Debug("serving cached weather", zap.String("location", loc.Key()))
		return NewReport(loc.City, snap), nil
	}

	v, err, shared := s.group.Do(loc.Key(), func() (interface{}, error) {
		return s.FetchAndStore(ctx, loc)
	})
	if err != nil {
		return Report{}, err
	}
	if shared {
		s.logger.Debug("weather lookup coalesced", zap.String("location", loc.Key()))
	}

	snap, ok := v.(WeatherSnapshot)
	if !ok {
		return Report{}, fmt.Errorf("unexpected lookup result type %T", v)
	}
	return NewReport(loc.City, snap), nil
}

func (s *Service) fresh(snap WeatherSnapshot) bool {
	return s.maxAge > 0 && s.now().Sub(snap.FetchedAt) < s.maxAge
}

// FetchAndStore fetches data from all providers concurrently for the given location,
// aggregates successful readings, and stores a snapshot. When every provider fails
// the returned error wraps ErrNoReadings and the first provider error, and the
// previous snapshot is kept.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) (WeatherSnapshot, error) {
	if len(s.providers) == 0 {
		s.logger.Error("no providers available", zap.String("location", loc.Key()))
		return WeatherSnapshot{}, ErrNoProviders
	}

	var (
		wg       sync.WaitGroup
		readings = make([]ProviderReading, len(s.providers))
		errs     = make([]error, len(s.providers))
	)

	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()

			r, err := p.Fetch(ctx, loc)
			if err != nil {
				// Log and continue; we want partial success when possible.
				s.logger.Warn("provider fetch failed",
					zap.String("provider", p.Name()),
					zap.String("location", loc.Key()),
					zap.Error(err))
				errs[i] = err
				return
			}
			readings[i] = r
		}(i, p)
	}

	wg.Wait()

	var (
		ok       []ProviderReading
		firstErr error
	)
	for i := range s.providers {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		ok = append(ok, readings[i])
	}

	if len(ok) == 0 {
		return WeatherSnapshot{}, fmt.Errorf("%w: %w", ErrNoReadings, firstErr)
	}

	snapshot := AggregateReadings(loc, ok)
	snapshot.FetchedAt = s.now().UTC()
	s.store.SaveSnapshot(loc, snapshot)
	return snapshot, nil
}

func (s *Service) touch(loc Location) {
	s.mu.Lock()
	s.lastLookup[loc.Key()] = s.now()
	s.mu.Unlock()
}

// TrackedLocations lists the cached locations that users looked up recently
// enough to keep refreshing. Background refreshes do not count as lookups.
func (s *Service) TrackedLocations() []Location {
	cached := s.store.Locations()
	if s.idleAfter <= 0 {
		return cached
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleAfter)
	for key, at := range s.lastLookup {
		if at.Before(cutoff) {
			delete(s.lastLookup, key)
		}
	}

	active := make([]Location, 0, len(cached))
	for _, loc := range cached {
		if _, ok := s.lastLookup[loc.Key()]; ok {
			active = append(active, loc)
		}
	}
	return active
}
