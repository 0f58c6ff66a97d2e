package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/grow-planner/internal/weather"
)

const jobTimeout = 30 * time.Second

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	TrackedLocations() []weather.Location
	FetchAndStore(ctx context.Context, loc weather.Location) (weather.WeatherSnapshot, error)
}

// Scheduler periodically refreshes every city already held in the weather cache,
// so repeat lookups keep hitting fresh snapshots.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(service Refresher, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		logger:    logger.Named("scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A non-positive interval disables refreshing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes all tracked locations concurrently and returns how many succeeded.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	locations := s.service.TrackedLocations()
	if len(locations) == 0 {
		s.logger.Debug("no cached cities to refresh")
		return 0
	}
	s.logger.Debug("refreshing cached cities", zap.Int("count", len(locations)))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, loc := range locations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.service.FetchAndStore(ctx, loc); err != nil {
				s.logger.Warn("refresh failed", zap.String("city", loc.Key()), zap.Error(err))
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.logger.Debug("refresh completed", zap.Int("ok", ok), zap.Int("total", len(locations)))
	return ok
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
