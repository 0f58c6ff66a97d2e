package planner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/grow-planner/internal/grow"
)

// Remote receives profile updates.
type Remote interface {
	PushPreferences(ctx context.Context, profile grow.GrowProfile) error
}

// DefaultSyncTimeout bounds a single remote write.
const DefaultSyncTimeout = 10 * time.Second

// SyncPolicy propagates local preference changes to the server profile of an
// authenticated session. Writes are best effort: failures are logged and never
// reach the caller. Each write carries a generation; writes run one at a time
// and a write that a newer one has superseded is skipped, so the newest
// profile is the last one sent.
type SyncPolicy struct {
	remote        Remote
	authenticated bool
	timeout       time.Duration
	logger        *zap.Logger

	mu     sync.Mutex // serializes remote writes
	latest atomic.Uint64
	wg     sync.WaitGroup
}

func NewSyncPolicy(remote Remote, session SessionContext, logger *zap.Logger) *SyncPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncPolicy{
		remote:        remote,
		authenticated: session.Authenticated,
		timeout:       DefaultSyncTimeout,
		logger:        logger,
	}
}

// Enabled reports whether changes are pushed at all.
func (s *SyncPolicy) Enabled() bool {
	return s.authenticated && s.remote != nil
}

// Schedule starts a background write of profile and returns its generation,
// or 0 when syncing is disabled. The write ignores cancellation of ctx.
func (s *SyncPolicy) Schedule(ctx context.Context, profile grow.GrowProfile) uint64 {
	if !s.Enabled() {
		return 0
	}

	gen := s.latest.Add(1)
	detached := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.push(detached, gen, profile)
	}()
	return gen
}

// push performs at most one remote write and reports whether it succeeded.
func (s *SyncPolicy) push(ctx context.Context, gen uint64, profile grow.GrowProfile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if latest := s.latest.Load(); gen < latest {
		s.logger.Debug("skipping superseded preference sync",
			zap.Uint64("generation", gen), zap.Uint64("latest", latest))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.remote.PushPreferences(ctx, profile); err != nil {
		s.logger.Warn("preference sync failed",
			zap.Uint64("generation", gen), zap.Error(err))
		return false
	}

	s.logger.Debug("preferences synced",
		zap.Uint64("generation", gen),
		zap.Float64("pot", profile.PotLiters),
		zap.Float64("watts", profile.Wattage),
		zap.String("city", profile.City))
	return true
}

// Wait blocks until every scheduled write has finished.
func (s *SyncPolicy) Wait() {
	s.wg.Wait()
}
