package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/i474232898/grow-planner/internal/weather"
)

type fakeRefresher struct {
	mu        sync.Mutex
	locations []weather.Location
	fail      map[string]bool
	fetched   []string
}

func (f *fakeRefresher) TrackedLocations() []weather.Location { return f.locations }

func (f *fakeRefresher) FetchAndStore(_ context.Context, loc weather.Location) (weather.WeatherSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, loc.Key())
	if f.fail[loc.Key()] {
		return weather.WeatherSnapshot{}, errors.New("upstream down")
	}
	return weather.WeatherSnapshot{Location: loc}, nil
}

func TestRunOnceRefreshesTrackedLocations(t *testing.T) {
	f := &fakeRefresher{
		locations: []weather.Location{weather.NewLocation("Berlin"), weather.NewLocation("Oslo")},
		fail:      map[string]bool{"oslo:": true},
	}
	s := New(f, time.Minute, zaptest.NewLogger(t))

	ok := s.RunOnce(context.Background())
	assert.Equal(t, 1, ok)
	assert.ElementsMatch(t, []string{"berlin:", "oslo:"}, f.fetched)
}

func TestRunOnceNothingTracked(t *testing.T) {
	s := New(&fakeRefresher{}, time.Minute, nil)
	assert.Equal(t, 0, s.RunOnce(context.Background()))
}

func TestStartDisabled(t *testing.T) {
	s := New(&fakeRefresher{}, 0, nil)
	require.NoError(t, s.Start())
	s.Stop()
}
