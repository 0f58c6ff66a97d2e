package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/grow-planner/internal/grow"
	"github.com/i474232898/grow-planner/internal/weather"
)

func TestMemoryStoreLatestAndExpiry(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	loc := weather.NewLocation("Berlin")
	_, err := s.GetLatest(loc)
	assert.ErrorIs(t, err, ErrNotFound)

	s.SaveSnapshot(loc, weather.WeatherSnapshot{Temperature: 10})
	s.SaveSnapshot(loc, weather.WeatherSnapshot{Temperature: 12})

	snap, err := s.GetLatest(weather.NewLocation("BERLIN"))
	require.NoError(t, err)
	assert.Equal(t, 12.0, snap.Temperature)

	now = now.Add(2 * time.Hour)
	_, err = s.GetLatest(loc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreEvictsOldestLocation(t *testing.T) {
	s := NewMemoryStore(2, 0)
	base := time.Now()

	s.SaveSnapshot(weather.NewLocation("A"), weather.WeatherSnapshot{FetchedAt: base})
	s.SaveSnapshot(weather.NewLocation("B"), weather.WeatherSnapshot{FetchedAt: base.Add(time.Second)})
	s.SaveSnapshot(weather.NewLocation("C"), weather.WeatherSnapshot{FetchedAt: base.Add(2 * time.Second)})

	locs := s.Locations()
	require.Len(t, locs, 2)
	assert.Equal(t, "B", locs[0].City)
	assert.Equal(t, "C", locs[1].City)
}

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "prefs.db")

	s, err := NewKVStore(ctx, path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "pot")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "pot", "30"))
	require.NoError(t, s.Set(ctx, "pot", "35"))
	require.NoError(t, s.Set(ctx, "city", "Graz"))
	require.NoError(t, s.Close())

	reopened, err := NewKVStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "pot")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "35", v)

	require.NoError(t, reopened.Delete(ctx, "pot", "city", "missing"))
	_, ok, err = reopened.Get(ctx, "city")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewProfileStore(ctx, filepath.Join(t.TempDir(), "profiles.db"))
	require.NoError(t, err)
	defer s.Close()

	p, err := s.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, grow.DefaultProfile(), p)

	want := grow.GrowProfile{PotLiters: 55, Wattage: 480, City: "Linz"}
	require.NoError(t, s.Save(ctx, "alice", want))

	got, err := s.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := s.GetOrCreate(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, grow.DefaultProfile(), other)
}
