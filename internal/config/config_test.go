package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEATHER_CACHE_MAX_AGE", "")
	t.Setenv("PORT", "")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.CacheMaxAge)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.RefreshInterval < cfg.CacheMaxAge)
	assert.Equal(t, time.Hour, cfg.RefreshIdleAfter)
}

func TestLoadServerOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(OpenWeatherKeyVar, "abc")
	t.Setenv("STORE_MAX_LOCATIONS", "3")
	t.Setenv("REFRESH_INTERVAL", "1m")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.OpenWeatherAPIKey)
	assert.Equal(t, 3, cfg.StoreMaxLocations)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)

	t.Setenv("HTTP_TIMEOUT", "soon")
	_, err = LoadServer()
	assert.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GROWPLANNER_URL", "http://planner.local")
	t.Setenv("GROWPLANNER_STATE", "/tmp/prefs.db")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://planner.local", cfg.ServerURL)
	assert.Equal(t, "/tmp/prefs.db", cfg.StatePath)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestGenerateRuntimeConfig(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	outPath := filepath.Join(dir, "static", "env.json")

	err := GenerateRuntimeConfig(envPath, outPath)
	assert.ErrorIs(t, err, ErrEnvFileMissing)

	require.NoError(t, os.WriteFile(envPath, []byte("OTHER=1\n"), 0o600))
	err = GenerateRuntimeConfig(envPath, outPath)
	assert.ErrorIs(t, err, ErrKeyMissing)
	assert.NoFileExists(t, outPath)

	require.NoError(t, os.WriteFile(envPath, []byte("OPENWEATHER_KEY = k-123 \n"), 0o600))
	require.NoError(t, GenerateRuntimeConfig(envPath, outPath))

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rc RuntimeConfig
	require.NoError(t, json.Unmarshal(raw, &rc))
	assert.Equal(t, "k-123", rc.OpenWeatherKey)
}
