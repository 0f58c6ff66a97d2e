package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig configures growplanner-server.
type ServerConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	WeatherLang       string

	// JWTSecret verifies session tokens; without it every request is anonymous.
	JWTSecret string

	// DatabasePath is the SQLite file holding server profiles.
	DatabasePath string

	HTTPTimeout time.Duration

	// CacheMaxAge is how long a weather snapshot is served without refetching.
	CacheMaxAge time.Duration

	// RefreshInterval controls how often cached cities are refreshed. It should
	// stay below CacheMaxAge so refreshed snapshots are still fresh when served.
	RefreshInterval time.Duration

	// RefreshIdleAfter stops refreshing a city this long after its last lookup.
	RefreshIdleAfter time.Duration

	// StoreMaxLocations caps the number of cached cities (0 = unlimited).
	StoreMaxLocations int

	Port    string
	Verbose bool
}

// ClientConfig configures the growplanner CLI.
type ClientConfig struct {
	ServerURL string
	Token     string
	StatePath string
	Timeout   time.Duration
}

// loadDotenv reads .env into the environment if present; real env wins.
func loadDotenv() {
	_ = godotenv.Load()
}

// LoadServer reads configuration from environment with sensible defaults.
func LoadServer() (*ServerConfig, error) {
	loadDotenv()
	cfg := &ServerConfig{
		OpenWeatherAPIKey: os.Getenv(OpenWeatherKeyVar),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		WeatherLang:       getenvDefault("WEATHER_LANG", "en"),
		JWTSecret:         os.Getenv("GROWPLANNER_JWT_SECRET"),
		DatabasePath:      getenvDefault("GROWPLANNER_DB", "growplanner.db"),
		StoreMaxLocations: getenvInt("STORE_MAX_LOCATIONS", 256),
		Port:              getenvDefault("PORT", "8080"),
		Verbose:           getenvBool("LOG_VERBOSE", false),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = getenvDuration("WEATHER_CACHE_MAX_AGE", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshIdleAfter, err = getenvDuration("REFRESH_IDLE_AFTER", time.Hour); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient reads the CLI configuration. Flags may override it afterwards.
func LoadClient() (*ClientConfig, error) {
	loadDotenv()
	cfg := &ClientConfig{
		ServerURL: getenvDefault("GROWPLANNER_URL", "http://127.0.0.1:8080"),
		Token:     os.Getenv("GROWPLANNER_TOKEN"),
		StatePath: os.Getenv("GROWPLANNER_STATE"),
	}
	if cfg.StatePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		cfg.StatePath = filepath.Join(dir, "growplanner", "preferences.db")
	}

	var err error
	if cfg.Timeout, err = getenvDuration("GROWPLANNER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
