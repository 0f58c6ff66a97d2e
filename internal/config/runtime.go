package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// OpenWeatherKeyVar names the weather provider key in .env and the environment.
const OpenWeatherKeyVar = "OPENWEATHER_KEY"

var (
	ErrEnvFileMissing = errors.New("no .env found, create one from .env.example")
	ErrKeyMissing     = errors.New(OpenWeatherKeyVar + " not found in .env")
)

// RuntimeConfig is the asset handed to front ends at build time.
type RuntimeConfig struct {
	OpenWeatherKey string `json:"OPENWEATHER_KEY"`
}

// GenerateRuntimeConfig reads envPath and writes the runtime config asset to
// outPath. It fails before writing anything if the file or key is missing.
func GenerateRuntimeConfig(envPath, outPath string) error {
	if _, err := os.Stat(envPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrEnvFileMissing, envPath)
		}
		return err
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return fmt.Errorf("parse %s: %w", envPath, err)
	}
	key := strings.TrimSpace(values[OpenWeatherKeyVar])
	if key == "" {
		return ErrKeyMissing
	}

	data, err := json.MarshalIndent(RuntimeConfig{OpenWeatherKey: key}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, append(data, '\n'), 0o644)
}
