package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCLI(t *testing.T, server string) {
	t.Helper()
	logger = zap.NewNop()
	statePath = filepath.Join(t.TempDir(), "prefs.db")
	serverURL = server
	offline = server == ""
	token = ""
	t.Cleanup(func() {
		statePath, serverURL, offline = "", "", false
	})
}

func newTestCmd(out *bytes.Buffer, in string, flags map[string]string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Float64("pot", 0, "")
	cmd.Flags().Float64("watts", 0, "")
	for k, v := range flags {
		_ = cmd.Flags().Set(k, v)
	}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetContext(context.Background())
	return cmd
}

func TestCalcPersistsLocally(t *testing.T) {
	setupCLI(t, "")

	var out bytes.Buffer
	require.NoError(t, runCalc(newTestCmd(&out, "", map[string]string{"pot": "20"}), nil))
	assert.Contains(t, out.String(), "4.0–5.0 L")
	assert.Contains(t, out.String(), "60.0 L")

	out.Reset()
	require.NoError(t, runShow(newTestCmd(&out, "", nil), nil))
	assert.Contains(t, out.String(), "20 L")
	assert.Contains(t, out.String(), "200 W")
	assert.Contains(t, out.String(), "local only")
}

func TestCalcRejectsInvalidInput(t *testing.T) {
	setupCLI(t, "")

	var out bytes.Buffer
	err := runCalc(newTestCmd(&out, "", map[string]string{"watts": "-5"}), nil)
	require.Error(t, err)
	assert.Equal(t, "watts must be a positive number", err.Error())
	assert.Empty(t, out.String())
}

func TestWeatherOfflineRefused(t *testing.T) {
	setupCLI(t, "")

	var out bytes.Buffer
	assert.ErrorIs(t, runWeather(newTestCmd(&out, "", nil), []string{"Berlin"}), errOffline)
}

func TestWeatherPromptsForCity(t *testing.T) {
	var cities []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isAuthenticated":false}`))
	})
	mux.HandleFunc("/api/weather/", func(w http.ResponseWriter, r *http.Request) {
		cities = append(cities, r.URL.Query().Get("city"))
		_, _ = w.Write([]byte(`{"city":"Oslo","temp":4.2,"description":"light rain","humidity":81,"wind_kmh":12.5,` +
			`"suggestion":{"text":"Keep the tent closed.","tone":"warn"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	setupCLI(t, srv.URL)

	var out bytes.Buffer
	require.NoError(t, runWeather(newTestCmd(&out, "Oslo\n", nil), nil))
	assert.Equal(t, []string{"Oslo"}, cities)
	assert.Contains(t, out.String(), "City: ")
	assert.Contains(t, out.String(), "4.2°C, light rain")
	assert.Contains(t, out.String(), "Keep the tent closed.")

	// The city is remembered for the next run.
	offline = true
	out.Reset()
	require.NoError(t, runShow(newTestCmd(&out, "", nil), nil))
	assert.Contains(t, out.String(), "Oslo")
}

func TestWeatherFailureIsReported(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/weather/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found","detail":"city not found"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	setupCLI(t, srv.URL)

	var out bytes.Buffer
	err := runWeather(newTestCmd(&out, "", nil), []string{"Atlantis"})
	require.Error(t, err)
	assert.Contains(t, out.String(), "Weather data could not be loaded.")
	assert.Contains(t, out.String(), "city not found")
}
