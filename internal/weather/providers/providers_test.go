package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/grow-planner/internal/weather"
)

var fastBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func TestOpenWeatherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Berlin,DE", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "de", r.URL.Query().Get("lang"))
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"dt": 1700000000,
			"main": {"temp": 18.5, "humidity": 60, "pressure": 1012},
			"wind": {"speed": 2.5},
			"weather": [{"main": "Clouds", "description": "Bedeckt"}]
		}`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "secret", WithBaseURL(srv.URL), WithLanguage("de"))
	r, err := p.Fetch(context.Background(), weather.Location{City: "Berlin", Country: "DE"})
	require.NoError(t, err)

	assert.Equal(t, "openweathermap", r.ProviderName)
	assert.Equal(t, 18.5, r.TemperatureC)
	assert.Equal(t, 60.0, r.HumidityPct)
	assert.Equal(t, 2.5, r.WindSpeedMS)
	assert.Equal(t, weather.ConditionCloudy, r.Condition)
	assert.Equal(t, "Bedeckt", r.Description)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), r.Timestamp)
}

func TestOpenWeatherNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "secret", WithBaseURL(srv.URL), WithBackoff(fastBackoff))
	_, err := p.Fetch(context.Background(), weather.NewLocation("Atlantis"))
	require.Error(t, err)

	var up *weather.UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, http.StatusNotFound, up.StatusCode)
	assert.Equal(t, "404 Not Found", up.Status())
	assert.Contains(t, up.Body, "city not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"current": {"temp_c": 21, "humidity": 50, "wind_kph": 36, "condition": {"text": "Partly cloudy"}}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "key", WithBaseURL(srv.URL), WithBackoff(fastBackoff))
	r, err := p.Fetch(context.Background(), weather.NewLocation("Vienna"))
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 21.0, r.TemperatureC)
	assert.InDelta(t, 10.0, r.WindSpeedMS, 1e-9)
	assert.Equal(t, weather.ConditionCloudy, r.Condition)
	assert.Equal(t, "Partly cloudy", r.Description)
}

func TestMissingAPIKey(t *testing.T) {
	_, err := NewOpenWeatherProvider(http.DefaultClient, "").Fetch(context.Background(), weather.NewLocation("Rome"))
	assert.Error(t, err)

	_, err = NewWeatherAPIProvider(http.DefaultClient, "").Fetch(context.Background(), weather.NewLocation("Rome"))
	assert.Error(t, err)
}

func TestMapWeatherAPICondition(t *testing.T) {
	assert.Equal(t, weather.ConditionStorm, mapWeatherAPICondition(0, "Thundery outbreaks possible"))
	assert.Equal(t, weather.ConditionRain, mapWeatherAPICondition(0, "Light rain shower"))
	assert.Equal(t, weather.ConditionSnow, mapWeatherAPICondition(0, "Blizzard"))
	assert.Equal(t, weather.ConditionMist, mapWeatherAPICondition(0, "Freezing fog"))
	assert.Equal(t, weather.ConditionClear, mapWeatherAPICondition(0, "Sunny"))
	assert.Equal(t, weather.ConditionUnknown, mapWeatherAPICondition(0, ""))

	// codes win over localized text
	assert.Equal(t, weather.ConditionRain, mapWeatherAPICondition(1189, "Pluie modérée"))
	assert.Equal(t, weather.ConditionStorm, mapWeatherAPICondition(1276, "Gewitter"))
}
