package weather

import (
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is a free-text city, optionally narrowed by a country code.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// NewLocation trims the user supplied city name.
func NewLocation(city string) Location {
	return Location{City: strings.TrimSpace(city)}
}

// Key returns a canonical, case-insensitive key for caching this location.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.City)) + ":" + strings.ToLower(strings.TrimSpace(l.Country))
}

// Query renders the location as the "city,country" query most providers accept.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// WeatherSnapshot is the normalized, aggregated weather view at a point in time.
type WeatherSnapshot struct {
	Location    Location  `json:"location"`
	Timestamp   time.Time `json:"timestamp"` // newest provider observation, UTC
	FetchedAt   time.Time `json:"fetchedAt"` // when the snapshot was built, UTC
	Temperature float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
	WindSpeed   float64   `json:"windSpeedMs"`
	Pressure    float64   `json:"pressureHpa"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`

	// Providers contributing to this snapshot.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// WindKmh converts the aggregated wind speed to km/h.
func (s WeatherSnapshot) WindKmh() float64 {
	return s.WindSpeed * 3.6
}

// ProviderContribution describes data coming from a single provider used in aggregation.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}

// Report is the payload served to planner clients.
type Report struct {
	City        string     `json:"city"`
	Temp        float64    `json:"temp"`
	Description string     `json:"description"`
	Humidity    float64    `json:"humidity"`
	WindKmh     float64    `json:"wind_kmh"`
	PressureHpa float64    `json:"pressure_hpa"`
	Condition   Condition  `json:"condition"`
	Suggestion  Suggestion `json:"suggestion"`
	ObservedAt  time.Time  `json:"observed_at"`
	Providers   []string   `json:"providers,omitempty"`
}

// NewReport derives the client payload, including the advisory, from a snapshot.
func NewReport(city string, snap WeatherSnapshot) Report {
	wind := snap.WindKmh()
	providers := make([]string, 0, len(snap.Providers))
	for _, p := range snap.Providers {
		providers = append(providers, p.ProviderName)
	}
	return Report{
		City:        city,
		Temp:        snap.Temperature,
		Description: snap.Description,
		Humidity:    snap.Humidity,
		WindKmh:     wind,
		PressureHpa: snap.Pressure,
		Condition:   snap.Condition,
		Suggestion:  Suggest(snap.Temperature, snap.Humidity, wind, snap.Condition, snap.Description),
		ObservedAt:  snap.Timestamp,
		Providers:   providers,
	}
}
