package planner

import (
	"fmt"
	"strconv"
)

// Placeholder is shown wherever there is nothing to display.
const Placeholder = "—"

// WeatherView is what a front end shows for the weather flow.
type WeatherView struct {
	Status     string
	Meta       string
	Suggestion string
	Tone       Tone
}

// NeutralView is the idle state before any lookup.
func NeutralView() WeatherView {
	return WeatherView{Status: Placeholder, Meta: Placeholder, Suggestion: Placeholder}
}

func loadingView(city string) WeatherView {
	return WeatherView{
		Status:     "Loading weather data...",
		Meta:       city,
		Suggestion: Placeholder,
	}
}

// SnapshotView renders a successful lookup. Without a suggestion the text is
// the placeholder and the tone falls back to ToneOK.
func SnapshotView(s WeatherSnapshot) WeatherView {
	v := WeatherView{
		Status: fmt.Sprintf("%.1f°C, %s", s.TempC, s.Description),
		Meta: fmt.Sprintf("Humidity %s%% · Wind %.1f km/h",
			strconv.FormatFloat(s.HumidityPct, 'f', -1, 64), s.WindKmh),
		Suggestion: Placeholder,
		Tone:       ToneOK,
	}
	if s.Suggestion != nil {
		if s.Suggestion.Text != "" {
			v.Suggestion = s.Suggestion.Text
		}
		v.Tone = s.Suggestion.Tone
	}
	return v
}

// FailureView renders a failed lookup with neutral placeholders.
func FailureView(err error) WeatherView {
	meta := "Unknown error"
	if err != nil && err.Error() != "" {
		meta = err.Error()
	}
	return WeatherView{
		Status:     "Weather data could not be loaded.",
		Meta:       meta,
		Suggestion: Placeholder,
	}
}
