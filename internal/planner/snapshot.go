package planner

import (
	"encoding/json"
	"fmt"
)

// Tone of a weather suggestion as the client displays it.
type Tone string

const (
	ToneNone Tone = ""
	ToneOK   Tone = "ok"
	ToneWarn Tone = "warn"
)

// Suggestion is optional advice attached to a weather snapshot.
type Suggestion struct {
	Text string
	Tone Tone
}

// WeatherSnapshot is the weather data the planner consumes.
type WeatherSnapshot struct {
	City        string
	TempC       float64
	Description string
	HumidityPct float64
	WindKmh     float64
	Suggestion  *Suggestion
}

type snapshotWire struct {
	City        string   `json:"city"`
	Temp        *float64 `json:"temp"`
	Description *string  `json:"description"`
	Humidity    *float64 `json:"humidity"`
	WindKmh     *float64 `json:"wind_kmh"`
	Suggestion  *struct {
		Text string `json:"text"`
		Tone string `json:"tone"`
	} `json:"suggestion"`
}

// decodeSnapshot validates a success body. Required fields must be present;
// the suggestion and its tone are optional, and tones other than ok and warn
// are shown without emphasis.
func decodeSnapshot(body []byte) (WeatherSnapshot, error) {
	var w snapshotWire
	if err := json.Unmarshal(body, &w); err != nil {
		return WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case w.Temp == nil:
		return WeatherSnapshot{}, fmt.Errorf("%w: missing temp", ErrMalformedResponse)
	case w.Description == nil:
		return WeatherSnapshot{}, fmt.Errorf("%w: missing description", ErrMalformedResponse)
	case w.Humidity == nil:
		return WeatherSnapshot{}, fmt.Errorf("%w: missing humidity", ErrMalformedResponse)
	case w.WindKmh == nil:
		return WeatherSnapshot{}, fmt.Errorf("%w: missing wind_kmh", ErrMalformedResponse)
	}

	snap := WeatherSnapshot{
		City:        w.City,
		TempC:       *w.Temp,
		Description: *w.Description,
		HumidityPct: *w.Humidity,
		WindKmh:     *w.WindKmh,
	}
	if w.Suggestion != nil {
		s := &Suggestion{Text: w.Suggestion.Text}
		switch Tone(w.Suggestion.Tone) {
		case ToneOK, ToneWarn:
			s.Tone = Tone(w.Suggestion.Tone)
		}
		snap.Suggestion = s
	}
	return snap, nil
}
