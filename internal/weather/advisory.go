package weather

import "github.com/i474232898/grow-planner/internal/common"

// Tone classifies a suggestion for display.
type Tone string

const (
	ToneOK   Tone = "ok"
	ToneWarn Tone = "warn"
	ToneInfo Tone = "info"
)

// Suggestion is a short piece of gardening advice derived from the weather.
type Suggestion struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone,omitempty"`
}

const (
	stormWindKmh    = 30
	wetHumidityPct  = 85
	calmWindKmh     = 15
	coolTempC       = 10
	hotTempC        = 30
	mildTempMinC    = 15
	mildTempMaxC    = 26
	mildHumidityMin = 45
	mildHumidityMax = 75
)

// Suggest maps current conditions to advice. Rules are evaluated in order and
// the first match wins. Wet weather is recognized from the normalized condition
// or, for providers that could not classify it, from the description text.
func Suggest(tempC, humidityPct, windKmh float64, cond Condition, description string) Suggestion {
	rainy := cond == ConditionRain || cond == ConditionStorm ||
		common.HasAnyFold(description, "rain", "regen")

	switch {
	case rainy || humidityPct >= wetHumidityPct:
		return Suggestion{Text: "No repotting today, too wet or rainy.", Tone: ToneWarn}
	case windKmh > stormWindKmh:
		return Suggestion{Text: "Strong wind, better stay indoors.", Tone: ToneWarn}
	case tempC >= mildTempMinC && tempC <= mildTempMaxC &&
		humidityPct >= mildHumidityMin && humidityPct <= mildHumidityMax &&
		windKmh <= calmWindKmh:
		return Suggestion{Text: "Good weather for repotting or planting out.", Tone: ToneOK}
	case tempC < coolTempC:
		return Suggestion{Text: "Cool, better wait or work indoors.", Tone: ToneInfo}
	case tempC > hotTempC:
		return Suggestion{Text: "Very warm, only water or work in the morning or evening.", Tone: ToneInfo}
	default:
		return Suggestion{Text: "Neutral, decide by feel.", Tone: ToneInfo}
	}
}
