package grow

// Default values used when neither the server profile nor local preferences
// provide a field.
const (
	DefaultPotLiters = 40
	DefaultWattage   = 200
)

// GrowProfile is the user's current configuration.
type GrowProfile struct {
	PotLiters float64 `json:"pot"`
	Wattage   float64 `json:"watts"`
	City      string  `json:"city"`
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() GrowProfile {
	return GrowProfile{
		PotLiters: DefaultPotLiters,
		Wattage:   DefaultWattage,
	}
}

// WateringRecommendation holds per-watering and flush volumes in liters.
type WateringRecommendation struct {
	MinLiters   float64 `json:"minLiters"`
	MaxLiters   float64 `json:"maxLiters"`
	FlushLiters float64 `json:"flushLiters"`
}

// FeedInterval is the recommended number of days between feedings.
type FeedInterval struct {
	LowDays  int `json:"lowDays"`
	HighDays int `json:"highDays"`
}

// Nutrient is one entry of the static dose table.
type Nutrient struct {
	Key          string
	DosePerLiter float64 // ml per liter of water
}

// NutrientDose is the dose range of a single nutrient for one watering.
type NutrientDose struct {
	Key   string  `json:"key"`
	MinMl float64 `json:"minMl"`
	MaxMl float64 `json:"maxMl"`
}

// Recommendation bundles everything derived from pot size and lamp wattage.
type Recommendation struct {
	Watering  WateringRecommendation `json:"watering"`
	Interval  FeedInterval           `json:"interval"`
	Nutrients []NutrientDose         `json:"nutrients"`
}

var nutrientTable = [...]Nutrient{
	{Key: "grow", DosePerLiter: 2},
	{Key: "calmag", DosePerLiter: 1},
	{Key: "topmax", DosePerLiter: 1},
	{Key: "biobloom", DosePerLiter: 2},
}

// Nutrients returns a copy of the dose table in display order.
func Nutrients() []Nutrient {
	out := make([]Nutrient, len(nutrientTable))
	copy(out, nutrientTable[:])
	return out
}
