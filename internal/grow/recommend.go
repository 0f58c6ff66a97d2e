// Package grow derives watering volumes, feeding intervals and nutrient doses
// from pot size and lamp wattage. Every function in it is pure.
package grow

import "math"

const (
	minWaterFraction = 0.20
	maxWaterFraction = 0.25
	flushMultiple    = 3
)

// Validate checks that pot and watts are finite and strictly positive.
func Validate(potLiters, wattage float64) error {
	if !isPositive(potLiters) {
		return &ValidationError{Field: "pot", Value: potLiters}
	}
	if !isPositive(wattage) {
		return &ValidationError{Field: "watts", Value: wattage}
	}
	return nil
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// CalculateWatering returns fixed fractions of the container volume.
func CalculateWatering(potLiters float64) WateringRecommendation {
	return WateringRecommendation{
		MinLiters:   potLiters * minWaterFraction,
		MaxLiters:   potLiters * maxWaterFraction,
		FlushLiters: potLiters * flushMultiple,
	}
}

// CalculateInterval maps lamp wattage to a feeding interval. Thresholds are
// checked in ascending order and the last matching tier wins.
func CalculateInterval(wattage float64) FeedInterval {
	iv := FeedInterval{LowDays: 4, HighDays: 6}
	if wattage >= 300 {
		iv = FeedInterval{LowDays: 3, HighDays: 5}
	}
	if wattage >= 600 {
		iv = FeedInterval{LowDays: 2, HighDays: 4}
	}
	return iv
}

// CalculateDoses scales the watering range by each nutrient's dose rate.
func CalculateDoses(w WateringRecommendation) []NutrientDose {
	doses := make([]NutrientDose, 0, len(nutrientTable))
	for _, n := range nutrientTable {
		doses = append(doses, NutrientDose{
			Key:   n.Key,
			MinMl: w.MinLiters * n.DosePerLiter,
			MaxMl: w.MaxLiters * n.DosePerLiter,
		})
	}
	return doses
}

// Recommend validates the inputs and computes the full recommendation.
func Recommend(potLiters, wattage float64) (Recommendation, error) {
	if err := Validate(potLiters, wattage); err != nil {
		return Recommendation{}, err
	}

	watering := CalculateWatering(potLiters)
	return Recommendation{
		Watering:  watering,
		Interval:  CalculateInterval(wattage),
		Nutrients: CalculateDoses(watering),
	}, nil
}
