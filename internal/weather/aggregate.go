package weather

import "time"

// AggregateReadings combines multiple provider readings into a single WeatherSnapshot.
// Numeric fields are averaged; condition and description are selected by majority,
// ties going to the reading that appears first.
func AggregateReadings(loc Location, readings []ProviderReading) WeatherSnapshot {
	if len(readings) == 0 {
		return WeatherSnapshot{
			Location:  loc,
			Timestamp: time.Now().UTC(),
			Condition: ConditionUnknown,
		}
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumWind     float64
		sumPressure float64
		newestTS    time.Time
	)

	conditions := make([]Condition, 0, len(readings))
	descriptions := make([]string, 0, len(readings))
	providers := make([]ProviderContribution, 0, len(readings))

	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumHumidity += r.HumidityPct
		sumWind += r.WindSpeedMS
		sumPressure += r.PressureHpa

		conditions = append(conditions, r.Condition)
		if r.Description != "" {
			descriptions = append(descriptions, r.Description)
		}

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}

		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    r.Timestamp,
		})
	}

	n := float64(len(readings))

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	cond := majority(conditions)
	if cond == "" {
		cond = ConditionUnknown
	}

	return WeatherSnapshot{
		Location:    loc,
		Timestamp:   newestTS,
		Temperature: sumTemp / n,
		Humidity:    sumHumidity / n,
		WindSpeed:   sumWind / n,
		Pressure:    sumPressure / n,
		Condition:   cond,
		Description: majority(descriptions),
		Providers:   providers,
	}
}

// majority returns the most frequent value; the earliest one wins a tie.
func majority[T comparable](values []T) T {
	var best T
	bestCount := 0
	counts := make(map[T]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
