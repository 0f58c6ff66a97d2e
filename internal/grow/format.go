package grow

import (
	"fmt"
	"strconv"
)

// rangeSep separates the bounds of a displayed range.
const rangeSep = "–"

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatRange renders "min–max unit" with one decimal place.
func FormatRange(min, max float64, unit string) string {
	return oneDecimal(min) + rangeSep + oneDecimal(max) + " " + unit
}

// RangeLabel renders the per-watering volume, e.g. "8.0–10.0 L".
func (w WateringRecommendation) RangeLabel() string {
	return FormatRange(w.MinLiters, w.MaxLiters, "L")
}

// FlushLabel renders the flush volume, e.g. "120.0 L".
func (w WateringRecommendation) FlushLabel() string {
	return oneDecimal(w.FlushLiters) + " L"
}

func (f FeedInterval) Label() string {
	return fmt.Sprintf("%d%s%d days", f.LowDays, rangeSep, f.HighDays)
}

func (d NutrientDose) Label() string {
	return FormatRange(d.MinMl, d.MaxMl, "ml")
}
