package grow

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateWateringFractions(t *testing.T) {
	for _, pot := range []float64{0.5, 1, 11, 40, 73.3, 250} {
		w := CalculateWatering(pot)
		assert.InDelta(t, 0.2*pot, w.MinLiters, 1e-9)
		assert.InDelta(t, 0.25*pot, w.MaxLiters, 1e-9)
		assert.InDelta(t, 3*pot, w.FlushLiters, 1e-9)
		assert.Less(t, w.MinLiters, w.MaxLiters)
		assert.Less(t, w.MaxLiters, w.FlushLiters)
	}
}

func TestCalculateIntervalThresholds(t *testing.T) {
	tests := []struct {
		watts float64
		want  FeedInterval
	}{
		{1, FeedInterval{4, 6}},
		{299, FeedInterval{4, 6}},
		{299.99, FeedInterval{4, 6}},
		{300, FeedInterval{3, 5}},
		{599, FeedInterval{3, 5}},
		{600, FeedInterval{2, 4}},
		{10000, FeedInterval{2, 4}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateInterval(tt.watts), "watts=%v", tt.watts)
	}
}

func TestCalculateIntervalNonIncreasing(t *testing.T) {
	prev := CalculateInterval(1)
	for watts := 10.0; watts <= 1200; watts += 10 {
		cur := CalculateInterval(watts)
		assert.LessOrEqual(t, cur.LowDays, prev.LowDays)
		assert.LessOrEqual(t, cur.HighDays, prev.HighDays)
		assert.Less(t, cur.LowDays, cur.HighDays)
		prev = cur
	}
}

func TestCalculateDosesFollowTable(t *testing.T) {
	doses := CalculateDoses(CalculateWatering(40))
	table := Nutrients()
	require.Len(t, doses, len(table))

	for i, n := range table {
		assert.Equal(t, n.Key, doses[i].Key, "table order must be preserved")
		assert.InDelta(t, n.DosePerLiter*0.25*40, doses[i].MaxMl, 1e-9)
		assert.InDelta(t, n.DosePerLiter*0.2*40, doses[i].MinMl, 1e-9)
	}
}

func TestMaxDoseIncreasesWithPot(t *testing.T) {
	prev := CalculateDoses(CalculateWatering(1))
	for pot := 2.0; pot <= 100; pot++ {
		cur := CalculateDoses(CalculateWatering(pot))
		for i := range cur {
			assert.Greater(t, cur[i].MaxMl, prev[i].MaxMl)
		}
		prev = cur
	}
}

func TestNutrientsReturnsCopy(t *testing.T) {
	n := Nutrients()
	n[0].DosePerLiter = 99

	assert.Equal(t, 2.0, Nutrients()[0].DosePerLiter)
}

func TestRecommendRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		pot, watts float64
		field      string
	}{
		{"zero pot", 0, 200, "pot"},
		{"negative watts", 40, -5, "watts"},
		{"NaN pot", math.NaN(), 200, "pot"},
		{"infinite watts", 40, math.Inf(1), "watts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Recommend(tt.pot, tt.watts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, rec.Watering)
			assert.Nil(t, rec.Nutrients)
		})
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	a, err := Recommend(37.5, 450)
	require.NoError(t, err)
	b, err := Recommend(37.5, 450)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRecommendDefaultsEndToEnd(t *testing.T) {
	p := DefaultProfile()
	rec, err := Recommend(p.PotLiters, p.Wattage)
	require.NoError(t, err)

	assert.Equal(t, "8.0–10.0 L", rec.Watering.RangeLabel())
	assert.Equal(t, "120.0 L", rec.Watering.FlushLabel())
	assert.Equal(t, "4–6 days", rec.Interval.Label())
	require.NotEmpty(t, rec.Nutrients)
	assert.Equal(t, "grow", rec.Nutrients[0].Key)
	assert.Equal(t, "16.0–20.0 ml", rec.Nutrients[0].Label())
	assert.Equal(t, "8.0–10.0 ml", rec.Nutrients[1].Label())
}
