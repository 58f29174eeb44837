package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factor(name FactorName, score int) FactorResult {
	return newFactorResult(name, score, 0, nil, nil, nil)
}

func TestAggregate_WeightedScore(t *testing.T) {
	res := Aggregate(AggregationInput{
		ICAO:  "KDEN",
		Phase: PhaseDeparture,
		Factors: []FactorResult{
			factor(FactorSurfaceWind, 50),
			factor(FactorTemperature, 61),
		},
		Weights:           DefaultWeightTables().FactorWeights(PhaseDeparture),
		DatasetsAvailable: 2,
		DataAgeHours:      1,
	})

	// (50*0.35 + 61*0.1) / 0.45 = 52.44
	assert.Equal(t, 52, res.RawScore)
	require.Len(t, res.Factors, 2)
	assert.Equal(t, 0.35, res.Factors[0].Weight)
	assert.Equal(t, DefaultFactorWeight, res.Factors[1].Weight)
	assert.Equal(t, StatusOK, res.Status)
	require.NotNil(t, res.FinalScore)
	assert.Equal(t, 52, *res.FinalScore)
	require.NotNil(t, res.Tier)
	assert.Equal(t, TierMonitor, *res.Tier)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
}

func TestAggregate_NoFactors(t *testing.T) {
	res := Aggregate(AggregationInput{DatasetsAvailable: 2, DataAgeHours: 1})
	assert.Equal(t, 0, res.RawScore)
	assert.Equal(t, StatusOK, res.Status)
}

func TestAggregate_TierBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{0, TierOnTrack},
		{30, TierOnTrack},
		{31, TierMonitor},
		{60, TierMonitor},
		{61, TierHighDisruption},
		{100, TierHighDisruption},
	}
	for _, tt := range tests {
		res := Aggregate(AggregationInput{
			Factors:           []FactorResult{factor(FactorVisibility, tt.score)},
			Weights:           PhaseWeights{FactorVisibility: 0.25},
			DatasetsAvailable: 2,
		})
		require.NotNil(t, res.Tier)
		assert.Equal(t, tt.want, *res.Tier, "score %d", tt.score)
		assert.Equal(t, tt.want, TierForScore(tt.score))
	}
}

func TestAggregate_Confidence(t *testing.T) {
	tests := []struct {
		name     string
		age      float64
		datasets int
		want     float64
		status   Status
	}{
		{"fresh and complete", 0.5, 2, 1.0, StatusOK},
		{"five hours, TAF missing", 5, 1, 0.8, StatusOK},
		{"day old", 20, 2, 0.7, StatusOK},
		{"very stale but complete", 40, 2, 0.2, StatusOK},
		{"very stale and incomplete", 40, 1, 0.05, StatusInsufficientData},
		{"nothing at all", MissingDataAgeHours, 0, 0.05, StatusInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Aggregate(AggregationInput{
				Factors:           []FactorResult{factor(FactorCeilingClouds, 70)},
				DatasetsAvailable: tt.datasets,
				DataAgeHours:      tt.age,
			})
			assert.InDelta(t, tt.want, res.Confidence, 1e-9)
			assert.Equal(t, tt.status, res.Status)
			if tt.status == StatusInsufficientData {
				assert.Nil(t, res.FinalScore)
				assert.Nil(t, res.Tier)
				assert.Equal(t, 70, res.RawScore)
			}
		})
	}
}

func TestAggregate_ZeroDatasetsIsInsufficientEvenWhenFresh(t *testing.T) {
	res := Aggregate(AggregationInput{DatasetsAvailable: 0, DataAgeHours: 0})

	assert.Equal(t, StatusInsufficientData, res.Status)
	assert.Nil(t, res.FinalScore)
	assert.Nil(t, res.Tier)
	assert.Equal(t, MissingInputsPenalty, res.MissingInputsPenalty)
}

func TestConfidenceForAge_Monotonic(t *testing.T) {
	prev := 1.0
	for age := 0.0; age <= 48; age += 0.25 {
		for _, penalty := range []float64{0, MissingInputsPenalty} {
			c := clamp01(ConfidenceForAge(age) - penalty)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		}
		c := ConfidenceForAge(age)
		assert.LessOrEqual(t, c, prev, "age %.2f", age)
		prev = c
	}

	for _, boundary := range []float64{3, 6, 12, 24, 36} {
		assert.Greater(t, ConfidenceForAge(boundary), ConfidenceForAge(boundary+0.01), "boundary %v", boundary)
	}
}

func TestEvaluateAirport(t *testing.T) {
	in := RiskInputs{
		ICAO:  "KDEN",
		Now:   testNow,
		Metar: vfrMetar(),
		Taf: &Taf{
			Issued:    testNow.Add(-2 * time.Hour),
			Forecasts: []TafPeriod{{From: testNow.Add(-2 * time.Hour), To: testNow.Add(22 * time.Hour), VisibilitySM: ptr(6.0)}},
		},
		PreviousMetar: vfrMetar(),
	}
	res := EvaluateAirport(in, PhaseArrival, DefaultWeightTables())

	assert.Equal(t, "KDEN", res.ICAO)
	assert.Equal(t, PhaseArrival, res.Phase)
	assert.Len(t, res.Factors, len(FactorNames))
	assert.Equal(t, StatusOK, res.Status)
	assert.InDelta(t, 1.0/3, res.DataAgeHours, 1e-9)
	assert.Equal(t, 0.0, res.MissingInputsPenalty)
	require.NotNil(t, res.Tier)
	assert.Equal(t, TierOnTrack, *res.Tier)
}

func TestEvaluateAirport_NoData(t *testing.T) {
	res := EvaluateAirport(RiskInputs{ICAO: "KXYZ", Now: testNow}, PhasePlanning, DefaultWeightTables())

	assert.Equal(t, StatusInsufficientData, res.Status)
	assert.Equal(t, float64(MissingDataAgeHours), res.DataAgeHours)
	assert.Nil(t, res.FinalScore)
	assert.Nil(t, res.Tier)
}
