package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult(score int, confidence float64) AggregationResult {
	tier := TierForScore(score)
	return AggregationResult{RawScore: score, FinalScore: &score, Tier: &tier, Status: StatusOK, Confidence: confidence}
}

func TestCombineFlightRisk(t *testing.T) {
	tables := DefaultWeightTables()
	tests := []struct {
		phase Phase
		want  int
	}{
		{PhasePreflight, 60},
		{PhasePlanning, 56},
		{PhaseDeparture, 50},
		{PhaseEnroute, 68},
		{PhaseArrival, 70},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			c := CombineFlightRisk(okResult(40, 1), okResult(80, 0.85), tt.phase, tables)

			require.NotNil(t, c.CombinedScore)
			assert.Equal(t, tt.want, *c.CombinedScore)
			assert.Equal(t, StatusOK, c.Status)
			assert.Equal(t, 0.85, c.Confidence)
			require.NotNil(t, c.Tier)
			assert.Equal(t, TierForScore(tt.want), *c.Tier)
		})
	}
}

func TestCombineFlightRisk_InsufficientSidePropagates(t *testing.T) {
	insufficient := AggregationResult{RawScore: 10, Status: StatusInsufficientData, Confidence: 0.05}

	for _, pair := range [][2]AggregationResult{
		{insufficient, okResult(20, 1)},
		{okResult(20, 1), insufficient},
	} {
		c := CombineFlightRisk(pair[0], pair[1], PhaseEnroute, DefaultWeightTables())
		assert.Equal(t, StatusInsufficientData, c.Status)
		assert.Nil(t, c.CombinedScore)
		assert.Nil(t, c.Tier)
		assert.Equal(t, 0.05, c.Confidence)
	}
}

func TestDefaultWeightTables_SidesSumToOne(t *testing.T) {
	tables := DefaultWeightTables()
	for _, p := range Phases {
		s := tables.Sides(p)
		assert.InDelta(t, 1.0, s.Origin+s.Destination, 1e-6, "phase %s", p)
	}
}
