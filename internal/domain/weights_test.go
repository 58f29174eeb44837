package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightTables_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeightTables().Validate())

	t.Run("unbalanced sides", func(t *testing.T) {
		tables := DefaultWeightTables()
		tables.OriginDestination[PhaseArrival] = SideWeights{Origin: 0.3, Destination: 0.8}
		assert.ErrorContains(t, tables.Validate(), "arrival")
	})

	t.Run("missing phase", func(t *testing.T) {
		tables := DefaultWeightTables()
		delete(tables.Factor, PhaseEnroute)
		assert.ErrorContains(t, tables.Validate(), "missing phase enroute")
	})

	t.Run("unknown factor and negative weight", func(t *testing.T) {
		tables := DefaultWeightTables()
		tables.Factor[PhasePlanning]["turbulence"] = 0.2
		tables.Factor[PhasePlanning][FactorVisibility] = -1
		err := tables.Validate()
		assert.ErrorContains(t, err, `unknown factor "turbulence"`)
		assert.ErrorContains(t, err, "negative")
	})
}

func TestPhaseWeights_DefaultForMissingFactor(t *testing.T) {
	w := DefaultWeightTables().FactorWeights(PhaseDeparture)
	assert.Equal(t, 0.35, w.Weight(FactorSurfaceWind))
	assert.Equal(t, DefaultFactorWeight, w.Weight(FactorTemperature))
	assert.Equal(t, DefaultFactorWeight, WeightTables{}.FactorWeights(PhaseDeparture).Weight(FactorVisibility))
}
