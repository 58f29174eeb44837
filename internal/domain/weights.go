package domain

import (
	"errors"
	"fmt"
	"math"
)

// DefaultFactorWeight is used for any factor absent from a phase's table.
const DefaultFactorWeight = 0.1

// PhaseWeights maps factors to their weight for one phase.
type PhaseWeights map[FactorName]float64

// Weight returns the table weight for f or the default.
func (w PhaseWeights) Weight(f FactorName) float64 {
	if v, ok := w[f]; ok {
		return v
	}
	return DefaultFactorWeight
}

// SideWeights is the origin/destination split for one phase.
type SideWeights struct {
	Origin      float64 `json:"origin" yaml:"origin"`
	Destination float64 `json:"destination" yaml:"destination"`
}

// WeightTables bundles the factor and origin/destination tables.
type WeightTables struct {
	Factor            map[Phase]PhaseWeights `json:"factor"`
	OriginDestination map[Phase]SideWeights  `json:"origin_destination"`
}

// DefaultWeightTables returns fresh copies of the built-in tables.
// Temperature has no entry and falls back to DefaultFactorWeight.
func DefaultWeightTables() WeightTables {
	return WeightTables{
		Factor: map[Phase]PhaseWeights{
			PhaseDeparture: {FactorSurfaceWind: 0.35, FactorVisibility: 0.25, FactorCeilingClouds: 0.15, FactorPrecipitation: 0.15, FactorTrendStability: 0.10},
			PhaseArrival:   {FactorSurfaceWind: 0.20, FactorVisibility: 0.25, FactorCeilingClouds: 0.30, FactorPrecipitation: 0.15, FactorTrendStability: 0.10},
			PhasePlanning:  {FactorSurfaceWind: 0.20, FactorVisibility: 0.20, FactorCeilingClouds: 0.25, FactorPrecipitation: 0.25, FactorTrendStability: 0.10},
			PhasePreflight: {FactorSurfaceWind: 0.20, FactorVisibility: 0.25, FactorCeilingClouds: 0.25, FactorPrecipitation: 0.20, FactorTrendStability: 0.10},
			PhaseEnroute:   {FactorSurfaceWind: 0.20, FactorVisibility: 0.15, FactorCeilingClouds: 0.10, FactorPrecipitation: 0.30, FactorTrendStability: 0.25},
		},
		OriginDestination: map[Phase]SideWeights{
			PhasePreflight: {Origin: 0.50, Destination: 0.50},
			PhasePlanning:  {Origin: 0.60, Destination: 0.40},
			PhaseDeparture: {Origin: 0.75, Destination: 0.25},
			PhaseEnroute:   {Origin: 0.30, Destination: 0.70},
			PhaseArrival:   {Origin: 0.25, Destination: 0.75},
		},
	}
}

// FactorWeights returns the table for p, or an empty table (all defaults)
// when the phase is not configured.
func (t WeightTables) FactorWeights(p Phase) PhaseWeights {
	if w, ok := t.Factor[p]; ok {
		return w
	}
	return PhaseWeights{}
}

// Sides returns the origin/destination split for p, falling back to an even split.
func (t WeightTables) Sides(p Phase) SideWeights {
	if w, ok := t.OriginDestination[p]; ok {
		return w
	}
	return SideWeights{Origin: 0.5, Destination: 0.5}
}

// sumTolerance bounds how far a table may drift from summing to 1.
const sumTolerance = 1e-6

// Validate checks that every phase is covered, weights are non-negative,
// factor names are known and origin/destination pairs sum to 1.
func (t WeightTables) Validate() error {
	var errs []error
	for _, p := range Phases {
		fw, ok := t.Factor[p]
		if !ok {
			errs = append(errs, fmt.Errorf("factor weights: missing phase %s", p))
		}
		for f, w := range fw {
			if !f.Valid() {
				errs = append(errs, fmt.Errorf("factor weights %s: unknown factor %q", p, f))
			}
			if w < 0 || math.IsNaN(w) {
				errs = append(errs, fmt.Errorf("factor weights %s: %s weight %v is negative", p, f, w))
			}
		}

		sw, ok := t.OriginDestination[p]
		if !ok {
			errs = append(errs, fmt.Errorf("origin/destination weights: missing phase %s", p))
			continue
		}
		if sw.Origin < 0 || sw.Destination < 0 {
			errs = append(errs, fmt.Errorf("origin/destination weights %s: negative weight", p))
		}
		if math.Abs(sw.Origin+sw.Destination-1) > sumTolerance {
			errs = append(errs, fmt.Errorf("origin/destination weights %s: sum %.4f, want 1", p, sw.Origin+sw.Destination))
		}
	}
	return errors.Join(errs...)
}
