package domain

// Assessor scores one weather dimension. Implementations are pure and must
// tolerate any field of RiskInputs being absent.
type Assessor interface {
	Name() FactorName
	Assess(in RiskInputs) FactorResult
}

type assessorFunc struct {
	name FactorName
	fn   func(RiskInputs) FactorResult
}

func (a assessorFunc) Name() FactorName                  { return a.name }
func (a assessorFunc) Assess(in RiskInputs) FactorResult { return a.fn(in) }

// registry is the fixed, ordered set of assessors. Adding a factor means
// adding one entry here and one FactorName constant.
var registry = []Assessor{
	assessorFunc{FactorSurfaceWind, AssessSurfaceWind},
	assessorFunc{FactorVisibility, AssessVisibility},
	assessorFunc{FactorCeilingClouds, AssessCeilingClouds},
	assessorFunc{FactorPrecipitation, AssessPrecipitation},
	assessorFunc{FactorTrendStability, AssessTrendStability},
	assessorFunc{FactorTemperature, AssessTemperature},
}

// DefaultAssessors returns a copy of the assessor registry.
func DefaultAssessors() []Assessor {
	out := make([]Assessor, len(registry))
	copy(out, registry)
	return out
}

// AssessAll runs every assessor against the same inputs.
func AssessAll(in RiskInputs, assessors []Assessor) []FactorResult {
	results := make([]FactorResult, 0, len(assessors))
	for _, a := range assessors {
		results = append(results, a.Assess(in))
	}
	return results
}
