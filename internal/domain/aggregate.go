package domain

import "math"

// MissingDataAgeHours stands in for the data age when no timestamped dataset exists.
const MissingDataAgeHours = 999

// MissingInputsPenalty is subtracted from confidence when fewer than two of
// METAR and TAF are available.
const MissingInputsPenalty = 0.15

// MinConfidence is the lowest confidence that still yields a score.
const MinConfidence = 0.15

// Tier is the coarse risk bucket of a score.
type Tier string

const (
	TierOnTrack        Tier = "OnTrack"
	TierMonitor        Tier = "Monitor"
	TierHighDisruption Tier = "HighDisruption"
)

// TierForScore buckets a score: ≤30 OnTrack, ≤60 Monitor, else HighDisruption.
func TierForScore(score int) Tier {
	switch {
	case score <= 30:
		return TierOnTrack
	case score <= 60:
		return TierMonitor
	default:
		return TierHighDisruption
	}
}

// Status says whether an aggregation produced an actionable score.
type Status string

const (
	StatusOK               Status = "Ok"
	StatusInsufficientData Status = "InsufficientData"
)

// WeightedFactorResult is a factor result with the weight the aggregator used.
type WeightedFactorResult struct {
	FactorResult
	Weight float64 `json:"weight"`
}

// AggregationInput is everything Aggregate needs.
type AggregationInput struct {
	ICAO              string
	Phase             Phase
	Factors           []FactorResult
	Weights           PhaseWeights
	DatasetsAvailable int
	DataAgeHours      float64
}

// AggregationResult is the per-airport outcome. FinalScore and Tier are nil
// exactly when Status is InsufficientData.
type AggregationResult struct {
	ICAO                 string                 `json:"icao"`
	Phase                Phase                  `json:"phase"`
	RawScore             int                    `json:"raw_score"`
	Confidence           float64                `json:"confidence"`
	FinalScore           *int                   `json:"final_score"`
	Tier                 *Tier                  `json:"tier"`
	Status               Status                 `json:"status"`
	Factors              []WeightedFactorResult `json:"factors"`
	DataAgeHours         float64                `json:"data_age_hours"`
	MissingInputsPenalty float64                `json:"missing_inputs_penalty"`
}

// Aggregate combines factor scores into a phase-weighted score with a
// confidence derived from data freshness and completeness.
func Aggregate(in AggregationInput) AggregationResult {
	factors := make([]WeightedFactorResult, 0, len(in.Factors))
	var total, sum float64
	for _, f := range in.Factors {
		w := in.Weights.Weight(f.Name)
		total += float64(f.Score) * w
		sum += w
		factors = append(factors, WeightedFactorResult{FactorResult: f, Weight: w})
	}

	raw := 0
	if sum > 0 {
		raw = clampScore(int(math.Round(total / sum)))
	}

	penalty := 0.0
	if in.DatasetsAvailable < 2 {
		penalty = MissingInputsPenalty
	}
	confidence := clamp01(ConfidenceForAge(in.DataAgeHours) - penalty)

	res := AggregationResult{
		ICAO:                 in.ICAO,
		Phase:                in.Phase,
		RawScore:             raw,
		Confidence:           confidence,
		Factors:              factors,
		DataAgeHours:         in.DataAgeHours,
		MissingInputsPenalty: penalty,
	}

	if confidence < MinConfidence || in.DatasetsAvailable < 1 {
		res.Status = StatusInsufficientData
		return res
	}

	tier := TierForScore(raw)
	res.Status = StatusOK
	res.FinalScore = &raw
	res.Tier = &tier
	return res
}

// ConfidenceForAge maps data age to base confidence.
//
//	≤3h 1.0 | ≤6h 0.95 | ≤12h 0.85 | ≤24h 0.7 | ≤36h 0.5 | else 0.2
func ConfidenceForAge(hours float64) float64 {
	switch {
	case hours <= 3:
		return 1.0
	case hours <= 6:
		return 0.95
	case hours <= 12:
		return 0.85
	case hours <= 24:
		return 0.7
	case hours <= 36:
		return 0.5
	default:
		return 0.2
	}
}

// EvaluateAirport runs every registered assessor over in and aggregates the
// results for phase.
func EvaluateAirport(in RiskInputs, phase Phase, tables WeightTables) AggregationResult {
	return Aggregate(AggregationInput{
		ICAO:              in.ICAO,
		Phase:             phase,
		Factors:           AssessAll(in, registry),
		Weights:           tables.FactorWeights(phase),
		DatasetsAvailable: in.DatasetsAvailable(),
		DataAgeHours:      in.DataAgeHours(),
	})
}
