package domain

import "math"

// FactorName identifies one scored weather dimension.
type FactorName string

const (
	FactorSurfaceWind    FactorName = "surface_wind"
	FactorVisibility     FactorName = "visibility"
	FactorCeilingClouds  FactorName = "ceiling_clouds"
	FactorPrecipitation  FactorName = "precipitation"
	FactorTrendStability FactorName = "trend_stability"
	FactorTemperature    FactorName = "temperature"
)

// FactorNames lists every factor in registry order.
var FactorNames = []FactorName{
	FactorSurfaceWind,
	FactorVisibility,
	FactorCeilingClouds,
	FactorPrecipitation,
	FactorTrendStability,
	FactorTemperature,
}

// Valid reports whether n is one of the known factors.
func (n FactorName) Valid() bool {
	for _, f := range FactorNames {
		if f == n {
			return true
		}
	}
	return false
}

// Severity is the per-factor bucket derived from the score.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// SeverityForScore maps a 0–100 score to its bucket: ≥70 high, ≥40 moderate.
func SeverityForScore(score int) Severity {
	switch {
	case score >= 70:
		return SeverityHigh
	case score >= 40:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// FactorDetails explains the dominant value behind a factor score.
type FactorDetails struct {
	ActualValue string `json:"actual_value"`
	Threshold   string `json:"threshold,omitempty"`
	Impact      string `json:"impact,omitempty"`
}

// FactorResult is the output of one assessor. It is not mutated after creation.
type FactorResult struct {
	Name              FactorName     `json:"name"`
	Score             int            `json:"score"`
	ConfidencePenalty float64        `json:"confidence_penalty"`
	Severity          Severity       `json:"severity"`
	Messages          []string       `json:"messages"`
	Details           *FactorDetails `json:"details,omitempty"`
	Sources           []string       `json:"sources"`
}

// missingPenalty is applied when a factor's underlying field is absent.
const missingPenalty = 0.2

// newFactorResult clamps the score and fills in the severity bucket.
func newFactorResult(name FactorName, score int, penalty float64, messages []string, details *FactorDetails, sources []string) FactorResult {
	score = clampScore(score)
	if messages == nil {
		messages = []string{}
	}
	if sources == nil {
		sources = []string{}
	}
	return FactorResult{
		Name:              name,
		Score:             score,
		ConfidencePenalty: penalty,
		Severity:          SeverityForScore(score),
		Messages:          messages,
		Details:           details,
		Sources:           sources,
	}
}

func missingFactor(name FactorName, penalty float64, message string) FactorResult {
	return newFactorResult(name, 0, penalty, []string{message}, nil, nil)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
