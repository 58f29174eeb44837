package domain

import "math"

// FlightRiskCombination blends an origin and a destination evaluation.
// CombinedScore and Tier are nil when either side lacks data.
type FlightRiskCombination struct {
	Origin            AggregationResult `json:"origin"`
	Destination       AggregationResult `json:"destination"`
	Phase             Phase             `json:"phase"`
	OriginWeight      float64           `json:"origin_weight"`
	DestinationWeight float64           `json:"destination_weight"`
	CombinedScore     *int              `json:"combined_score"`
	Tier              *Tier             `json:"tier"`
	Status            Status            `json:"status"`
	Confidence        float64           `json:"confidence"`
}

// CombineFlightRisk weights the two sides by the phase's origin/destination
// split. InsufficientData on either side propagates to the combination.
func CombineFlightRisk(origin, dest AggregationResult, phase Phase, tables WeightTables) FlightRiskCombination {
	sides := tables.Sides(phase)
	c := FlightRiskCombination{
		Origin:            origin,
		Destination:       dest,
		Phase:             phase,
		OriginWeight:      sides.Origin,
		DestinationWeight: sides.Destination,
		Confidence:        math.Min(origin.Confidence, dest.Confidence),
	}

	if origin.Status != StatusOK || dest.Status != StatusOK || origin.FinalScore == nil || dest.FinalScore == nil {
		c.Status = StatusInsufficientData
		return c
	}

	score := clampScore(int(math.Round(float64(*origin.FinalScore)*sides.Origin + float64(*dest.FinalScore)*sides.Destination)))
	tier := TierForScore(score)
	c.CombinedScore = &score
	c.Tier = &tier
	c.Status = StatusOK
	return c
}
