package domain

import (
	"fmt"
	"strings"
)

// AssessCeilingClouds scores the ceiling (lowest BKN/OVC/VV base).
//
//	<200 ft 90 | <500 ft 80 | <1000 ft 60 | ≤3000 ft 30
//
// Cumulonimbus or towering cumulus lifts the score to at least 60.
func AssessCeilingClouds(in RiskInputs) FactorResult {
	m := in.Metar
	if m == nil || m.Clouds == nil {
		return missingFactor(FactorCeilingClouds, missingPenalty, "Cloud layers not reported")
	}

	score := 0
	var messages []string
	details := &FactorDetails{Threshold: "200/500/1000/3000 ft", ActualValue: describeLayers(m.Clouds)}

	if ceil, ok := Ceiling(m.Clouds); ok {
		switch {
		case ceil < 200:
			score = 90
			messages = append(messages, fmt.Sprintf("Ceiling %d ft, at or below most precision minima", ceil))
		case ceil < 500:
			score = 80
			messages = append(messages, fmt.Sprintf("Ceiling %d ft (LIFR)", ceil))
		case ceil < 1000:
			score = 60
			messages = append(messages, fmt.Sprintf("Ceiling %d ft (IFR)", ceil))
		case ceil <= 3000:
			score = 30
			messages = append(messages, fmt.Sprintf("Ceiling %d ft (MVFR)", ceil))
		default:
			messages = append(messages, fmt.Sprintf("Ceiling %d ft", ceil))
		}
	} else {
		messages = append(messages, "No ceiling")
	}

	if hasConvectiveCloud(m) {
		messages = append(messages, "Cumulonimbus or towering cumulus reported")
		if score < 60 {
			score = 60
		}
	}

	switch {
	case score >= 70:
		details.Impact = "Approach may be below minima; alternate planning required"
	case score >= 40:
		details.Impact = "Instrument approach required"
	case score > 0:
		details.Impact = "Marginal VFR"
	default:
		details.Impact = "Negligible"
	}

	return newFactorResult(FactorCeilingClouds, score, 0, messages, details, []string{"metar"})
}

func describeLayers(layers []CloudLayer) string {
	if len(layers) == 0 {
		return "clear"
	}
	parts := make([]string, 0, len(layers))
	for _, l := range layers {
		s := strings.ToUpper(l.Cover)
		if l.BaseFt != nil {
			s += fmt.Sprintf("%03d", *l.BaseFt/100)
		}
		s += strings.ToUpper(l.Type)
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
