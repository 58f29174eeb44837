package domain

import "fmt"

// AssessVisibility scores prevailing visibility and, when reported, runway
// visual range. The lower of the two bands wins.
//
//	visibility  <1/2 SM 90 | <1 SM 80 | <3 SM 60 | ≤5 SM 35
//	RVR         <600 ft 95 | <1200 ft 85 | <2400 ft 70
func AssessVisibility(in RiskInputs) FactorResult {
	m := in.Metar
	if m == nil || (m.VisibilitySM == nil && m.RVRFt == nil) {
		return missingFactor(FactorVisibility, missingPenalty, "Visibility not reported")
	}

	score := 0
	var messages []string
	details := &FactorDetails{Threshold: "1/2, 1, 3, 5 SM"}

	if m.VisibilitySM != nil {
		vis := *m.VisibilitySM
		details.ActualValue = fmt.Sprintf("%s SM", formatSM(vis))
		switch {
		case vis < 0.5:
			score = 90
			messages = append(messages, fmt.Sprintf("Visibility %s SM, below most approach minima", formatSM(vis)))
		case vis < 1:
			score = 80
			messages = append(messages, fmt.Sprintf("Visibility %s SM (LIFR)", formatSM(vis)))
		case vis < 3:
			score = 60
			messages = append(messages, fmt.Sprintf("Visibility %s SM (IFR)", formatSM(vis)))
		case vis <= 5:
			score = 35
			messages = append(messages, fmt.Sprintf("Visibility %s SM (MVFR)", formatSM(vis)))
		default:
			messages = append(messages, fmt.Sprintf("Good visibility, %s SM", formatSM(vis)))
		}
	}

	if m.RVRFt != nil {
		rvr := *m.RVRFt
		if details.ActualValue != "" {
			details.ActualValue += ", "
		}
		details.ActualValue += fmt.Sprintf("RVR %d ft", rvr)
		r := 0
		switch {
		case rvr < 600:
			r = 95
		case rvr < 1200:
			r = 85
		case rvr < 2400:
			r = 70
		}
		if r > 0 {
			messages = append(messages, fmt.Sprintf("Runway visual range %d ft", rvr))
		}
		if r > score {
			score = r
			details.Threshold = "RVR 600/1200/2400 ft"
		}
	}

	switch {
	case score >= 70:
		details.Impact = "Low-visibility procedures; approach may be below minima"
	case score >= 40:
		details.Impact = "Instrument approach required"
	case score > 0:
		details.Impact = "Reduced visual references"
	default:
		details.Impact = "Negligible"
	}

	return newFactorResult(FactorVisibility, score, 0, messages, details, []string{"metar"})
}

func formatSM(v float64) string {
	switch v {
	case 0.25:
		return "1/4"
	case 0.5:
		return "1/2"
	case 0.75:
		return "3/4"
	case 1.5:
		return "1 1/2"
	}
	if v == float64(int(v)) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}
