package domain

import "fmt"

// AssessTemperature scores airframe icing and high-temperature performance risk.
//
// Icing needs moisture: precipitation or obscuration in the present weather,
// a temperature/dewpoint spread of 2°C or less, or a broken/overcast layer.
//
//	moist, -10..0°C     80  significant icing
//	moist, -20..-10°C   70
//	moist, 0..3°C       55  icing possible near freezing
//	moist, other ≤0°C   70
//	dry ≤0°C, spread≤3  50  ground icing / frost
//	dry ≤0°C            30  de-icing procedures
//
// Heat is scored independently and the higher of the two wins:
// ≥40°C 70, ≥35°C 55, ≥30°C 35.
func AssessTemperature(in RiskInputs) FactorResult {
	m := in.Metar
	if m == nil || m.TempC == nil {
		return missingFactor(FactorTemperature, missingPenalty, "Temperature not reported; icing and performance risk unknown")
	}

	temp := *m.TempC
	var spread *float64
	if m.DewpointC != nil {
		s := temp - *m.DewpointC
		spread = &s
	}

	wx := metarWeather(m)
	moisture := anyWeather(wx, "RA", "DZ", "SN", "SG", "PL", "FG", "BR") ||
		(spread != nil && *spread <= 2) ||
		hasCoverage(m.Clouds, "BKN", "OVC")

	score := 0
	var messages []string
	icing := false

	switch {
	case moisture && temp >= -10 && temp <= 0:
		score = 80
		icing = true
		messages = append(messages, fmt.Sprintf("Significant icing risk: %.0f°C with visible moisture", temp))
	case moisture && temp >= -20 && temp < -10:
		score = 70
		icing = true
		messages = append(messages, fmt.Sprintf("Icing risk in cold moist air at %.0f°C", temp))
	case moisture && temp > 0 && temp <= 3:
		score = 55
		icing = true
		messages = append(messages, fmt.Sprintf("Possible icing near freezing (%.0f°C) with moisture present", temp))
	case moisture && temp <= 0:
		score = 70
		icing = true
		messages = append(messages, fmt.Sprintf("Icing risk with moisture at %.0f°C", temp))
	case temp <= 0 && spread != nil && *spread <= 3:
		score = 50
		icing = true
		messages = append(messages, fmt.Sprintf("Ground icing or frost likely: %.0f°C, near saturation", temp))
	case temp <= 0:
		score = 30
		icing = true
		messages = append(messages, fmt.Sprintf("Below freezing (%.0f°C); de-icing procedures may be required", temp))
	}

	heat := 0
	switch {
	case temp >= 40:
		heat = 70
		messages = append(messages, fmt.Sprintf("Extremely hot (%.0f°C): severe performance degradation", temp))
	case temp >= 35:
		heat = 55
		messages = append(messages, fmt.Sprintf("Very hot (%.0f°C): reduced climb and takeoff performance", temp))
	case temp >= 30:
		heat = 35
		messages = append(messages, fmt.Sprintf("Hot conditions (%.0f°C): check density altitude", temp))
	}
	heatDominates := heat > score
	if heatDominates {
		score = heat
	}

	if len(messages) == 0 {
		messages = append(messages, fmt.Sprintf("Temperature %.0f°C poses no icing or performance concern", temp))
	}

	actual := fmt.Sprintf("%.0f°C", temp)
	if m.DewpointC != nil {
		actual = fmt.Sprintf("%.0f°C / dewpoint %.0f°C", temp, *m.DewpointC)
	}
	details := &FactorDetails{ActualValue: actual}
	switch {
	case heatDominates:
		details.Threshold = "30/35/40°C"
		details.Impact = "High density altitude reduces takeoff and climb performance"
	case icing:
		details.Threshold = "≤3°C with visible moisture"
		details.Impact = "Airframe or ground icing; anti-ice or de-icing may be required"
	default:
		details.Impact = "Negligible"
	}

	return newFactorResult(FactorTemperature, score, 0, messages, details, []string{"metar"})
}
