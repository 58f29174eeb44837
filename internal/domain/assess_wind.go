package domain

import (
	"fmt"
	"math"
)

// AssessSurfaceWind scores sustained wind, gusts and, when runway headings and
// a fixed wind direction are known, the crosswind on the best-aligned runway.
//
//	sustained  ≥35 kt 85 | ≥25 kt 65 | ≥15 kt 35 | ≥10 kt 15
//	gust       ≥40 kt 90 | ≥30 kt 70 | ≥20 kt 45, spread ≥15 kt +10
//	crosswind  ≥25 kt 80 | ≥20 kt 65 | ≥15 kt 45 | ≥10 kt 25
func AssessSurfaceWind(in RiskInputs) FactorResult {
	m := in.Metar
	if m == nil || m.WindSpeedKt == nil {
		return missingFactor(FactorSurfaceWind, missingPenalty, "Surface wind not reported")
	}

	speed := *m.WindSpeedKt
	if speed == 0 && (m.WindGustKt == nil || *m.WindGustKt == 0) {
		return newFactorResult(FactorSurfaceWind, 0, 0,
			[]string{"Calm winds"},
			&FactorDetails{ActualValue: "calm", Impact: "Negligible"},
			[]string{"metar"})
	}

	var messages []string
	score := sustainedWindScore(speed)
	threshold := "sustained 10/15/25/35 kt"
	impact := "Increased workload on approach and departure"
	if score > 0 {
		messages = append(messages, fmt.Sprintf("Sustained wind %d kt", speed))
	}

	actual := fmt.Sprintf("%d kt", speed)
	if m.WindDirDeg != nil {
		actual = fmt.Sprintf("%03d° at %d kt", *m.WindDirDeg, speed)
	}

	peak := speed
	if m.WindGustKt != nil && *m.WindGustKt > speed {
		gust := *m.WindGustKt
		peak = gust
		actual += fmt.Sprintf(" gusting %d kt", gust)
		g := gustScore(gust)
		if gust-speed >= 15 {
			g += 10
			messages = append(messages, fmt.Sprintf("Large gust spread of %d kt; expect mechanical turbulence", gust-speed))
		}
		if g > 0 {
			messages = append(messages, fmt.Sprintf("Gusts to %d kt", gust))
		}
		if g > score {
			score = g
			threshold = "gusts 20/30/40 kt"
			impact = "Gusty conditions complicate flare and touchdown"
		}
	}

	if xw, rwy, ok := crosswind(m.WindDirDeg, peak, in.Airport); ok {
		actual += fmt.Sprintf(", crosswind %.0f kt (runway heading %03.0f°)", xw, rwy)
		c := crosswindScore(xw)
		if c > 0 {
			messages = append(messages, fmt.Sprintf("Crosswind component %.0f kt on best runway", xw))
		}
		if c > score {
			score = c
			threshold = "crosswind 10/15/20/25 kt"
			impact = "Crosswind may exceed aircraft or crew limits"
		}
	}

	if len(messages) == 0 {
		messages = append(messages, fmt.Sprintf("Light wind %d kt", speed))
		impact = "Negligible"
	}

	sources := []string{"metar"}
	if in.Airport != nil && len(in.Airport.RunwayHeadings) > 0 {
		sources = append(sources, "airport")
	}

	return newFactorResult(FactorSurfaceWind, score, 0, messages,
		&FactorDetails{ActualValue: actual, Threshold: threshold, Impact: impact}, sources)
}

func sustainedWindScore(kt int) int {
	switch {
	case kt >= 35:
		return 85
	case kt >= 25:
		return 65
	case kt >= 15:
		return 35
	case kt >= 10:
		return 15
	default:
		return 0
	}
}

func gustScore(kt int) int {
	switch {
	case kt >= 40:
		return 90
	case kt >= 30:
		return 70
	case kt >= 20:
		return 45
	default:
		return 0
	}
}

func crosswindScore(kt float64) int {
	switch {
	case kt >= 25:
		return 80
	case kt >= 20:
		return 65
	case kt >= 15:
		return 45
	case kt >= 10:
		return 25
	default:
		return 0
	}
}

// crosswind returns the smallest crosswind component across the airport's
// runways and the heading that achieves it.
func crosswind(dir *int, speed int, ap *Airport) (float64, float64, bool) {
	if dir == nil || ap == nil || len(ap.RunwayHeadings) == 0 {
		return 0, 0, false
	}
	best, bestRwy := math.Inf(1), 0.0
	for _, h := range ap.RunwayHeadings {
		angle := (float64(*dir) - h) * math.Pi / 180
		xw := math.Abs(float64(speed) * math.Sin(angle))
		if xw < best {
			best, bestRwy = xw, h
		}
	}
	return best, bestRwy, true
}
