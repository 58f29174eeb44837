package domain

import (
	"fmt"
	"strings"
)

const trendMissingPenalty = 0.15

// AssessTrendStability scores how fast conditions are changing: the
// deterioration between the previous and current METAR, and any TAF group in
// the next six hours forecasting a worse flight category.
//
//	category worse by 1/2/3        45/75/85
//	wind change ≥10 kt / ≥15 kt    40/60
//	visibility drop ≥3 SM          55
//	ceiling drop ≥1000 ft          50
//	TAF worse by 1/2/3             40/65/80
func AssessTrendStability(in RiskInputs) FactorResult {
	if in.PreviousMetar == nil && in.Taf == nil {
		return missingFactor(FactorTrendStability, trendMissingPenalty,
			"No previous observation or forecast; trend unknown")
	}

	score := 0
	var messages []string
	var sources []string
	details := &FactorDetails{Impact: "Conditions stable"}
	raise := func(s int, actual, threshold, impact string) {
		if s > score {
			score = s
			details = &FactorDetails{ActualValue: actual, Threshold: threshold, Impact: impact}
		}
	}

	current := MetarCategory(in.Metar)

	if in.Metar != nil && in.PreviousMetar != nil {
		sources = append(sources, "metar")
		prev, cur := in.PreviousMetar, in.Metar
		prevCat := MetarCategory(prev)

		if steps := categorySteps(prevCat, current); steps > 0 {
			s := [...]int{0, 45, 75, 85}[steps]
			msg := fmt.Sprintf("Flight category deteriorated from %s to %s", prevCat, current)
			messages = append(messages, msg)
			raise(s, fmt.Sprintf("%s → %s", prevCat, current), "1/2/3 categories", "Conditions deteriorating; expect revised approaches")
		}

		if d, ok := windChange(prev, cur); ok && d >= 10 {
			s := 40
			if d >= 15 {
				s = 60
			}
			messages = append(messages, fmt.Sprintf("Wind changed by %d kt since last observation", d))
			raise(s, fmt.Sprintf("%d kt change", d), "10/15 kt", "Rapidly changing winds")
		}

		if prev.VisibilitySM != nil && cur.VisibilitySM != nil {
			if drop := *prev.VisibilitySM - *cur.VisibilitySM; drop >= 3 {
				messages = append(messages, fmt.Sprintf("Visibility dropped %s SM since last observation", formatSM(drop)))
				raise(55, fmt.Sprintf("%s → %s SM", formatSM(*prev.VisibilitySM), formatSM(*cur.VisibilitySM)), "3 SM drop", "Visibility falling")
			}
		}

		pc, pok := Ceiling(prev.Clouds)
		cc, cok := Ceiling(cur.Clouds)
		if pok && cok && pc-cc >= 1000 {
			messages = append(messages, fmt.Sprintf("Ceiling lowered from %d ft to %d ft", pc, cc))
			raise(50, fmt.Sprintf("%d → %d ft", pc, cc), "1000 ft drop", "Ceiling lowering")
		}
	}

	if in.Taf != nil {
		sources = append(sources, "taf")
		base := current
		if base == CategoryUnknown {
			base = CategoryVFR
		}
		for _, p := range upcomingPeriods(in.Taf, in.Now, forecastLookahead) {
			cat := periodCategory(p)
			steps := categorySteps(base, cat)
			if steps <= 0 {
				continue
			}
			s := [...]int{0, 40, 65, 80}[steps]
			label := "Forecast"
			if p.Change != "" {
				label = strings.ToUpper(p.Change)
			}
			messages = append(messages, fmt.Sprintf("%s %s from %s", label, cat, p.From.UTC().Format("1504Z")))
			raise(s, fmt.Sprintf("%s forecast", cat), "1/2/3 categories within 6 h", "Forecast deterioration during the operation")
		}
	}

	if len(sources) == 0 {
		return missingFactor(FactorTrendStability, trendMissingPenalty,
			"No current observation to compare; trend unknown")
	}
	if len(messages) == 0 {
		messages = append(messages, "Conditions steady")
	}

	return newFactorResult(FactorTrendStability, score, 0, messages, details, sources)
}

// categorySteps is how many categories worse to is than from; unknown
// categories compare as no change.
func categorySteps(from, to FlightCategory) int {
	if from.rank() < 0 || to.rank() < 0 {
		return 0
	}
	return to.rank() - from.rank()
}

func windChange(prev, cur *Metar) (int, bool) {
	p, ok1 := peakWind(prev)
	c, ok2 := peakWind(cur)
	if !ok1 || !ok2 {
		return 0, false
	}
	d := c - p
	if d < 0 {
		d = -d
	}
	return d, true
}

func peakWind(m *Metar) (int, bool) {
	if m.WindSpeedKt == nil {
		return 0, false
	}
	w := *m.WindSpeedKt
	if m.WindGustKt != nil && *m.WindGustKt > w {
		w = *m.WindGustKt
	}
	return w, true
}
