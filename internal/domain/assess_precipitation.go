package domain

import (
	"fmt"
	"math"
	"time"
)

// forecastLookahead is how far into a TAF the precipitation and trend
// assessors look from the evaluation instant.
const forecastLookahead = 6 * time.Hour

// forecastWeight discounts forecast-only hazards against observed ones.
const forecastWeight = 0.8

// AssessPrecipitation scores the strongest present-weather group and any TAF
// group valid in the next six hours.
func AssessPrecipitation(in RiskInputs) FactorResult {
	sources := []string{}
	var messages []string
	score := 0
	var details *FactorDetails
	penalty := 0.0

	if in.Metar != nil {
		sources = append(sources, "metar")
		tokens := metarWeather(in.Metar)
		best, label, tok := strongestWeather(tokens)
		score = best
		if best > 0 {
			messages = append(messages, fmt.Sprintf("Observed %s (%s)", label, tok))
			details = &FactorDetails{ActualValue: tok, Threshold: "type and intensity", Impact: precipitationImpact(best)}
		} else {
			messages = append(messages, "No precipitation observed")
			details = &FactorDetails{ActualValue: "none", Impact: "Negligible"}
		}
	} else {
		penalty = missingPenalty
		messages = append(messages, "No current observation; precipitation based on forecast only")
	}

	if in.Taf != nil {
		sources = append(sources, "taf")
		for _, p := range upcomingPeriods(in.Taf, in.Now, forecastLookahead) {
			best, label, tok := strongestWeather(parseWeatherCodes(p.Weather))
			if best == 0 {
				continue
			}
			f := int(math.Round(float64(best) * forecastWeight))
			if f > score {
				score = f
				details = &FactorDetails{ActualValue: tok + " (forecast)", Threshold: "type and intensity", Impact: precipitationImpact(best)}
			}
			messages = append(messages, fmt.Sprintf("Forecast %s (%s) %s–%s", label, tok,
				p.From.UTC().Format("1504Z"), p.To.UTC().Format("1504Z")))
		}
	}

	if in.Metar == nil && in.Taf == nil {
		return missingFactor(FactorPrecipitation, missingPenalty, "Present weather not reported")
	}

	return newFactorResult(FactorPrecipitation, score, penalty, messages, details, sources)
}

func strongestWeather(tokens []wxToken) (int, string, string) {
	best, label, text := 0, "", ""
	for _, t := range tokens {
		s, l := weatherTokenScore(t)
		if s > best {
			best, label, text = s, l, t.String()
		}
	}
	return best, label, text
}

// weatherTokenScore scores one present-weather group.
//
//	TS 85 (+TS 95, VCTS 60), FC 100, FZRA/FZDZ 90, GR 85, PL 75, SQ 70,
//	GS 60, +SN 80, SN 60, -SN 45, UP 40, SG 35, +RA 50, RA 30, -RA 15, DZ 15
//
// Showers add 5; vicinity halves anything but thunderstorms.
func weatherTokenScore(t wxToken) (int, string) {
	if t.Descriptor == "TS" {
		switch t.Intensity {
		case "+":
			return 95, "heavy thunderstorm"
		case "VC":
			return 60, "thunderstorm in vicinity"
		default:
			return 85, "thunderstorm"
		}
	}

	score, label := 0, ""
	bump := func(s int, l string) {
		if s > score {
			score, label = s, l
		}
	}
	for _, p := range t.Phenomena {
		switch p {
		case "FC":
			bump(100, "funnel cloud")
		case "RA", "DZ":
			if t.Descriptor == "FZ" {
				bump(90, "freezing precipitation")
				continue
			}
			if p == "DZ" {
				bump(15, "drizzle")
				continue
			}
			switch t.Intensity {
			case "+":
				bump(50, "heavy rain")
			case "-":
				bump(15, "light rain")
			default:
				bump(30, "rain")
			}
		case "GR":
			bump(85, "hail")
		case "PL":
			bump(75, "ice pellets")
		case "SQ":
			bump(70, "squalls")
		case "GS":
			bump(60, "small hail")
		case "SN":
			switch t.Intensity {
			case "+":
				bump(80, "heavy snow")
			case "-":
				bump(45, "light snow")
			default:
				bump(60, "snow")
			}
		case "UP":
			bump(40, "unknown precipitation")
		case "SG":
			bump(35, "snow grains")
		}
	}
	if score == 0 {
		return 0, ""
	}
	if t.Descriptor == "SH" {
		score += 5
		label += " showers"
	}
	if t.Intensity == "VC" {
		score /= 2
		label += " in vicinity"
	}
	return clampScore(score), label
}

func precipitationImpact(score int) string {
	switch {
	case score >= 70:
		return "Hazardous precipitation; delays, de-icing or diversion likely"
	case score >= 40:
		return "Contaminated runway and reduced braking possible"
	default:
		return "Minor operational impact"
	}
}

// upcomingPeriods returns TAF groups overlapping [now, now+window].
func upcomingPeriods(taf *Taf, now time.Time, window time.Duration) []TafPeriod {
	if taf == nil {
		return nil
	}
	end := now.Add(window)
	var out []TafPeriod
	for _, p := range taf.Forecasts {
		if !p.To.IsZero() && !p.To.After(now) {
			continue
		}
		if p.From.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}
