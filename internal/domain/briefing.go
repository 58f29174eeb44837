package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// BriefingSeverity is the overall severity of a hazard briefing.
type BriefingSeverity string

const (
	BriefingNone     BriefingSeverity = "none"
	BriefingLow      BriefingSeverity = "low"
	BriefingModerate BriefingSeverity = "moderate"
	BriefingHigh     BriefingSeverity = "high"
	BriefingExtreme  BriefingSeverity = "extreme"
)

// maxPilotReports caps the PIREPs rendered in a briefing.
const maxPilotReports = 3

// nearbyNM is the distance under which a hazard is described as nearby.
const nearbyNM = 10

// HazardBriefing is a prioritized, human-readable hazard summary. Summary is
// nil exactly when Severity is none.
type HazardBriefing struct {
	Summary  *string          `json:"summary"`
	Items    []string         `json:"items"`
	Severity BriefingSeverity `json:"severity"`
}

// BriefingInput is the material for one briefing.
type BriefingInput struct {
	Hazards      []HazardFeature
	PilotReports []PilotReport
	Airport      *LatLon
	Now          time.Time
}

// hazard severity ranks: extreme > high > moderate > low > info > unknown.
func hazardRank(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extreme", "extm":
		return 5
	case "high", "severe", "sev":
		return 4
	case "moderate", "mod":
		return 3
	case "low", "light", "lgt":
		return 2
	case "info", "informational":
		return 1
	default:
		return 0
	}
}

var hazardAdjective = map[int]string{5: "Extreme", 4: "Severe", 3: "Moderate", 2: "Light"}

// pilot report intensity ranks: 0 none, 1 light, 2 moderate, 3 severe, 4 extreme.
func pirepRank(s string) int {
	worst := 0
	for _, part := range strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return r == '-' || r == ' ' || r == '/'
	}) {
		r := 0
		switch part {
		case "TRACE", "TRC", "LGT", "LIGHT", "LT":
			r = 1
		case "MOD", "MODERATE":
			r = 2
		case "SEV", "SEVERE", "HVY":
			r = 3
		case "EXTM", "EXTREME":
			r = 4
		}
		if r > worst {
			worst = r
		}
	}
	return worst
}

var pirepAdjective = map[int]string{1: "light", 2: "moderate", 3: "severe", 4: "extreme"}

type placedHazard struct {
	HazardFeature
	rank     int
	distance *float64
}

// BuildBriefing turns hazards and pilot reports into a briefing.
func BuildBriefing(in BriefingInput) HazardBriefing {
	var hazards []placedHazard
	for _, h := range in.Hazards {
		if !h.ValidAt(in.Now) {
			continue
		}
		ph := placedHazard{HazardFeature: h, rank: hazardRank(h.Severity)}
		if in.Airport != nil && h.Centroid != nil {
			d := DistanceNM(*in.Airport, *h.Centroid)
			ph.distance = &d
		}
		hazards = append(hazards, ph)
	}
	sortHazards(hazards, in.Airport != nil)

	var items []string
	groups := map[string]int{}
	var order []string
	first := map[string]placedHazard{}
	for _, h := range hazards {
		key := h.TypeName()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			first[key] = h
		}
		groups[key]++
	}
	for _, key := range order {
		items = append(items, hazardSentence(first[key], groups[key]))
	}

	reports := append([]PilotReport(nil), in.PilotReports...)
	sort.SliceStable(reports, func(i, j int) bool {
		return worstPirep(reports[i]) > worstPirep(reports[j])
	})
	if len(reports) > maxPilotReports {
		reports = reports[:maxPilotReports]
	}
	for _, p := range reports {
		items = append(items, pirepSentence(p))
	}

	severity := overallSeverity(hazards, in.PilotReports)
	if items == nil {
		items = []string{}
	}
	return HazardBriefing{
		Summary:  briefingSummary(severity, len(items)),
		Items:    items,
		Severity: severity,
	}
}

func sortHazards(hs []placedHazard, byDistance bool) {
	sort.SliceStable(hs, func(i, j int) bool {
		a, b := hs[i], hs[j]
		if byDistance {
			switch {
			case a.distance != nil && b.distance != nil:
				if *a.distance != *b.distance {
					return *a.distance < *b.distance
				}
			case a.distance != nil:
				return true
			case b.distance != nil:
				return false
			}
		}
		return a.rank > b.rank
	})
}

func hazardSentence(h placedHazard, count int) string {
	name := h.TypeName()
	if name == "" {
		name = "hazard"
	}
	var b strings.Builder
	if adj, ok := hazardAdjective[h.rank]; ok {
		b.WriteString(adj + " " + name)
	} else {
		b.WriteString(capitalize(name))
	}
	if alt := altitudeClause(h.AltitudeLowFt, h.AltitudeHighFt); alt != "" {
		b.WriteString(" " + alt)
	}
	if h.distance != nil {
		if *h.distance < nearbyNM {
			b.WriteString(", nearby")
		} else {
			fmt.Fprintf(&b, ", %.0f NM away", *h.distance)
		}
	}
	if count > 1 {
		fmt.Fprintf(&b, " (%d areas)", count)
	}
	b.WriteString(".")
	return b.String()
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func altitudeClause(low, high *int) string {
	switch {
	case low != nil && high != nil:
		return fmt.Sprintf("between %s-%s feet", humanize.Comma(int64(*low)), humanize.Comma(int64(*high)))
	case low != nil:
		return fmt.Sprintf("above %s feet", humanize.Comma(int64(*low)))
	case high != nil:
		return fmt.Sprintf("below %s feet", humanize.Comma(int64(*high)))
	default:
		return ""
	}
}

func worstPirep(p PilotReport) int {
	return max(pirepRank(p.Turbulence), pirepRank(p.Icing))
}

func pirepSentence(p PilotReport) string {
	var clauses []string
	if adj, ok := pirepAdjective[pirepRank(p.Turbulence)]; ok {
		clauses = append(clauses, adj+" turbulence")
	}
	if adj, ok := pirepAdjective[pirepRank(p.Icing)]; ok {
		clauses = append(clauses, adj+" icing")
	}
	subject := "Pilot report"
	if len(clauses) > 0 {
		subject = strings.Join(clauses, " and ")
		subject = capitalize(subject)
	}
	if p.AltitudeFt != nil {
		return fmt.Sprintf("%s reported at %s feet", subject, humanize.Comma(int64(*p.AltitudeFt)))
	}
	if len(clauses) == 0 {
		return "Pilot report without intensity"
	}
	return subject + " reported by pilot"
}

func overallSeverity(hazards []placedHazard, reports []PilotReport) BriefingSeverity {
	if len(hazards) == 0 && len(reports) == 0 {
		return BriefingNone
	}
	worstHazard, worstReport := 0, 0
	for _, h := range hazards {
		worstHazard = max(worstHazard, h.rank)
	}
	for _, p := range reports {
		worstReport = max(worstReport, worstPirep(p))
	}
	switch {
	case worstHazard >= 5:
		return BriefingExtreme
	case worstHazard >= 4 || worstReport >= 3:
		return BriefingHigh
	case worstHazard >= 3 || worstReport >= 2:
		return BriefingModerate
	default:
		return BriefingLow
	}
}

func briefingSummary(sev BriefingSeverity, count int) *string {
	items := english.Plural(count, "item", "items")
	var s string
	switch sev {
	case BriefingExtreme:
		s = fmt.Sprintf("Extreme weather hazards in the area (%s); avoid the affected airspace.", items)
	case BriefingHigh:
		s = fmt.Sprintf("Significant hazards reported (%s); review routing and alternates.", items)
	case BriefingModerate:
		s = fmt.Sprintf("Moderate hazards reported (%s); expect some turbulence or icing.", items)
	case BriefingLow:
		s = fmt.Sprintf("Minor hazards noted (%s).", items)
	default:
		return nil
	}
	return &s
}
