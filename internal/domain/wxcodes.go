package domain

import (
	"regexp"
	"strings"
)

// wxTokenRe matches one METAR/TAF present-weather group, e.g. "-FZRA", "VCTS", "+TSRAGR".
var wxTokenRe = regexp.MustCompile(`^(\+|-|VC)?(MI|PR|BC|DR|BL|SH|TS|FZ)?((?:DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)*)$`)

// wxToken is a parsed present-weather group.
type wxToken struct {
	Intensity  string // "-", "+", "VC" or "" (moderate)
	Descriptor string
	Phenomena  []string
}

func (t wxToken) has(code string) bool {
	if t.Descriptor == code {
		return true
	}
	for _, p := range t.Phenomena {
		if p == code {
			return true
		}
	}
	return false
}

func (t wxToken) String() string {
	return t.Intensity + t.Descriptor + strings.Join(t.Phenomena, "")
}

// parseWeatherCodes extracts present-weather groups from a code string or a
// raw report. Parsing stops at the remarks section.
func parseWeatherCodes(s string) []wxToken {
	var tokens []wxToken
	for _, field := range strings.Fields(strings.ToUpper(s)) {
		if field == "RMK" {
			break
		}
		m := wxTokenRe.FindStringSubmatch(field)
		if m == nil || (m[2] == "" && m[3] == "") {
			continue
		}
		tok := wxToken{Intensity: m[1], Descriptor: m[2]}
		for i := 0; i+2 <= len(m[3]); i += 2 {
			tok.Phenomena = append(tok.Phenomena, m[3][i:i+2])
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// metarWeather returns the present-weather groups of a METAR, preferring the
// decoded code string and falling back to the raw text.
func metarWeather(m *Metar) []wxToken {
	if m == nil {
		return nil
	}
	if strings.TrimSpace(m.Weather) != "" {
		return parseWeatherCodes(m.Weather)
	}
	return parseWeatherCodes(m.Raw)
}

func anyWeather(tokens []wxToken, codes ...string) bool {
	for _, t := range tokens {
		for _, c := range codes {
			if t.has(c) {
				return true
			}
		}
	}
	return false
}
