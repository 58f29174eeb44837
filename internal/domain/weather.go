package domain

import (
	"strings"
	"time"
)

// CloudLayer is one decoded sky-condition group, e.g. BKN015 → {Cover: "BKN", BaseFt: 1500}.
type CloudLayer struct {
	Cover  string `json:"cover"`             // SKC, CLR, FEW, SCT, BKN, OVC, VV
	BaseFt *int   `json:"base_ft,omitempty"` // feet AGL; nil for CLR/SKC
	Type   string `json:"type,omitempty"`    // CB or TCU when reported
}

// Metar is a decoded surface observation. Any field may be absent.
type Metar struct {
	ICAO         string       `json:"icao"`
	Observed     time.Time    `json:"observed"`
	Raw          string       `json:"raw,omitempty"`
	TempC        *float64     `json:"temp_c,omitempty"`
	DewpointC    *float64     `json:"dewpoint_c,omitempty"`
	WindDirDeg   *int         `json:"wind_dir_deg,omitempty"` // nil when variable or unknown
	WindSpeedKt  *int         `json:"wind_speed_kt,omitempty"`
	WindGustKt   *int         `json:"wind_gust_kt,omitempty"`
	VisibilitySM *float64     `json:"visibility_sm,omitempty"`
	RVRFt        *int         `json:"rvr_ft,omitempty"`
	Weather      string       `json:"weather,omitempty"` // present-weather codes, e.g. "-FZRA BR"
	Clouds       []CloudLayer `json:"clouds,omitempty"`  // nil when the sky group was not reported
}

// TafPeriod is one forecast group of a TAF (base, FM, BECMG, TEMPO or PROB).
type TafPeriod struct {
	From         time.Time    `json:"from"`
	To           time.Time    `json:"to"`
	Change       string       `json:"change,omitempty"`
	WindSpeedKt  *int         `json:"wind_speed_kt,omitempty"`
	WindGustKt   *int         `json:"wind_gust_kt,omitempty"`
	VisibilitySM *float64     `json:"visibility_sm,omitempty"`
	Weather      string       `json:"weather,omitempty"`
	Clouds       []CloudLayer `json:"clouds,omitempty"`
}

// Taf is a decoded terminal aerodrome forecast.
type Taf struct {
	ICAO      string      `json:"icao"`
	Issued    time.Time   `json:"issued"`
	Raw       string      `json:"raw,omitempty"`
	Forecasts []TafPeriod `json:"forecasts,omitempty"`
}

// LatLon is a WGS-84 coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Airport holds the reference data the engine can use when it is known.
type Airport struct {
	ICAO           string    `json:"icao"`
	Name           string    `json:"name,omitempty"`
	Location       *LatLon   `json:"location,omitempty"`
	ElevationFt    *int      `json:"elevation_ft,omitempty"`
	RunwayHeadings []float64 `json:"runway_headings,omitempty"` // magnetic/true headings in degrees
}

// HazardFeature is an area advisory such as a SIGMET, AIRMET or CWA.
type HazardFeature struct {
	ID             string     `json:"id,omitempty"`
	Kind           string     `json:"kind,omitempty"`   // SIGMET, AIRMET, CWA, ...
	Hazard         string     `json:"hazard,omitempty"` // turbulence, icing, convective, ...
	Severity       string     `json:"severity,omitempty"`
	AltitudeLowFt  *int       `json:"altitude_low_ft,omitempty"`
	AltitudeHighFt *int       `json:"altitude_high_ft,omitempty"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidTo        *time.Time `json:"valid_to,omitempty"`
	Centroid       *LatLon    `json:"centroid,omitempty"`
}

// TypeName is the normalized grouping key of a hazard.
func (h HazardFeature) TypeName() string {
	name := h.Hazard
	if strings.TrimSpace(name) == "" {
		name = h.Kind
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidAt reports whether the validity window, if any, contains t.
func (h HazardFeature) ValidAt(t time.Time) bool {
	if h.ValidFrom != nil && t.Before(*h.ValidFrom) {
		return false
	}
	if h.ValidTo != nil && t.After(*h.ValidTo) {
		return false
	}
	return true
}

// PilotReport is a decoded PIREP.
type PilotReport struct {
	ID           string    `json:"id,omitempty"`
	Observed     time.Time `json:"observed,omitempty"`
	AircraftType string    `json:"aircraft_type,omitempty"`
	AltitudeFt   *int      `json:"altitude_ft,omitempty"`
	Turbulence   string    `json:"turbulence,omitempty"` // NEG, LGT, MOD, SEV, EXTM or spelled out
	Icing        string    `json:"icing,omitempty"`
	Location     *LatLon   `json:"location,omitempty"`
}

// RiskInputs is everything a single airport evaluation looks at. It is built
// once per evaluation and passed by value.
type RiskInputs struct {
	ICAO          string          `json:"icao"`
	Metar         *Metar          `json:"metar,omitempty"`
	PreviousMetar *Metar          `json:"previous_metar,omitempty"`
	Taf           *Taf            `json:"taf,omitempty"`
	Airport       *Airport        `json:"airport,omitempty"`
	Now           time.Time       `json:"now"`
	Hazards       []HazardFeature `json:"hazards,omitempty"`
	PilotReports  []PilotReport   `json:"pilot_reports,omitempty"`
}

// DatasetsAvailable counts the core datasets (METAR, TAF) present.
func (in RiskInputs) DatasetsAvailable() int {
	n := 0
	if in.Metar != nil {
		n++
	}
	if in.Taf != nil {
		n++
	}
	return n
}

// DataAgeHours is the age of the newer of the METAR observation and TAF
// issue time. With neither present the data is treated as maximally stale.
func (in RiskInputs) DataAgeHours() float64 {
	var newest time.Time
	if in.Metar != nil && !in.Metar.Observed.IsZero() {
		newest = in.Metar.Observed
	}
	if in.Taf != nil && in.Taf.Issued.After(newest) {
		newest = in.Taf.Issued
	}
	if newest.IsZero() {
		return MissingDataAgeHours
	}
	age := in.Now.Sub(newest).Hours()
	if age < 0 {
		return 0
	}
	return age
}

// Ceiling returns the lowest broken, overcast or vertical-visibility base.
func Ceiling(layers []CloudLayer) (int, bool) {
	lowest, found := 0, false
	for _, l := range layers {
		switch strings.ToUpper(l.Cover) {
		case "BKN", "OVC", "VV", "OVX":
		default:
			continue
		}
		if l.BaseFt == nil {
			continue
		}
		if !found || *l.BaseFt < lowest {
			lowest, found = *l.BaseFt, true
		}
	}
	return lowest, found
}

func hasCoverage(layers []CloudLayer, covers ...string) bool {
	for _, l := range layers {
		for _, c := range covers {
			if strings.EqualFold(l.Cover, c) {
				return true
			}
		}
	}
	return false
}

func hasConvectiveCloud(m *Metar) bool {
	for _, l := range m.Clouds {
		t := strings.ToUpper(l.Type)
		if t == "CB" || t == "TCU" {
			return true
		}
	}
	raw := strings.ToUpper(m.Raw)
	for _, tok := range strings.Fields(raw) {
		if strings.HasSuffix(tok, "CB") || strings.HasSuffix(tok, "TCU") {
			if len(tok) > 3 && (strings.HasPrefix(tok, "FEW") || strings.HasPrefix(tok, "SCT") ||
				strings.HasPrefix(tok, "BKN") || strings.HasPrefix(tok, "OVC")) {
				return true
			}
		}
	}
	return false
}
