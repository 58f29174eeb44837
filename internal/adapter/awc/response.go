package awc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
)

// Aviation Weather Center API response types.

// flexNumber accepts a JSON number or a string such as "10+", "1 1/2",
// "M1/4" or "VRB". Anything unparseable is treated as absent.
type flexNumber struct {
	v *float64
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		return nil
	}
	if f, ok := parseQuantity(s); ok {
		n.v = &f
	}
	return nil
}

func (n flexNumber) floatPtr() *float64 { return n.v }

func (n flexNumber) intPtr() *int {
	if n.v == nil {
		return nil
	}
	i := int(math.Round(*n.v))
	return &i
}

// parseQuantity reads "10", "10+", "P6", "M1/4", "1/2" and "1 1/2".
func parseQuantity(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(s, "P"), "M"), "+")
	s = strings.TrimSuffix(s, "SM")
	whole := 0.0
	if i := strings.IndexByte(s, ' '); i > 0 {
		w, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, false
		}
		whole, s = w, s[i+1:]
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, err1 := strconv.ParseFloat(num, 64)
		b, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || b == 0 {
			return 0, false
		}
		return whole + a/b, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return whole + f, true
}

// unixTime is seconds since the epoch.
type unixTime int64

func (u unixTime) utc() time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(int64(u), 0).UTC()
}

func (u *unixTime) ptr() *time.Time {
	if u == nil || *u == 0 {
		return nil
	}
	t := u.utc()
	return &t
}

// parseIssueTime reads the TAF issue time, which the API renders as an ISO
// timestamp with or without the "T" separator.
func parseIssueTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

type cloudJSON struct {
	Cover string     `json:"cover"`
	Base  flexNumber `json:"base"`
	Type  string     `json:"type"`
}

func toLayers(clouds []cloudJSON) []domain.CloudLayer {
	if clouds == nil {
		return nil
	}
	out := make([]domain.CloudLayer, 0, len(clouds))
	for _, c := range clouds {
		out = append(out, domain.CloudLayer{Cover: c.Cover, BaseFt: c.Base.intPtr(), Type: c.Type})
	}
	return out
}

type metarJSON struct {
	ICAO     string      `json:"icaoId"`
	ObsTime  unixTime    `json:"obsTime"`
	Temp     flexNumber  `json:"temp"`
	Dewpoint flexNumber  `json:"dewp"`
	WindDir  flexNumber  `json:"wdir"`
	WindSpd  flexNumber  `json:"wspd"`
	WindGust flexNumber  `json:"wgst"`
	Visib    flexNumber  `json:"visib"`
	WxString string      `json:"wxString"`
	RawOb    string      `json:"rawOb"`
	Clouds   []cloudJSON `json:"clouds"`
}

// rvrRe matches runway visual range groups such as R16L/0600FT or R28/P6000FT.
var rvrRe = regexp.MustCompile(`\bR\d{2}[LCR]?/[PM]?(\d{4})(?:V[PM]?\d{4})?(?:FT)?`)

// lowestRVR extracts the smallest reported runway visual range from raw text.
func lowestRVR(raw string) *int {
	var lowest *int
	for _, m := range rvrRe.FindAllStringSubmatch(raw, -1) {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if lowest == nil || v < *lowest {
			lowest = &v
		}
	}
	return lowest
}

func (m metarJSON) toDomain() domain.Metar {
	return domain.Metar{
		ICAO:         m.ICAO,
		Observed:     m.ObsTime.utc(),
		Raw:          m.RawOb,
		TempC:        m.Temp.floatPtr(),
		DewpointC:    m.Dewpoint.floatPtr(),
		WindDirDeg:   m.WindDir.intPtr(),
		WindSpeedKt:  m.WindSpd.intPtr(),
		WindGustKt:   m.WindGust.intPtr(),
		VisibilitySM: m.Visib.floatPtr(),
		RVRFt:        lowestRVR(m.RawOb),
		Weather:      m.WxString,
		Clouds:       toLayers(m.Clouds),
	}
}

type tafForecastJSON struct {
	TimeFrom   unixTime    `json:"timeFrom"`
	TimeTo     unixTime    `json:"timeTo"`
	FcstChange *string     `json:"fcstChange"`
	WindSpd    flexNumber  `json:"wspd"`
	WindGust   flexNumber  `json:"wgst"`
	Visib      flexNumber  `json:"visib"`
	WxString   string      `json:"wxString"`
	Clouds     []cloudJSON `json:"clouds"`
}

type tafJSON struct {
	ICAO      string            `json:"icaoId"`
	IssueTime string            `json:"issueTime"`
	RawTAF    string            `json:"rawTAF"`
	Forecasts []tafForecastJSON `json:"fcsts"`
}

func (t tafJSON) toDomain() domain.Taf {
	taf := domain.Taf{
		ICAO:   t.ICAO,
		Issued: parseIssueTime(t.IssueTime),
		Raw:    t.RawTAF,
	}
	for _, f := range t.Forecasts {
		p := domain.TafPeriod{
			From:         f.TimeFrom.utc(),
			To:           f.TimeTo.utc(),
			WindSpeedKt:  f.WindSpd.intPtr(),
			WindGustKt:   f.WindGust.intPtr(),
			VisibilitySM: f.Visib.floatPtr(),
			Weather:      f.WxString,
			Clouds:       toLayers(f.Clouds),
		}
		if f.FcstChange != nil {
			p.Change = *f.FcstChange
		}
		taf.Forecasts = append(taf.Forecasts, p)
	}
	return taf
}

type runwayJSON struct {
	ID        string     `json:"id"`
	Alignment flexNumber `json:"alignment"`
}

type airportJSON struct {
	ICAO    string       `json:"icaoId"`
	Name    string       `json:"name"`
	Lat     flexNumber   `json:"lat"`
	Lon     flexNumber   `json:"lon"`
	Elev    flexNumber   `json:"elev"` // metres
	Runways []runwayJSON `json:"runways"`
}

const feetPerMetre = 3.28084

func (a airportJSON) toDomain() domain.Airport {
	ap := domain.Airport{ICAO: a.ICAO, Name: a.Name}
	if a.Lat.v != nil && a.Lon.v != nil {
		ap.Location = &domain.LatLon{Lat: *a.Lat.v, Lon: *a.Lon.v}
	}
	if a.Elev.v != nil {
		ft := int(math.Round(*a.Elev.v * feetPerMetre))
		ap.ElevationFt = &ft
	}
	for _, r := range a.Runways {
		if h, ok := runwayHeading(r); ok {
			ap.RunwayHeadings = append(ap.RunwayHeadings, h)
		}
	}
	return ap
}

// runwayHeading prefers the published alignment and falls back to the
// runway designator, e.g. "16L/34R" → 160°. Helipads have neither.
func runwayHeading(r runwayJSON) (float64, bool) {
	if r.Alignment.v != nil {
		return *r.Alignment.v, true
	}
	end, _, _ := strings.Cut(r.ID, "/")
	end = strings.TrimRight(end, "LCR")
	n, err := strconv.Atoi(end)
	if err != nil || n < 1 || n > 36 {
		return 0, false
	}
	return float64(n * 10), true
}

type coordJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type airSigmetJSON struct {
	ID            any         `json:"airSigmetId"`
	Type          string      `json:"airSigmetType"`
	Hazard        string      `json:"hazard"`
	Severity      flexNumber  `json:"severity"`
	AltitudeLow   flexNumber  `json:"altitudeLow1"`
	AltitudeHigh  flexNumber  `json:"altitudeHi1"`
	ValidTimeFrom *unixTime   `json:"validTimeFrom"`
	ValidTimeTo   *unixTime   `json:"validTimeTo"`
	Coords        []coordJSON `json:"coords"`
}

// hazardNames expands the API's hazard abbreviations.
var hazardNames = map[string]string{
	"TURB":       "turbulence",
	"ICE":        "icing",
	"IFR":        "IFR",
	"MTN OBSCN":  "mountain obscuration",
	"CONVECTIVE": "convective",
	"ASH":        "volcanic ash",
	"TS":         "thunderstorm",
}

func (h airSigmetJSON) toDomain() domain.HazardFeature {
	name := strings.TrimSpace(h.Hazard)
	if full, ok := hazardNames[strings.ToUpper(name)]; ok {
		name = full
	}
	f := domain.HazardFeature{
		Kind:           strings.ToUpper(h.Type),
		Hazard:         name,
		Severity:       hazardSeverity(h.Type, h.Severity.intPtr()),
		AltitudeLowFt:  h.AltitudeLow.intPtr(),
		AltitudeHighFt: h.AltitudeHigh.intPtr(),
		ValidFrom:      h.ValidTimeFrom.ptr(),
		ValidTo:        h.ValidTimeTo.ptr(),
		Centroid:       centroid(h.Coords),
	}
	if h.ID != nil {
		f.ID = strconvAny(h.ID)
	}
	return f
}

// hazardSeverity maps the numeric advisory severity to a label. Without a
// number, SIGMETs are treated as high and AIRMETs as moderate.
func hazardSeverity(kind string, sev *int) string {
	if sev == nil || *sev <= 0 {
		switch strings.ToUpper(kind) {
		case "SIGMET":
			return "high"
		case "AIRMET":
			return "moderate"
		default:
			return ""
		}
	}
	switch {
	case *sev >= 5:
		return "extreme"
	case *sev >= 4:
		return "high"
	case *sev >= 2:
		return "moderate"
	default:
		return "low"
	}
}

func centroid(coords []coordJSON) *domain.LatLon {
	if len(coords) == 0 {
		return nil
	}
	var lat, lon float64
	for _, c := range coords {
		lat += c.Lat
		lon += c.Lon
	}
	n := float64(len(coords))
	return &domain.LatLon{Lat: lat / n, Lon: lon / n}
}

func strconvAny(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

type pirepJSON struct {
	ID           any        `json:"pirepId"`
	ObsTime      unixTime   `json:"obsTime"`
	AircraftType string     `json:"acType"`
	Lat          flexNumber `json:"lat"`
	Lon          flexNumber `json:"lon"`
	FlightLevel  flexNumber `json:"fltLvl"` // hundreds of feet
	Turbulence   string     `json:"tbInt1"`
	Icing        string     `json:"icgInt1"`
}

func (p pirepJSON) toDomain() domain.PilotReport {
	r := domain.PilotReport{
		ID:           strconvAny(p.ID),
		Observed:     p.ObsTime.utc(),
		AircraftType: p.AircraftType,
		Turbulence:   p.Turbulence,
		Icing:        p.Icing,
	}
	if fl := p.FlightLevel.intPtr(); fl != nil {
		ft := *fl * 100
		r.AltitudeFt = &ft
	}
	if p.Lat.v != nil && p.Lon.v != nil {
		r.Location = &domain.LatLon{Lat: *p.Lat.v, Lon: *p.Lon.v}
	}
	return r
}
