package awc

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flight-weather-risk/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func jsonServer(t *testing.T, path, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		if check != nil {
			check(r)
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LatestMetars(t *testing.T) {
	body := `[
	  {"icaoId":"KDEN","obsTime":1772362800,"temp":-2.2,"dewp":-3.9,"wdir":"VRB","wspd":4,"wgst":null,"visib":"1 1/2",
	   "wxString":"-SN BR","rawOb":"KDEN 011100Z VRB04KT 1 1/2SM R16L/2400V4000FT -SN BR OVC008 M02/M04 A2990",
	   "clouds":[{"cover":"OVC","base":800}]},
	  {"icaoId":"KDEN","obsTime":1772366400,"temp":-1.7,"dewp":-3.3,"wdir":20,"wspd":12,"wgst":22,"visib":"10+",
	   "wxString":null,"rawOb":"KDEN 011200Z 02012G22KT 10SM BKN025 M02/M03 A2991","clouds":[{"cover":"BKN","base":2500}]}
	]`
	srv := jsonServer(t, "/metar", body, func(r *http.Request) {
		assert.Equal(t, "KDEN", r.URL.Query().Get("ids"))
		assert.Equal(t, "3", r.URL.Query().Get("hours"))
	})

	metars, err := testClient(srv.URL).LatestMetars(context.Background(), "KDEN", 3)
	require.NoError(t, err)
	require.Len(t, metars, 2)

	latest := metars[0]
	assert.Equal(t, time.Unix(1772366400, 0).UTC(), latest.Observed)
	require.NotNil(t, latest.WindDirDeg)
	assert.Equal(t, 20, *latest.WindDirDeg)
	require.NotNil(t, latest.WindGustKt)
	assert.Equal(t, 22, *latest.WindGustKt)
	require.NotNil(t, latest.VisibilitySM)
	assert.Equal(t, 10.0, *latest.VisibilitySM)
	assert.Nil(t, latest.RVRFt)

	prev := metars[1]
	assert.Nil(t, prev.WindDirDeg, "VRB decodes as no direction")
	assert.Equal(t, 1.5, *prev.VisibilitySM)
	require.NotNil(t, prev.RVRFt)
	assert.Equal(t, 2400, *prev.RVRFt)
	require.Len(t, prev.Clouds, 1)
	assert.Equal(t, 800, *prev.Clouds[0].BaseFt)
	assert.Equal(t, "-SN BR", prev.Weather)
}

func TestClient_Taf(t *testing.T) {
	body := `[{"icaoId":"KORD","issueTime":"2026-03-01T11:20:00.000Z","rawTAF":"TAF KORD ...",
	  "fcsts":[
	    {"timeFrom":1772366400,"timeTo":1772380800,"fcstChange":null,"wspd":10,"visib":"6+","wxString":null,"clouds":[{"cover":"SCT","base":4000}]},
	    {"timeFrom":1772370000,"timeTo":1772377200,"fcstChange":"TEMPO","visib":2,"wxString":"TSRA","clouds":[{"cover":"BKN","base":1500,"type":"CB"}]}
	  ]}]`
	srv := jsonServer(t, "/taf", body, nil)

	taf, err := testClient(srv.URL).Taf(context.Background(), "KORD")
	require.NoError(t, err)
	require.NotNil(t, taf)

	assert.Equal(t, time.Date(2026, 3, 1, 11, 20, 0, 0, time.UTC), taf.Issued)
	require.Len(t, taf.Forecasts, 2)
	assert.Equal(t, "", taf.Forecasts[0].Change)
	assert.Equal(t, 6.0, *taf.Forecasts[0].VisibilitySM)
	assert.Equal(t, "TEMPO", taf.Forecasts[1].Change)
	assert.Equal(t, "TSRA", taf.Forecasts[1].Weather)
	assert.Equal(t, "CB", taf.Forecasts[1].Clouds[0].Type)
}

func TestClient_Taf_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	taf, err := testClient(srv.URL).Taf(context.Background(), "KXYZ")
	require.NoError(t, err)
	assert.Nil(t, taf)
}

func TestClient_Airport(t *testing.T) {
	body := `[{"icaoId":"KDEN","name":"DENVER INTL","lat":39.8617,"lon":-104.6731,"elev":1656,
	  "runways":[{"id":"16L/34R","alignment":"173"},{"id":"08/26"},{"id":"H1"}]}]`
	srv := jsonServer(t, "/airport", body, nil)

	ap, err := testClient(srv.URL).Airport(context.Background(), "KDEN")
	require.NoError(t, err)
	require.NotNil(t, ap)

	assert.Equal(t, "DENVER INTL", ap.Name)
	require.NotNil(t, ap.Location)
	assert.Equal(t, 39.8617, ap.Location.Lat)
	assert.Equal(t, 5433, *ap.ElevationFt)
	assert.Equal(t, []float64{173, 80}, ap.RunwayHeadings)
}

func TestClient_Hazards(t *testing.T) {
	body := `[{"airSigmetId":12345,"airSigmetType":"AIRMET","hazard":"TURB","severity":0,
	  "altitudeLow1":18000,"altitudeHi1":25000,"validTimeFrom":1772359200,"validTimeTo":1772380800,
	  "coords":[{"lat":40,"lon":-101},{"lat":41,"lon":-101},{"lat":41,"lon":-99},{"lat":40,"lon":-99}]},
	  {"airSigmetType":"SIGMET","hazard":"CONVECTIVE","severity":5}]`
	srv := jsonServer(t, "/airsigmet", body, nil)

	hazards, err := testClient(srv.URL).Hazards(context.Background())
	require.NoError(t, err)
	require.Len(t, hazards, 2)

	turb := hazards[0]
	assert.Equal(t, "12345", turb.ID)
	assert.Equal(t, "turbulence", turb.Hazard)
	assert.Equal(t, "moderate", turb.Severity)
	assert.Equal(t, 18000, *turb.AltitudeLowFt)
	require.NotNil(t, turb.Centroid)
	assert.InDelta(t, 40.5, turb.Centroid.Lat, 1e-9)
	assert.InDelta(t, -100, turb.Centroid.Lon, 1e-9)
	require.NotNil(t, turb.ValidTo)

	assert.Equal(t, "extreme", hazards[1].Severity)
	assert.Nil(t, hazards[1].ValidFrom)
	assert.Nil(t, hazards[1].Centroid)
}

func TestClient_PilotReports(t *testing.T) {
	body := `[{"pirepId":"abc","obsTime":1772364000,"acType":"B738","lat":39.9,"lon":-104.5,"fltLvl":120,"tbInt1":"MOD","icgInt1":"LGT"},
	  {"obsTime":1772364600,"acType":"C172","fltLvl":"DURD","tbInt1":"LGT"}]`
	srv := jsonServer(t, "/pirep", body, func(r *http.Request) {
		assert.Equal(t, "KDEN", r.URL.Query().Get("id"))
		assert.Equal(t, "100", r.URL.Query().Get("distance"))
	})

	reports, err := testClient(srv.URL).PilotReports(context.Background(), "KDEN", 100)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, 12000, *reports[0].AltitudeFt)
	assert.Equal(t, "MOD", reports[0].Turbulence)
	assert.Equal(t, "LGT", reports[0].Icing)
	require.NotNil(t, reports[0].Location)
	assert.Nil(t, reports[1].AltitudeFt)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid ids"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).LatestMetars(context.Background(), "???", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestClient_DecodeError(t *testing.T) {
	srv := jsonServer(t, "/taf", `{not json`, nil)

	_, err := testClient(srv.URL).Taf(context.Background(), "KDEN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode taf response")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Hazards(context.Background())
	require.Error(t, err)
}

func TestParseQuantity(t *testing.T) {
	tests := map[string]float64{
		"10":    10,
		"10+":   10,
		"P6":    6,
		"1/2":   0.5,
		"M1/4":  0.25,
		"1 1/2": 1.5,
		"3SM":   3,
	}
	for in, want := range tests {
		got, ok := parseQuantity(in)
		assert.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	_, ok := parseQuantity("VRB")
	assert.False(t, ok)
}
