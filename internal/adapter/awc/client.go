package awc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	"github.com/couchcryptid/flight-weather-risk/internal/observability"
)

// Client implements domain.WeatherSource using the aviationweather.gov Data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Aviation Weather Center API client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// LatestMetars returns observations from the last hours, newest first.
func (c *Client) LatestMetars(ctx context.Context, icao string, hours int) ([]domain.Metar, error) {
	params := url.Values{
		"ids":    {icao},
		"format": {"json"},
		"hours":  {strconv.Itoa(hours)},
	}
	var resp []metarJSON
	if err := c.get(ctx, "metar", "/metar", params, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Metar, 0, len(resp))
	for _, m := range resp {
		out = append(out, m.toDomain())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Observed.After(out[j].Observed) })
	return out, nil
}

// Taf returns the most recently issued forecast, or nil when none exists.
func (c *Client) Taf(ctx context.Context, icao string) (*domain.Taf, error) {
	params := url.Values{"ids": {icao}, "format": {"json"}}
	var resp []tafJSON
	if err := c.get(ctx, "taf", "/taf", params, &resp); err != nil {
		return nil, err
	}

	var latest *domain.Taf
	for _, t := range resp {
		taf := t.toDomain()
		if latest == nil || taf.Issued.After(latest.Issued) {
			latest = &taf
		}
	}
	return latest, nil
}

// Airport returns reference data, or nil when the airport is unknown.
func (c *Client) Airport(ctx context.Context, icao string) (*domain.Airport, error) {
	params := url.Values{"ids": {icao}, "format": {"json"}}
	var resp []airportJSON
	if err := c.get(ctx, "airport", "/airport", params, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, nil
	}
	ap := resp[0].toDomain()
	return &ap, nil
}

// Hazards returns SIGMETs and AIRMETs currently in effect.
func (c *Client) Hazards(ctx context.Context) ([]domain.HazardFeature, error) {
	params := url.Values{"format": {"json"}}
	var resp []airSigmetJSON
	if err := c.get(ctx, "hazards", "/airsigmet", params, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.HazardFeature, 0, len(resp))
	for _, h := range resp {
		out = append(out, h.toDomain())
	}
	return out, nil
}

// PilotReports returns PIREPs within radiusNM of the airport.
func (c *Client) PilotReports(ctx context.Context, icao string, radiusNM int) ([]domain.PilotReport, error) {
	params := url.Values{
		"id":       {icao},
		"distance": {strconv.Itoa(radiusNM)},
		"format":   {"json"},
	}
	var resp []pirepJSON
	if err := c.get(ctx, "pireps", "/pirep", params, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.PilotReport, 0, len(resp))
	for _, p := range resp {
		out = append(out, p.toDomain())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, source, path string, params url.Values, into any) error {
	fullURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.WeatherAPIDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherFetches.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("%s request: %w", source, err)
	}
	defer resp.Body.Close()

	// The API answers 204 when nothing matches the query.
	if resp.StatusCode == http.StatusNoContent {
		c.metrics.WeatherFetches.WithLabelValues(source, "empty").Inc()
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.WeatherFetches.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("aviationweather API error: %s: status %d: %s", source, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		c.metrics.WeatherFetches.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("decode %s response: %w", source, err)
	}
	c.metrics.WeatherFetches.WithLabelValues(source, "success").Inc()
	c.logger.Debug("weather fetched", "source", source, "url", fullURL)
	return nil
}
