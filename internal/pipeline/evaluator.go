package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
	"github.com/couchcryptid/flight-weather-risk/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// hazardRadiusNM limits area advisories to those centred near the airport.
// Advisories without a centroid are always kept.
const hazardRadiusNM = 300

// EvaluatorConfig sets how much data the evaluator asks the source for.
type EvaluatorConfig struct {
	MetarLookbackHours int
	PirepRadiusNM      int
}

// Evaluator gathers weather inputs for airports and runs the risk engine.
// A source that fails is logged and treated as missing; it never fails the
// evaluation.
type Evaluator struct {
	source  domain.WeatherSource
	tables  domain.WeightTables
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
	cfg     EvaluatorConfig
}

// NewEvaluator creates an Evaluator. A nil clock uses the real clock.
func NewEvaluator(source domain.WeatherSource, tables domain.WeightTables, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger, cfg EvaluatorConfig) *Evaluator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.MetarLookbackHours <= 0 {
		cfg.MetarLookbackHours = 3
	}
	if cfg.PirepRadiusNM <= 0 {
		cfg.PirepRadiusNM = 100
	}
	return &Evaluator{
		source:  source,
		tables:  tables,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Now returns the evaluator's current instant.
func (e *Evaluator) Now() time.Time {
	return e.clock.Now().UTC()
}

// EvaluateAirport scores icao for phase at the current instant.
func (e *Evaluator) EvaluateAirport(ctx context.Context, icao string, phase domain.Phase) (domain.AirportEvaluation, error) {
	icao, err := domain.NormalizeICAO(icao)
	if err != nil {
		return domain.AirportEvaluation{}, err
	}
	start := e.clock.Now()

	in, err := e.gather(ctx, icao)
	if err != nil {
		return domain.AirportEvaluation{}, err
	}

	result := domain.EvaluateAirport(in, phase, e.tables)
	var loc *domain.LatLon
	if in.Airport != nil {
		loc = in.Airport.Location
	}
	briefing := domain.BuildBriefing(domain.BriefingInput{
		Hazards:      in.Hazards,
		PilotReports: in.PilotReports,
		Airport:      loc,
		Now:          in.Now,
	})

	e.metrics.Evaluations.WithLabelValues(string(phase), string(result.Status)).Inc()
	e.metrics.EvaluationDuration.Observe(e.clock.Since(start).Seconds())
	e.logger.Debug("airport evaluated",
		"icao", icao,
		"phase", phase,
		"status", result.Status,
		"raw_score", result.RawScore,
		"confidence", result.Confidence,
	)

	return domain.AirportEvaluation{
		ICAO:        icao,
		Phase:       phase,
		EvaluatedAt: in.Now,
		Result:      result,
		Briefing:    briefing,
		Inputs:      in,
	}, nil
}

// EvaluateFlight resolves the flight's phase and evaluates both airports
// concurrently.
func (e *Evaluator) EvaluateFlight(ctx context.Context, f domain.Flight) (domain.FlightRiskAssessment, error) {
	now := e.Now()
	phase := domain.ResolvePhase(f.Schedule(), now)

	var origin, dest domain.AirportEvaluation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		origin, err = e.EvaluateAirport(gctx, f.Origin, phase)
		if err != nil {
			return fmt.Errorf("origin %s: %w", f.Origin, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		dest, err = e.EvaluateAirport(gctx, f.Destination, phase)
		if err != nil {
			return fmt.Errorf("destination %s: %w", f.Destination, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.FlightRiskAssessment{}, err
	}

	return domain.NewFlightRiskAssessment(f, origin, dest, phase, e.tables, now), nil
}

// gather fetches every input for icao concurrently. Only context
// cancellation is returned as an error.
func (e *Evaluator) gather(ctx context.Context, icao string) (domain.RiskInputs, error) {
	in := domain.RiskInputs{ICAO: icao, Now: e.Now()}

	var (
		metars  []domain.Metar
		hazards []domain.HazardFeature
	)
	var g errgroup.Group
	g.Go(func() error {
		m, err := e.source.LatestMetars(ctx, icao, e.cfg.MetarLookbackHours)
		if e.usable(ctx, "metar", icao, err) {
			metars = m
		}
		return nil
	})
	g.Go(func() error {
		t, err := e.source.Taf(ctx, icao)
		if e.usable(ctx, "taf", icao, err) {
			in.Taf = t
		}
		return nil
	})
	g.Go(func() error {
		a, err := e.source.Airport(ctx, icao)
		if e.usable(ctx, "airport", icao, err) {
			in.Airport = a
		}
		return nil
	})
	g.Go(func() error {
		h, err := e.source.Hazards(ctx)
		if e.usable(ctx, "hazards", icao, err) {
			hazards = h
		}
		return nil
	})
	g.Go(func() error {
		p, err := e.source.PilotReports(ctx, icao, e.cfg.PirepRadiusNM)
		if e.usable(ctx, "pireps", icao, err) {
			in.PilotReports = p
		}
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.RiskInputs{}, err
	}

	in.Metar, in.PreviousMetar = currentAndPrevious(metars)
	in.Hazards = nearbyHazards(hazards, in.Airport)
	return in, nil
}

// usable reports whether a source result may be used. A failed source
// contributes nothing, even if it returned partial data.
func (e *Evaluator) usable(ctx context.Context, source, icao string, err error) bool {
	if err == nil {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	e.metrics.DegradedInputs.WithLabelValues(source).Inc()
	e.logger.Warn("weather source unavailable, continuing without it",
		"source", source,
		"icao", icao,
		"error", err,
	)
	return false
}

// currentAndPrevious picks the newest observation and the newest one before
// it. Input order is not trusted.
func currentAndPrevious(metars []domain.Metar) (*domain.Metar, *domain.Metar) {
	var cur, prev *domain.Metar
	for i := range metars {
		m := &metars[i]
		switch {
		case cur == nil || m.Observed.After(cur.Observed):
			prev, cur = cur, m
		case m.Observed.Before(cur.Observed) && (prev == nil || m.Observed.After(prev.Observed)):
			prev = m
		}
	}
	return cur, prev
}

func nearbyHazards(hazards []domain.HazardFeature, ap *domain.Airport) []domain.HazardFeature {
	if ap == nil || ap.Location == nil {
		return hazards
	}
	out := make([]domain.HazardFeature, 0, len(hazards))
	for _, h := range hazards {
		if h.Centroid == nil || domain.DistanceNM(*ap.Location, *h.Centroid) <= hazardRadiusNM {
			out = append(out, h)
		}
	}
	return out
}
