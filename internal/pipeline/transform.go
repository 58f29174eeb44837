package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
)

// FlightEvaluator scores a normalized flight.
type FlightEvaluator interface {
	EvaluateFlight(ctx context.Context, f domain.Flight) (domain.FlightRiskAssessment, error)
}

// FlightTransformer implements Transformer by decoding a flight schedule
// event and evaluating both of its airports.
type FlightTransformer struct {
	evaluator FlightEvaluator
	logger    *slog.Logger
}

// NewTransformer creates a FlightTransformer.
func NewTransformer(evaluator FlightEvaluator, logger *slog.Logger) *FlightTransformer {
	return &FlightTransformer{
		evaluator: evaluator,
		logger:    logger,
	}
}

func (t *FlightTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.FlightRiskAssessment, error) {
	f, err := domain.ParseFlightEvent(raw)
	if err != nil {
		return domain.FlightRiskAssessment{}, err
	}

	a, err := t.evaluator.EvaluateFlight(ctx, f)
	if err != nil {
		return domain.FlightRiskAssessment{}, err
	}

	t.logger.Debug("flight evaluated",
		"flight_id", f.ID,
		"origin", f.Origin,
		"destination", f.Destination,
		"phase", a.Phase,
		"status", a.Risk.Status,
	)
	return a, nil
}
