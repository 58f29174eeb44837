package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// icaoRe matches a four-character ICAO location indicator.
var icaoRe = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)

// NormalizeICAO upper-cases and validates an airport identifier.
func NormalizeICAO(s string) (string, error) {
	icao := strings.ToUpper(strings.TrimSpace(s))
	if !icaoRe.MatchString(icao) {
		return "", fmt.Errorf("invalid ICAO code %q", s)
	}
	return icao, nil
}

// ParseFlightEvent deserializes a RawEvent's value into a Flight and
// normalizes its airport codes.
func ParseFlightEvent(raw RawEvent) (Flight, error) {
	var f Flight
	if err := json.Unmarshal(raw.Value, &f); err != nil {
		return Flight{}, fmt.Errorf("parse flight event: %w", err)
	}
	return NormalizeFlight(f)
}

// NormalizeFlight validates airport codes and schedule ordering. A missing ID
// is replaced with a random one.
func NormalizeFlight(f Flight) (Flight, error) {
	var err error
	if f.Origin, err = NormalizeICAO(f.Origin); err != nil {
		return Flight{}, fmt.Errorf("origin: %w", err)
	}
	if f.Destination, err = NormalizeICAO(f.Destination); err != nil {
		return Flight{}, fmt.Errorf("destination: %w", err)
	}
	if f.ScheduledDeparture != nil && f.ScheduledArrival != nil && f.ScheduledArrival.Before(*f.ScheduledDeparture) {
		return Flight{}, errors.New("scheduled arrival precedes departure")
	}
	if strings.TrimSpace(f.ID) == "" {
		f.ID = uuid.NewString()
	}
	return f, nil
}

// NewFlightRiskAssessment combines the two airport evaluations of a flight.
func NewFlightRiskAssessment(f Flight, origin, dest AirportEvaluation, phase Phase, tables WeightTables, now time.Time) FlightRiskAssessment {
	return FlightRiskAssessment{
		ID:                  uuid.NewString(),
		FlightID:            f.ID,
		FlightNumber:        f.FlightNumber,
		Phase:               phase,
		Risk:                CombineFlightRisk(origin.Result, dest.Result, phase, tables),
		OriginBriefing:      origin.Briefing,
		DestinationBriefing: dest.Briefing,
		EvaluatedAt:         now.UTC(),
	}
}
