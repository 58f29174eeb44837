package domain

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the operational stage of a flight relative to its schedule.
type Phase string

const (
	PhasePreflight Phase = "preflight"
	PhasePlanning  Phase = "planning"
	PhaseDeparture Phase = "departure"
	PhaseEnroute   Phase = "enroute"
	PhaseArrival   Phase = "arrival"
)

// Phases lists every phase in schedule order.
var Phases = []Phase{PhasePreflight, PhasePlanning, PhaseDeparture, PhaseEnroute, PhaseArrival}

// DepartureWindow is the half-width of the departure phase around the
// scheduled departure time.
const DepartureWindow = time.Hour

// planningHorizon is how far ahead of departure planning begins.
const planningHorizon = 24 * time.Hour

// ParsePhase accepts a phase name in any case.
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Phases {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown flight phase %q", s)
}

// Schedule holds the optional scheduled times of a flight.
type Schedule struct {
	Departure *time.Time `json:"departure,omitempty"`
	Arrival   *time.Time `json:"arrival,omitempty"`
}

// ResolvePhase derives the phase from the schedule and an explicit now.
//
//	no departure                 preflight
//	now after arrival            arrival
//	within ±1h of departure      departure
//	more than 24h before dep.    preflight
//	before departure             planning
//	otherwise                    enroute
func ResolvePhase(s Schedule, now time.Time) Phase {
	if s.Departure == nil {
		return PhasePreflight
	}
	dep := *s.Departure
	if s.Arrival != nil && now.After(*s.Arrival) {
		return PhaseArrival
	}
	if d := now.Sub(dep); d >= -DepartureWindow && d <= DepartureWindow {
		return PhaseDeparture
	}
	if now.Before(dep.Add(-planningHorizon)) {
		return PhasePreflight
	}
	if now.Before(dep) {
		return PhasePlanning
	}
	return PhaseEnroute
}
