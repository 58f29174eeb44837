package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Flight is a schedule event consumed from the source topic.
type Flight struct {
	ID                 string     `json:"id"`
	FlightNumber       string     `json:"flight_number,omitempty"`
	Origin             string     `json:"origin"`
	Destination        string     `json:"destination"`
	ScheduledDeparture *time.Time `json:"scheduled_departure,omitempty"`
	ScheduledArrival   *time.Time `json:"scheduled_arrival,omitempty"`
}

// Schedule returns the flight's scheduled times for phase resolution.
func (f Flight) Schedule() Schedule {
	return Schedule{Departure: f.ScheduledDeparture, Arrival: f.ScheduledArrival}
}

// AirportEvaluation is the risk and briefing for one airport at one instant.
type AirportEvaluation struct {
	ICAO        string            `json:"icao"`
	Phase       Phase             `json:"phase"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
	Result      AggregationResult `json:"result"`
	Briefing    HazardBriefing    `json:"briefing"`
	Inputs      RiskInputs        `json:"-"`
}

// FlightRiskAssessment is the flight-level output written to the sink topic.
type FlightRiskAssessment struct {
	ID                  string                `json:"id"`
	FlightID            string                `json:"flight_id"`
	FlightNumber        string                `json:"flight_number,omitempty"`
	Phase               Phase                 `json:"phase"`
	Risk                FlightRiskCombination `json:"risk"`
	OriginBriefing      HazardBriefing        `json:"origin_briefing"`
	DestinationBriefing HazardBriefing        `json:"destination_briefing"`
	EvaluatedAt         time.Time             `json:"evaluated_at"`
}
