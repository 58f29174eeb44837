package domain

import "context"

// WeatherSource supplies decoded weather for the engine. A nil record with a
// nil error means the provider has nothing for that airport.
type WeatherSource interface {
	// LatestMetars returns observations for icao from the last hours,
	// newest first.
	LatestMetars(ctx context.Context, icao string, hours int) ([]Metar, error)

	// Taf returns the current forecast.
	Taf(ctx context.Context, icao string) (*Taf, error)

	// Airport returns reference data for icao.
	Airport(ctx context.Context, icao string) (*Airport, error)

	// Hazards returns area advisories currently in effect.
	Hazards(ctx context.Context) ([]HazardFeature, error)

	// PilotReports returns PIREPs within radiusNM of icao.
	PilotReports(ctx context.Context, icao string, radiusNM int) ([]PilotReport, error)
}
