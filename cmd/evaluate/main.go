// Command evaluate scores recorded weather fixtures offline with the same
// engine the service runs. Each fixture is a JSON-encoded domain.RiskInputs,
// including the evaluation instant in "now".
//
// Usage:
//
//	go run ./cmd/evaluate -phase departure data/fixtures/kden_ifr.json
//	go run ./cmd/evaluate -phase enroute -flight origin.json destination.json
//	go run ./cmd/evaluate -weights weights.yaml -out report.json fixtures/*.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/couchcryptid/flight-weather-risk/internal/config"
	"github.com/couchcryptid/flight-weather-risk/internal/domain"
)

// airportReport is the per-fixture output.
type airportReport struct {
	Fixture  string                   `json:"fixture"`
	Result   domain.AggregationResult `json:"result"`
	Briefing domain.HazardBriefing    `json:"briefing"`
}

// flightReport is the output of -flight.
type flightReport struct {
	Risk                domain.FlightRiskCombination `json:"risk"`
	OriginBriefing      domain.HazardBriefing        `json:"origin_briefing"`
	DestinationBriefing domain.HazardBriefing        `json:"destination_briefing"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	phaseFlag := fs.String("phase", string(domain.PhaseDeparture), "flight phase: preflight, planning, departure, enroute, arrival")
	weights := fs.String("weights", "", "optional YAML weight table override")
	flight := fs.Bool("flight", false, "combine exactly two fixtures as origin and destination")
	out := fs.String("out", "", "write the report here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return errors.New("at least one fixture file is required")
	}
	if *flight && len(paths) != 2 {
		return fmt.Errorf("-flight needs exactly 2 fixtures, got %d", len(paths))
	}

	phase, err := domain.ParsePhase(*phaseFlag)
	if err != nil {
		return err
	}
	tables, err := config.LoadWeightTables(*weights)
	if err != nil {
		return err
	}

	inputs := make([]domain.RiskInputs, 0, len(paths))
	for _, p := range paths {
		in, err := loadFixture(p)
		if err != nil {
			return err
		}
		inputs = append(inputs, in)
	}

	var report any
	if *flight {
		report = evaluateFlight(inputs[0], inputs[1], phase, tables)
	} else {
		reports := make([]airportReport, 0, len(inputs))
		for i, in := range inputs {
			reports = append(reports, airportReport{
				Fixture:  paths[i],
				Result:   domain.EvaluateAirport(in, phase, tables),
				Briefing: briefingFor(in),
			})
		}
		report = reports
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if *out != "" {
		log.Printf("wrote %d evaluations to %s", len(inputs), *out)
	}
	return nil
}

func evaluateFlight(origin, dest domain.RiskInputs, phase domain.Phase, tables domain.WeightTables) flightReport {
	return flightReport{
		Risk: domain.CombineFlightRisk(
			domain.EvaluateAirport(origin, phase, tables),
			domain.EvaluateAirport(dest, phase, tables),
			phase, tables),
		OriginBriefing:      briefingFor(origin),
		DestinationBriefing: briefingFor(dest),
	}
}

func briefingFor(in domain.RiskInputs) domain.HazardBriefing {
	var loc *domain.LatLon
	if in.Airport != nil {
		loc = in.Airport.Location
	}
	return domain.BuildBriefing(domain.BriefingInput{
		Hazards:      in.Hazards,
		PilotReports: in.PilotReports,
		Airport:      loc,
		Now:          in.Now,
	})
}

func loadFixture(path string) (domain.RiskInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RiskInputs{}, fmt.Errorf("read fixture: %w", err)
	}
	var in domain.RiskInputs
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.RiskInputs{}, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	if in.Now.IsZero() {
		return domain.RiskInputs{}, fmt.Errorf("fixture %s: missing \"now\"", path)
	}
	if in.ICAO, err = domain.NormalizeICAO(in.ICAO); err != nil {
		return domain.RiskInputs{}, fmt.Errorf("fixture %s: %w", path, err)
	}
	return in, nil
}
