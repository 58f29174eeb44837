// Command validate checks a risk weight table override and, optionally, runs
// the engine over recorded fixtures to verify its output invariants: factor
// and aggregate score ranges, confidence bounds, tier boundaries, the
// InsufficientData contract and origin/destination weight sums.
//
// Usage:
//
//	go run ./cmd/validate -weights data/weights.example.yaml -fixtures data/fixtures
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/flight-weather-risk/internal/config"
	"github.com/couchcryptid/flight-weather-risk/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type fixture struct {
	path   string
	inputs domain.RiskInputs
}

func main() {
	weights := flag.String("weights", "", "YAML weight table override (built-in tables when empty)")
	fixtures := flag.String("fixtures", "", "directory of RiskInputs JSON fixtures")
	flag.Parse()

	os.Exit(run(*weights, *fixtures, os.Stdout))
}

func run(weightsPath, fixtureDir string, w io.Writer) int {
	fmt.Fprintln(w, "=== Flight Weather Risk Validation ===")
	fmt.Fprintln(w)

	weightPhase := &phase{name: "Weight tables"}
	tables, err := config.LoadWeightTables(weightsPath)
	if err != nil {
		weightPhase.errorf("%v", err)
	}
	phases := []*phase{weightPhase}

	var fixtures []fixture
	if fixtureDir != "" && weightPhase.passed() {
		fixtures, err = loadFixtures(fixtureDir)
		if err != nil {
			fmt.Fprintf(w, "FATAL: load fixtures: %v\n", err)
			return 1
		}
		phases = append(phases,
			validateFactors(fixtures),
			validateAggregation(fixtures, tables),
			validateCombination(fixtures, tables),
		)
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Fixtures: %d, phases per fixture: %d\n", len(fixtures), len(domain.Phases))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Fprintf(w, "  ... and %d more\n", len(p.errors)-i)
				break
			}
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

func loadFixtures(dir string) ([]fixture, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]fixture, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		var in domain.RiskInputs
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, fixture{path: filepath.Base(p), inputs: in})
	}
	return out, nil
}

// ── Factor invariants ──

func validateFactors(fixtures []fixture) *phase {
	p := &phase{name: "Factor scores and penalties"}
	for _, fx := range fixtures {
		for _, f := range domain.AssessAll(fx.inputs, domain.DefaultAssessors()) {
			if f.Score < 0 || f.Score > 100 {
				p.errorf("%s %s: score %d out of range", fx.path, f.Name, f.Score)
			}
			if f.ConfidencePenalty < 0 || f.ConfidencePenalty > 1 {
				p.errorf("%s %s: penalty %.2f out of range", fx.path, f.Name, f.ConfidencePenalty)
			}
			if want := domain.SeverityForScore(f.Score); f.Severity != want {
				p.errorf("%s %s: severity %s, want %s for score %d", fx.path, f.Name, f.Severity, want, f.Score)
			}
			if len(f.Messages) == 0 {
				p.errorf("%s %s: no messages", fx.path, f.Name)
			}
		}
	}
	return p
}

// ── Aggregation invariants ──

func validateAggregation(fixtures []fixture, tables domain.WeightTables) *phase {
	p := &phase{name: "Aggregation and tiers"}
	for _, fx := range fixtures {
		for _, ph := range domain.Phases {
			res := domain.EvaluateAirport(fx.inputs, ph, tables)
			where := fmt.Sprintf("%s/%s", fx.path, ph)
			if res.RawScore < 0 || res.RawScore > 100 {
				p.errorf("%s: raw score %d out of range", where, res.RawScore)
			}
			if res.Confidence < 0 || res.Confidence > 1 {
				p.errorf("%s: confidence %.3f out of range", where, res.Confidence)
			}
			switch res.Status {
			case domain.StatusOK:
				if res.FinalScore == nil || res.Tier == nil {
					p.errorf("%s: Ok result without score or tier", where)
					continue
				}
				if want := domain.TierForScore(*res.FinalScore); *res.Tier != want {
					p.errorf("%s: tier %s for score %d, want %s", where, *res.Tier, *res.FinalScore, want)
				}
			case domain.StatusInsufficientData:
				if res.FinalScore != nil || res.Tier != nil {
					p.errorf("%s: InsufficientData result carries a score or tier", where)
				}
			default:
				p.errorf("%s: unknown status %q", where, res.Status)
			}
		}
	}
	return p
}

// ── Combination invariants ──

func validateCombination(fixtures []fixture, tables domain.WeightTables) *phase {
	p := &phase{name: "Origin/destination combination"}
	for i := range fixtures {
		for j := range fixtures {
			if i == j {
				continue
			}
			for _, ph := range domain.Phases {
				o := domain.EvaluateAirport(fixtures[i].inputs, ph, tables)
				d := domain.EvaluateAirport(fixtures[j].inputs, ph, tables)
				c := domain.CombineFlightRisk(o, d, ph, tables)
				where := fmt.Sprintf("%s->%s/%s", fixtures[i].path, fixtures[j].path, ph)

				if math.Abs(c.OriginWeight+c.DestinationWeight-1) > 1e-6 {
					p.errorf("%s: side weights sum to %.6f", where, c.OriginWeight+c.DestinationWeight)
				}
				bothOK := o.Status == domain.StatusOK && d.Status == domain.StatusOK
				if bothOK != (c.Status == domain.StatusOK) {
					p.errorf("%s: combined status %s from %s and %s", where, c.Status, o.Status, d.Status)
				}
				if c.Status == domain.StatusOK && (c.CombinedScore == nil || *c.CombinedScore < 0 || *c.CombinedScore > 100) {
					p.errorf("%s: invalid combined score", where)
				}
				if c.Confidence > math.Min(o.Confidence, d.Confidence)+1e-9 {
					p.errorf("%s: combined confidence %.3f exceeds weaker side", where, c.Confidence)
				}
			}
		}
	}
	return p
}
