package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
)

// weightsFile is the on-disk shape of a weight table override. Phases present
// in the file replace the built-in entry for that phase; absent phases keep
// their defaults.
//
//	factor:
//	  departure:
//	    surface_wind: 0.4
//	    visibility: 0.2
//	origin_destination:
//	  enroute: {origin: 0.4, destination: 0.6}
type weightsFile struct {
	Factor            map[string]map[string]float64 `yaml:"factor" validate:"omitempty,dive,keys,oneof=preflight planning departure enroute arrival,endkeys,required"`
	OriginDestination map[string]sideWeights        `yaml:"origin_destination" validate:"omitempty,dive,keys,oneof=preflight planning departure enroute arrival,endkeys"`
}

type sideWeights struct {
	Origin      float64 `yaml:"origin" validate:"gte=0,lte=1"`
	Destination float64 `yaml:"destination" validate:"gte=0,lte=1"`
}

var validate = validator.New()

// LoadWeightTables returns the built-in tables, overridden by the YAML file at
// path when path is non-empty.
func LoadWeightTables(path string) (domain.WeightTables, error) {
	tables := domain.DefaultWeightTables()
	if path == "" {
		return tables, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.WeightTables{}, fmt.Errorf("read weights file: %w", err)
	}
	return ParseWeightTables(data)
}

// ParseWeightTables applies a YAML override to the built-in tables and
// validates the result.
func ParseWeightTables(data []byte) (domain.WeightTables, error) {
	var f weightsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return domain.WeightTables{}, fmt.Errorf("parse weights file: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return domain.WeightTables{}, fmt.Errorf("validate weights file: %w", err)
	}

	tables := domain.DefaultWeightTables()
	for phase, weights := range f.Factor {
		pw := make(domain.PhaseWeights, len(weights))
		for name, w := range weights {
			pw[domain.FactorName(name)] = w
		}
		tables.Factor[domain.Phase(phase)] = pw
	}
	for phase, s := range f.OriginDestination {
		tables.OriginDestination[domain.Phase(phase)] = domain.SideWeights{Origin: s.Origin, Destination: s.Destination}
	}

	if err := tables.Validate(); err != nil {
		return domain.WeightTables{}, fmt.Errorf("validate weights file: %w", err)
	}
	return tables, nil
}
