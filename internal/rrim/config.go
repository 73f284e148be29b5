package rrim

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/gruppe-adler/rrim-utils/internal/composite"
	"github.com/gruppe-adler/rrim-utils/internal/grid"
	"github.com/gruppe-adler/rrim-utils/internal/openness"
)

/* Example config file ...

direction_count: 16
max_search_distance: 10
search_distance_units: cells
slope_max_degrees: 45
openness_positive_gain: 1.2
openness_negative_gain: 1
output_mode: rgb_composite

*/

// InvalidConfigurationError is returned for configuration values that can't
// be used, naming the offending field.
type InvalidConfigurationError = grid.InvalidConfigurationError

// Search distance units
const (
	UnitsCells  = "cells"
	UnitsGround = "ground"
)

// Config holds every tunable of a run. It is validated once by Run and
// then shared read-only by all stages.
type Config struct {
	DirectionCount      int     `yaml:"direction_count"`
	MaxSearchDistance   float64 `yaml:"max_search_distance"`
	SearchDistanceUnits string  `yaml:"search_distance_units"`

	SlopeMaxDegrees float64 `yaml:"slope_max_degrees"`
	SlopeGamma      float64 `yaml:"slope_gamma"`
	SlopeInvert     bool    `yaml:"slope_invert"`
	SlopeWeight     float64 `yaml:"slope_weight"`

	OpennessPositiveGain      float64 `yaml:"openness_positive_gain"`
	OpennessNegativeGain      float64 `yaml:"openness_negative_gain"`
	OpennessRangeDegrees      float64 `yaml:"openness_range_degrees"`
	OpennessStretchPercentile float64 `yaml:"openness_stretch_percentile"`
	DifferentialScale         float64 `yaml:"differential_scale"`

	VerticalExaggeration float64 `yaml:"vertical_exaggeration"`
	ZFactor              float64 `yaml:"z_factor"`

	OutputMode composite.Mode `yaml:"output_mode"`

	Workers   int `yaml:"workers"`    // 0 means one per CPU
	BlockRows int `yaml:"block_rows"` // rows per work item
}

// DefaultConfig returns the settings used by the QGIS RRIM workflow:
// 16 directions and a 10 cell radius.
func DefaultConfig() Config {
	return Config{
		DirectionCount:       16,
		MaxSearchDistance:    10,
		SearchDistanceUnits:  UnitsCells,
		SlopeMaxDegrees:      45,
		SlopeGamma:           1,
		SlopeInvert:          true,
		SlopeWeight:          0.5,
		OpennessPositiveGain: 1,
		OpennessNegativeGain: 1,
		OpennessRangeDegrees: 45,
		DifferentialScale:    1,
		VerticalExaggeration: 1,
		ZFactor:              1,
		OutputMode:           composite.RGBComposite,
		BlockRows:            32,
	}
}

// LoadConfig reads a YAML config. Fields missing from the file keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	contents, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read %q: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(contents, &c); err != nil {
		return c, fmt.Errorf("parse %q: %w", path, err)
	}

	return c, c.Validate()
}

// AsYaml renders the config the way LoadConfig reads it
func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# can't marshal config: %v\n", err)
	}
	return string(b)
}

func invalid(field, format string, args ...interface{}) error {
	return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate reports the first field that can't be used.
func (c Config) Validate() error {
	if c.DirectionCount < openness.MinDirections {
		return invalid("direction_count", "must be at least %d, got %d", openness.MinDirections, c.DirectionCount)
	}
	if !(c.MaxSearchDistance > 0) || math.IsInf(c.MaxSearchDistance, 0) {
		return invalid("max_search_distance", "must be positive, got %g", c.MaxSearchDistance)
	}
	switch c.SearchDistanceUnits {
	case UnitsCells, UnitsGround:
	default:
		return invalid("search_distance_units", "must be %q or %q, got %q", UnitsCells, UnitsGround, c.SearchDistanceUnits)
	}
	if !(c.DifferentialScale > 0) {
		return invalid("differential_scale", "must be positive, got %g", c.DifferentialScale)
	}
	if !(c.VerticalExaggeration > 0) {
		return invalid("vertical_exaggeration", "must be positive, got %g", c.VerticalExaggeration)
	}
	if !(c.ZFactor > 0) {
		return invalid("z_factor", "must be positive, got %g", c.ZFactor)
	}
	if c.Workers < 0 {
		return invalid("workers", "must not be negative, got %d", c.Workers)
	}
	if c.BlockRows < 0 {
		return invalid("block_rows", "must not be negative, got %d", c.BlockRows)
	}

	return c.compositeParams().Validate()
}

func (c Config) compositeParams() composite.Params {
	return composite.Params{
		Mode:              c.OutputMode,
		SlopeMaxDegrees:   c.SlopeMaxDegrees,
		SlopeGamma:        c.SlopeGamma,
		SlopeInvert:       c.SlopeInvert,
		SlopeWeight:       c.SlopeWeight,
		PositiveGain:      c.OpennessPositiveGain,
		NegativeGain:      c.OpennessNegativeGain,
		OpennessRange:     c.OpennessRangeDegrees,
		StretchPercentile: c.OpennessStretchPercentile,
		Parallel:          c.parallelOptions(),
	}
}
