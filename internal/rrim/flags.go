package rrim

import (
	"flag"

	"github.com/gruppe-adler/rrim-utils/internal/composite"
)

// ConfigFlags are the command line flags shared by every subcommand that
// runs the pipeline. Flags given on the command line override the config file.
type ConfigFlags struct {
	configPath *string
	directions *int
	radius     *float64
	units      *string
	slopeMax   *float64
	posGain    *float64
	negGain    *float64
	mode       *string
	workers    *int
}

// RegisterConfigFlags adds the pipeline flags to flagSet.
func RegisterConfigFlags(flagSet *flag.FlagSet) *ConfigFlags {
	d := DefaultConfig()

	return &ConfigFlags{
		configPath: flagSet.String("config", "", "Path to a YAML config (optional)"),
		directions: flagSet.Int("directions", d.DirectionCount, "Number of openness ray directions (>= 4)"),
		radius:     flagSet.Float64("radius", d.MaxSearchDistance, "Maximum openness search distance"),
		units:      flagSet.String("units", d.SearchDistanceUnits, "Unit of -radius: cells or ground"),
		slopeMax:   flagSet.Float64("slope-max", d.SlopeMaxDegrees, "Slope in degrees that maps to full steepness"),
		posGain:    flagSet.Float64("positive-gain", d.OpennessPositiveGain, "Contrast of ridges"),
		negGain:    flagSet.Float64("negative-gain", d.OpennessNegativeGain, "Contrast of valleys"),
		mode:       flagSet.String("mode", string(d.OutputMode), "Output mode: single_band or rgb_composite"),
		workers:    flagSet.Int("workers", d.Workers, "Number of workers, 0 uses one per CPU"),
	}
}

// Load builds the config after flagSet has been parsed.
func (f *ConfigFlags) Load(flagSet *flag.FlagSet) (Config, error) {
	cfg := DefaultConfig()
	if *f.configPath != "" {
		var err error
		if cfg, err = LoadConfig(*f.configPath); err != nil {
			return cfg, err
		}
	}

	flagSet.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "directions":
			cfg.DirectionCount = *f.directions
		case "radius":
			cfg.MaxSearchDistance = *f.radius
		case "units":
			cfg.SearchDistanceUnits = *f.units
		case "slope-max":
			cfg.SlopeMaxDegrees = *f.slopeMax
		case "positive-gain":
			cfg.OpennessPositiveGain = *f.posGain
		case "negative-gain":
			cfg.OpennessNegativeGain = *f.negGain
		case "mode":
			cfg.OutputMode = composite.Mode(*f.mode)
		case "workers":
			cfg.Workers = *f.workers
		}
	})

	return cfg, cfg.Validate()
}
