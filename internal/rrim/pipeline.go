package rrim

import (
	"context"
	"time"

	"github.com/gruppe-adler/rrim-utils/internal/composite"
	"github.com/gruppe-adler/rrim-utils/internal/grid"
	"github.com/gruppe-adler/rrim-utils/internal/openness"
	"github.com/gruppe-adler/rrim-utils/internal/parallel"
	"github.com/gruppe-adler/rrim-utils/internal/slope"
)

// Stage names reported to a StageHook
const (
	StageOpenness  = "openness"
	StageSlope     = "slope"
	StageComposite = "composite"
)

// Result holds every grid derived from one elevation model
type Result struct {
	Positive     *grid.Raster
	Negative     *grid.Raster
	Differential *grid.Raster
	Slope        *grid.Raster
	Composite    *composite.Composite
}

// StageHook is called after each stage has finished
type StageHook func(stage string, elapsed time.Duration)

type runOptions struct {
	hook StageHook
}

// Option customizes a single Run
type Option func(*runOptions)

// WithStageHook reports stage timings to hook.
func WithStageHook(hook StageHook) Option {
	return func(o *runOptions) { o.hook = hook }
}

func (c Config) parallelOptions() parallel.Options {
	return parallel.Options{Workers: c.Workers, BlockRows: c.BlockRows}
}

// Run computes openness, slope and the composite for g. The grid and the
// config are validated before any work starts. If ctx is cancelled Run
// returns ctx.Err() and no partial result.
func Run(ctx context.Context, g *grid.Elevation, cfg Config, opts ...Option) (*Result, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	if g == nil {
		return nil, &grid.InvalidGridError{Reason: "no elevation grid"}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dirs, err := openness.NewDirections(cfg.DirectionCount)
	if err != nil {
		return nil, err
	}
	units := openness.Cells
	if cfg.SearchDistanceUnits == UnitsGround {
		units = openness.Ground
	}

	timer := time.Now()
	open, err := openness.Compute(ctx, g, openness.Params{
		Directions:           dirs,
		MaxDistance:          cfg.MaxSearchDistance,
		Units:                units,
		VerticalExaggeration: cfg.VerticalExaggeration,
		DifferentialScale:    cfg.DifferentialScale,
		Parallel:             cfg.parallelOptions(),
	})
	if err != nil {
		return nil, err
	}
	o.report(StageOpenness, timer)

	timer = time.Now()
	slopes, err := slope.Compute(ctx, g, slope.Params{
		ZFactor:  cfg.ZFactor,
		Parallel: cfg.parallelOptions(),
	})
	if err != nil {
		return nil, err
	}
	o.report(StageSlope, timer)

	timer = time.Now()
	comp, err := composite.Compose(ctx, slopes, open.Differential, cfg.compositeParams())
	if err != nil {
		return nil, err
	}
	o.report(StageComposite, timer)

	return &Result{
		Positive:     open.Positive,
		Negative:     open.Negative,
		Differential: open.Differential,
		Slope:        slopes,
		Composite:    comp,
	}, nil
}

func (o runOptions) report(stage string, start time.Time) {
	if o.hook != nil {
		o.hook(stage, time.Since(start))
	}
}
