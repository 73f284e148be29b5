package rrim

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/rrim-utils/internal/composite"
	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

const noData = -9999.0

func terrain(t *testing.T, rows, cols int, offset float64) *grid.Elevation {
	t.Helper()
	values := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			// integer elevations keep differences exact under offsets
			values[r*cols+c] = offset + math.Round(20*math.Sin(float64(r)/3)+15*math.Cos(float64(c)/4)) + float64((r*7+c*3)%5)
		}
	}
	g, err := grid.NewElevation(rows, cols, 2, 2, noData, values)
	require.NoError(t, err)
	return g
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.DirectionCount = 8
	cfg.MaxSearchDistance = 4
	cfg.BlockRows = 3
	cfg.Workers = 4
	return cfg
}

func TestRun_FlatScenario(t *testing.T) {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 100
	}
	g, err := grid.NewElevation(5, 5, 1, 1, noData, values)
	require.NoError(t, err)

	for _, mode := range []composite.Mode{composite.SingleBand, composite.RGBComposite} {
		cfg := smallConfig()
		cfg.OutputMode = mode

		res, err := Run(context.Background(), g, cfg)
		require.NoError(t, err)

		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				assert.Equal(t, 90.0, res.Positive.Get(r, c))
				assert.Equal(t, 90.0, res.Negative.Get(r, c))
				assert.Equal(t, 0.0, res.Differential.Get(r, c))
				assert.Equal(t, 0.0, res.Slope.Get(r, c))
			}
		}

		// every cell of a flat grid gets the same tone
		for _, band := range res.Composite.Bands {
			first := band.Get(0, 0)
			for _, v := range band.Values() {
				assert.Equal(t, first, v)
			}
		}
	}
}

func TestRun_NoDataPropagates(t *testing.T) {
	g := terrain(t, 12, 12, 0)
	values := make([]float64, 0, 144)
	for r := 0; r < 12; r++ {
		for c := 0; c < 12; c++ {
			v := g.Value(r, c)
			if r == 5 && c == 5 {
				v = noData
			}
			values = append(values, v)
		}
	}
	g, err := grid.NewElevation(12, 12, 2, 2, noData, values)
	require.NoError(t, err)

	res, err := Run(context.Background(), g, smallConfig())
	require.NoError(t, err)

	for _, r := range []*grid.Raster{res.Positive, res.Negative, res.Differential, res.Slope} {
		assert.True(t, r.IsNoData(5, 5))
	}
	for _, band := range res.Composite.Bands {
		assert.True(t, band.IsNoData(5, 5))
	}

	// rays from (5,3) eastwards cross the hole and still produce values
	for _, r := range []*grid.Raster{res.Positive, res.Negative, res.Differential, res.Slope} {
		assert.False(t, r.IsNoData(5, 3))
		assert.False(t, r.IsNoData(5, 6))
	}
}

func TestRun_SentinelInsideValueRange(t *testing.T) {
	tests := []struct {
		name   string
		noData float64
	}{
		{"zero", 0},
		{"unobstructed openness", 90},
		{"flat rgb band", 127.5},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float64, 25)
			for i := range values {
				values[i] = 100
			}
			values[12] = tt.noData
			g, err := grid.NewElevation(5, 5, 1, 1, tt.noData, values)
			require.NoError(t, err)

			for _, mode := range []composite.Mode{composite.SingleBand, composite.RGBComposite} {
				cfg := smallConfig()
				cfg.OutputMode = mode

				res, err := Run(context.Background(), g, cfg)
				require.NoError(t, err)
				img := res.Composite.Image()

				for r := 0; r < 5; r++ {
					for c := 0; c < 5; c++ {
						if r == 2 && c == 2 {
							assert.True(t, res.Slope.IsNoData(r, c))
							assert.True(t, res.Differential.IsNoData(r, c))
							assert.Equal(t, uint8(0), img.NRGBAAt(c, r).A)
							continue
						}

						s, ok := res.Slope.At(r, c)
						require.True(t, ok, "%s slope (%d,%d)", mode, r, c)
						assert.Equal(t, 0.0, s)

						d, ok := res.Differential.At(r, c)
						require.True(t, ok, "%s differential (%d,%d)", mode, r, c)
						assert.Equal(t, 0.0, d)

						for _, band := range res.Composite.Bands {
							assert.False(t, band.IsNoData(r, c), "%s band (%d,%d)", mode, r, c)
						}
						assert.Equal(t, uint8(255), img.NRGBAAt(c, r).A)
					}
				}
			}
		})
	}
}

func TestRun_DeterministicAndOffsetInvariant(t *testing.T) {
	cfg := smallConfig()

	a, err := Run(context.Background(), terrain(t, 20, 17, 0), cfg)
	require.NoError(t, err)
	b, err := Run(context.Background(), terrain(t, 20, 17, 0), cfg)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a.Positive.Values(), b.Positive.Values()))
	assert.Empty(t, cmp.Diff(a.Negative.Values(), b.Negative.Values()))
	assert.Empty(t, cmp.Diff(a.Slope.Values(), b.Slope.Values()))
	for i := range a.Composite.Bands {
		assert.Empty(t, cmp.Diff(a.Composite.Bands[i].Values(), b.Composite.Bands[i].Values()))
	}

	shifted, err := Run(context.Background(), terrain(t, 20, 17, 1000), cfg)
	require.NoError(t, err)

	approx := cmpopts.EquateApprox(0, 1e-9)
	assert.Empty(t, cmp.Diff(a.Slope.Values(), shifted.Slope.Values(), approx))
	assert.Empty(t, cmp.Diff(a.Differential.Values(), shifted.Differential.Values(), approx))
}

func TestRun_OpennessWithinBounds(t *testing.T) {
	res, err := Run(context.Background(), terrain(t, 25, 25, 0), DefaultConfig())
	require.NoError(t, err)

	for _, r := range []*grid.Raster{res.Positive, res.Negative} {
		s := r.Stats()
		assert.GreaterOrEqual(t, s.Min, 0.0)
		assert.LessOrEqual(t, s.Max, 90.0)
	}
}

func TestRun_InvalidGrid(t *testing.T) {
	_, err := Run(context.Background(), &grid.Elevation{}, DefaultConfig())
	var gridErr *grid.InvalidGridError
	require.True(t, errors.As(err, &gridErr))

	_, err = Run(context.Background(), nil, DefaultConfig())
	require.True(t, errors.As(err, &gridErr))
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpennessNegativeGain = -1

	called := false
	_, err := Run(context.Background(), terrain(t, 3, 3, 0), cfg, WithStageHook(func(string, time.Duration) { called = true }))

	var cfgErr *InvalidConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "openness_negative_gain", cfgErr.Field)
	assert.False(t, called, "no stage runs on invalid input")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, terrain(t, 10, 10, 0), smallConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestRun_StageHook(t *testing.T) {
	var mu sync.Mutex
	var stages []string

	_, err := Run(context.Background(), terrain(t, 6, 6, 0), smallConfig(), WithStageHook(func(stage string, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		stages = append(stages, stage)
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{StageOpenness, StageSlope, StageComposite}, stages)
}
