package slope

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
	"github.com/gruppe-adler/rrim-utils/internal/parallel"
)

const noData = -9999.0

func plane(t *testing.T, rows, cols int, cellX, cellY, gx, gy, offset float64) *grid.Elevation {
	t.Helper()
	values := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			values[r*cols+c] = offset + gx*float64(c)*cellX + gy*float64(r)*cellY
		}
	}
	g, err := grid.NewElevation(rows, cols, cellX, cellY, noData, values)
	require.NoError(t, err)
	return g
}

var opts = Params{Parallel: parallel.Options{Workers: 3, BlockRows: 2}}

func TestCompute_Flat(t *testing.T) {
	g := plane(t, 5, 5, 1, 1, 0, 0, 100)

	out, err := Compute(context.Background(), g, opts)
	require.NoError(t, err)

	for _, v := range out.Values() {
		assert.Equal(t, 0.0, v)
	}
}

func TestCompute_InclinedPlane(t *testing.T) {
	// rises 1m per metre east and 0.5m per metre south on 2x4m cells
	g := plane(t, 6, 7, 2, 4, 1, 0.5, 0)
	want := math.Atan(math.Hypot(1, 0.5)) * 180 / math.Pi

	out, err := Compute(context.Background(), g, opts)
	require.NoError(t, err)

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			assert.InDelta(t, want, out.Get(r, c), 1e-9, "cell %d,%d", r, c)
		}
	}
}

func TestCompute_ZFactor(t *testing.T) {
	g := plane(t, 3, 3, 1, 1, 1, 0, 0)

	out, err := Compute(context.Background(), g, Params{ZFactor: math.Sqrt(3)})
	require.NoError(t, err)
	assert.InDelta(t, 60.0, out.Get(1, 1), 1e-9)

	_, err = Compute(context.Background(), g, Params{ZFactor: -1})
	var cfgErr *grid.InvalidConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "z_factor", cfgErr.Field)
}

func TestCompute_OffsetInvariant(t *testing.T) {
	a, err := Compute(context.Background(), plane(t, 8, 8, 1, 1, 0.25, -0.5, 0), opts)
	require.NoError(t, err)
	b, err := Compute(context.Background(), plane(t, 8, 8, 1, 1, 0.25, -0.5, 512), opts)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a.Values(), b.Values()))
}

func TestAt_NoData(t *testing.T) {
	g, err := grid.FromRows([][]float64{
		{noData, noData, noData, 0},
		{noData, 5, noData, 0},
		{noData, noData, noData, 0},
		{0, 0, 0, noData},
	}, 1, noData)
	require.NoError(t, err)

	_, ok := At(g, 1, 1, 1)
	assert.False(t, ok, "isolated cell")

	_, ok = At(g, 0, 0, 1)
	assert.False(t, ok, "nodata centre")

	_, ok = At(g, 3, 3, 1)
	assert.False(t, ok, "nodata corner")

	v, ok := At(g, 3, 0, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestAt_OneSidedDifference(t *testing.T) {
	// the western column is nodata, so the gradient comes from centre to east
	g, err := grid.FromRows([][]float64{
		{noData, 0, 1},
		{noData, 0, 1},
		{noData, 0, 1},
	}, 1, noData)
	require.NoError(t, err)

	v, ok := At(g, 1, 1, 1)
	require.True(t, ok)
	assert.InDelta(t, 45.0, v, 1e-9)
}

func TestAt_SingleCell(t *testing.T) {
	g, err := grid.FromRows([][]float64{{3}}, 1, noData)
	require.NoError(t, err)

	_, ok := At(g, 0, 0, 1)
	assert.False(t, ok)
}

func TestCompute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compute(ctx, plane(t, 4, 4, 1, 1, 0, 0, 0), opts)
	assert.ErrorIs(t, err, context.Canceled)
}
