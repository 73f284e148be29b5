package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewElevation_Invalid(t *testing.T) {
	cases := []struct {
		name       string
		rows, cols int
		cx, cy     float64
		values     []float64
	}{
		{"zero rows", 0, 3, 1, 1, nil},
		{"zero cols", 3, 0, 1, 1, nil},
		{"zero cell size", 1, 1, 0, 1, []float64{1}},
		{"negative cell size", 1, 1, 1, -2, []float64{1}},
		{"nan cell size", 1, 1, math.NaN(), 1, []float64{1}},
		{"value count", 2, 2, 1, 1, []float64{1, 2, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewElevation(tc.rows, tc.cols, tc.cx, tc.cy, -9999, tc.values)
			require.Error(t, err)

			var gridErr *InvalidGridError
			assert.True(t, errors.As(err, &gridErr))
		})
	}
}

func TestElevation_At(t *testing.T) {
	g, err := FromRows([][]float64{
		{1, 2, 3},
		{4, -9999, 6},
	}, 10, -9999)
	require.NoError(t, err)

	v, ok := g.At(0, 2)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = g.At(1, 1)
	assert.False(t, ok, "nodata cell")

	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 3}} {
		v, ok := g.At(rc[0], rc[1])
		assert.False(t, ok)
		assert.Equal(t, -9999.0, v)
		assert.False(t, g.InBounds(rc[0], rc[1]))
	}

	assert.Equal(t, -9999.0, g.Value(1, 1))
	assert.Equal(t, 4.0, g.Value(1, 0))
}

func TestElevation_NaNIsNoData(t *testing.T) {
	g, err := NewElevation(1, 2, 1, 1, -9999, []float64{math.NaN(), 5})
	require.NoError(t, err)

	_, ok := g.At(0, 0)
	assert.False(t, ok)
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}}, 1, 0)
	var gridErr *InvalidGridError
	require.True(t, errors.As(err, &gridErr))
}

func TestRaster_Stats(t *testing.T) {
	r := NewRaster(2, 2, -1)
	assert.Equal(t, 0, r.Stats().Count)
	assert.Equal(t, "no valid cells", r.Stats().String())

	r.Set(0, 0, 2)
	r.Set(1, 1, 4)

	s := r.Stats()
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.True(t, r.IsNoData(0, 1))

	_, ok := r.At(1, 1)
	assert.True(t, ok)
}

func TestRaster_ValidityIndependentOfSentinel(t *testing.T) {
	for _, noData := range []float64{0, 90, math.NaN()} {
		r := NewRaster(1, 3, noData)
		r.Set(0, 0, 0)
		r.Set(0, 1, 90)

		v, ok := r.At(0, 0)
		assert.True(t, ok, "nodata=%v", noData)
		assert.Equal(t, 0.0, v)
		assert.False(t, r.IsNoData(0, 1), "nodata=%v", noData)
		assert.True(t, r.IsNoData(0, 2), "nodata=%v", noData)
		assert.Equal(t, []float64{0, 90}, r.Valid())

		r.SetNoData(0, 0)
		assert.True(t, r.IsNoData(0, 0))

		r.Set(0, 1, math.NaN())
		assert.True(t, r.IsNoData(0, 1), "NaN is never valid")
	}
}
