package openness

import (
	"fmt"
	"math"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

// MinDirections is the smallest usable direction set
const MinDirections = 4

// Direction is a horizontal unit vector in grid space. DRow points south
// (increasing row), DCol points east (increasing column).
type Direction struct {
	Azimuth    float64 // degrees clockwise from north
	DRow, DCol float64
}

// Directions is an ordered, evenly spaced set of azimuths starting at north.
type Directions []Direction

// NewDirections builds n directions spaced 360/n degrees apart.
func NewDirections(n int) (Directions, error) {
	if n < MinDirections {
		return nil, &grid.InvalidConfigurationError{
			Field:  "direction_count",
			Reason: fmt.Sprintf("must be at least %d, got %d", MinDirections, n),
		}
	}

	dirs := make(Directions, n)
	for i := range dirs {
		az := 360 * float64(i) / float64(n)
		rad := az * math.Pi / 180

		dirs[i] = Direction{
			Azimuth: az,
			DRow:    snap(-math.Cos(rad)),
			DCol:    snap(math.Sin(rad)),
		}
	}

	return dirs, nil
}

// snap removes floating point residue so cardinal directions stay exact
func snap(v float64) float64 {
	if math.Abs(v) < 1e-12 {
		return 0
	}
	return v
}
