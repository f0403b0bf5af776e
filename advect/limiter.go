// Package advect provides the MAC-velocity prediction and upwind edge-state
// reconstruction collaborators used by flow.TimeStepper, plus a directional
// slope limiter shared by both.
package advect

import "github.com/ctessum/flowmg/grid"

// Limiter selects how a cell-centered field's directional slope is limited
// before it is used to extrapolate a face value.
type Limiter int

const (
	// NoLimiter uses the unlimited centered difference.
	NoLimiter Limiter = iota
	// Limiter2 is a minmod-limited second-order slope.
	Limiter2
	// Limiter4 is a fourth-order centered difference, clipped to the
	// minmod bound of the two one-sided second-order differences so it
	// stays monotonicity preserving near extrema.
	Limiter4
)

// ParseLimiter resolves the incompressible.limiter configuration enum.
func ParseLimiter(v int) (Limiter, error) {
	switch Limiter(v) {
	case NoLimiter, Limiter2, Limiter4:
		return Limiter(v), nil
	default:
		return 0, errLimiter(v)
	}
}

func minmod(a, b float64) float64 {
	if a*b <= 0 {
		return 0
	}
	if a < 0 {
		if a > b {
			return a
		}
		return b
	}
	if a < b {
		return a
	}
	return b
}

// Slopes computes the directional, undivided (per-cell, not per-length)
// slope of c along dir (1 = x, 2 = y) at every interior cell using lim.
func Slopes(c *grid.CellArray, dir int, lim Limiter) *grid.CellArray {
	g := c.Grid()
	out := grid.NewCellArray(g)
	neighbor := func(i, j, off int) float64 {
		if dir == 1 {
			return c.At(i+off, j)
		}
		return c.At(i, j+off)
	}

	c.ForEachInterior(func(i, j int) {
		center := c.At(i, j)
		dminus := center - neighbor(i, j, -1)
		dplus := neighbor(i, j, 1) - center

		var s float64
		switch lim {
		case NoLimiter:
			s = 0.5 * (dminus + dplus)
		case Limiter2:
			s = minmod(dminus, dplus)
		case Limiter4:
			far := 2.0/3.0*(neighbor(i, j, 1)-neighbor(i, j, -1)) -
				1.0/12.0*(neighbor(i, j, 2)-neighbor(i, j, -2))
			s = minmod(far, minmod(2*dminus, 2*dplus))
		}
		out.Set(i, j, s)
	})
	return out
}
