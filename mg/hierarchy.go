// Package mg implements a geometric multigrid V-cycle solver for the
// constant-coefficient Helmholtz equation (alpha - beta*Laplacian)v = f on
// a square, cell-centered grid.
package mg

import (
	"fmt"
	"math"

	"github.com/ctessum/flowmg/grid"
)

// Level owns one rung of the multigrid pyramid: a solution (V), a
// right-hand side (F), and a residual (R), all on the same Grid2D.
type Level struct {
	Grid *grid.Grid2D
	V, F, R *grid.CellArray
}

// Hierarchy is an ordered sequence of Levels from the coarsest (index 0,
// 1x1 interior) to the finest (index len(Levels)-1, nx-by-nx interior),
// each with half the interior resolution and twice the spacing of the
// next finer level. BC is shared by every level's (V, F, R).
type Hierarchy struct {
	Levels []*Level
	BC     grid.BCPolicy
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NewHierarchy builds a Hierarchy over a square domain whose finest level
// has nx-by-nx interior cells, nx a power of two. BC is validated and
// shared by every level.
func NewHierarchy(nx int, xmin, xmax, ymin, ymax float64, bc grid.BCPolicy) (*Hierarchy, error) {
	if !isPowerOfTwo(nx) {
		return nil, fmt.Errorf("flowmg: mg: nx=%d is not a power of two", nx)
	}
	if (xmax - xmin) != (ymax - ymin) {
		return nil, fmt.Errorf("flowmg: mg: domain is not square: [%g,%g] x [%g,%g]", xmin, xmax, ymin, ymax)
	}
	if err := bc.Validate(); err != nil {
		return nil, err
	}

	nlevels := int(math.Log2(float64(nx))) + 1
	h := &Hierarchy{BC: bc}
	size := 1
	for i := 0; i < nlevels; i++ {
		g, err := grid.NewGrid2D(size, size, 1, xmin, xmax, ymin, ymax)
		if err != nil {
			return nil, err
		}
		h.Levels = append(h.Levels, &Level{
			Grid: g,
			V:    grid.NewCellArray(g),
			F:    grid.NewCellArray(g),
			R:    grid.NewCellArray(g),
		})
		size *= 2
	}
	return h, nil
}

// Finest returns the finest (last) level.
func (h *Hierarchy) Finest() *Level { return h.Levels[len(h.Levels)-1] }

// Coarsest returns the coarsest (1x1 interior) level.
func (h *Hierarchy) Coarsest() *Level { return h.Levels[0] }

// FillBC fills the ghost cells of v, f, and r on lvl using the hierarchy's
// shared boundary policy.
func (h *Hierarchy) FillBC(lvl *Level) error {
	if err := h.BC.Fill(lvl.V); err != nil {
		return err
	}
	if err := h.BC.Fill(lvl.F); err != nil {
		return err
	}
	return h.BC.Fill(lvl.R)
}
