package grid

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// CellArray is a 2D scalar field of shape (g.Qx, g.Qy), including ghost
// cells, backed by a dense row-major array. Its lifetime is bound to the
// Grid2D it was created from; every arithmetic helper below addresses the
// interior index range unless stated otherwise.
type CellArray struct {
	g    *Grid2D
	data *sparse.DenseArray
}

// NewCellArray allocates a zeroed field matching g's shape.
func NewCellArray(g *Grid2D) *CellArray {
	return &CellArray{g: g, data: sparse.ZerosDense(g.Qx, g.Qy)}
}

// Grid returns the array's owning geometry.
func (c *CellArray) Grid() *Grid2D { return c.g }

// At returns the value at raw index (i,j), which may be a ghost index.
func (c *CellArray) At(i, j int) float64 { return c.data.Get(i, j) }

// Set stores v at raw index (i,j), which may be a ghost index.
func (c *CellArray) Set(i, j int, v float64) { c.data.Set(v, i, j) }

// Add accumulates v into the value at (i,j).
func (c *CellArray) Add(i, j int, v float64) {
	c.data.Set(c.data.Get(i, j)+v, i, j)
}

// Fill sets every raw cell, including ghosts, to v.
func (c *CellArray) Fill(v float64) {
	for i := 0; i < c.g.Qx; i++ {
		for j := 0; j < c.g.Qy; j++ {
			c.data.Set(v, i, j)
		}
	}
}

// Zero sets every raw cell, including ghosts, to zero.
func (c *CellArray) Zero() { c.Fill(0) }

// Copy returns a deep copy bound to the same grid.
func (c *CellArray) Copy() *CellArray {
	return &CellArray{g: c.g, data: c.data.Copy()}
}

// CopyFrom overwrites c's raw contents with src's. The two arrays must
// share the same shape.
func (c *CellArray) CopyFrom(src *CellArray) error {
	if src.g.Qx != c.g.Qx || src.g.Qy != c.g.Qy {
		return fmt.Errorf("flowmg: grid: CopyFrom shape mismatch (%d,%d) vs (%d,%d)",
			c.g.Qx, c.g.Qy, src.g.Qx, src.g.Qy)
	}
	for i := 0; i < c.g.Qx; i++ {
		for j := 0; j < c.g.Qy; j++ {
			c.data.Set(src.data.Get(i, j), i, j)
		}
	}
	return nil
}

// CopyInteriorGhost copies the interior plus one ghost layer from src into
// c, matching the "one ghost layer of validity" contract used when handing
// a multigrid solution back to the flow grid (spec. the MG levels and the
// flow grid have different ghost widths, so only the interior plus a
// single ring is guaranteed valid on both sides).
func (c *CellArray) CopyInteriorGhost(src *CellArray) {
	g := c.g
	for i := g.Ilo - 1; i <= g.Ihi+1; i++ {
		for j := g.Jlo - 1; j <= g.Jhi+1; j++ {
			c.data.Set(src.data.Get(i, j), i, j)
		}
	}
}

// SetInteriorFrom copies only the interior cells from src into c, mapped by
// relative offset from each array's own (Ilo, Jlo). The two arrays must
// have the same interior shape (Nx, Ny) but may differ in ghost width or
// physical grid, as happens when handing a right-hand side computed on the
// flow grid to the finest multigrid level.
func (c *CellArray) SetInteriorFrom(src *CellArray) error {
	if c.g.Nx != src.g.Nx || c.g.Ny != src.g.Ny {
		return fmt.Errorf("flowmg: grid: SetInteriorFrom interior shape mismatch (%d,%d) vs (%d,%d)",
			c.g.Nx, c.g.Ny, src.g.Nx, src.g.Ny)
	}
	for di := 0; di < c.g.Nx; di++ {
		for dj := 0; dj < c.g.Ny; dj++ {
			c.data.Set(src.data.Get(src.g.Ilo+di, src.g.Jlo+dj), c.g.Ilo+di, c.g.Jlo+dj)
		}
	}
	return nil
}

// SetInteriorGhostFrom copies the interior plus one ghost layer from src
// into c, mapped by relative offset. Both arrays must have ng>=1 and the
// same interior shape. This is the cross-grid counterpart of
// CopyInteriorGhost, used when a multigrid solution (ng=1) is copied back
// into a flow-state field (ng=4): only the interior and its immediate
// ghost ring are guaranteed valid afterward.
func (c *CellArray) SetInteriorGhostFrom(src *CellArray) error {
	if c.g.Nx != src.g.Nx || c.g.Ny != src.g.Ny {
		return fmt.Errorf("flowmg: grid: SetInteriorGhostFrom interior shape mismatch (%d,%d) vs (%d,%d)",
			c.g.Nx, c.g.Ny, src.g.Nx, src.g.Ny)
	}
	for di := -1; di <= c.g.Nx; di++ {
		for dj := -1; dj <= c.g.Ny; dj++ {
			c.data.Set(src.data.Get(src.g.Ilo+di, src.g.Jlo+dj), c.g.Ilo+di, c.g.Jlo+dj)
		}
	}
	return nil
}

// Values returns a flat, row-major copy of every raw cell (including
// ghosts), for serialization (e.g. checkpointing).
func (c *CellArray) Values() []float64 {
	out := make([]float64, len(c.data.Elements))
	copy(out, c.data.Elements)
	return out
}

// SetValues overwrites every raw cell from a flat, row-major slice
// previously produced by Values. len(vals) must equal g.Qx*g.Qy.
func (c *CellArray) SetValues(vals []float64) error {
	if len(vals) != c.g.Qx*c.g.Qy {
		return fmt.Errorf("flowmg: grid: SetValues got %d values; want %d", len(vals), c.g.Qx*c.g.Qy)
	}
	copy(c.data.Elements, vals)
	return nil
}

// Norm computes the L2 grid norm over the interior: sqrt(dx*dy*sum(v^2)).
func (c *CellArray) Norm() float64 {
	g := c.g
	var sum float64
	for i := g.Ilo; i <= g.Ihi; i++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			v := c.data.Get(i, j)
			sum += v * v
		}
	}
	return math.Sqrt(g.Dx * g.Dy * sum)
}

// ForEachInterior calls f with every interior index pair.
func (c *CellArray) ForEachInterior(f func(i, j int)) {
	g := c.g
	for i := g.Ilo; i <= g.Ihi; i++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			f(i, j)
		}
	}
}
