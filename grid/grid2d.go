// Package grid implements the cell-centered finite-volume geometry shared
// by the flow solver and the multigrid hierarchy: grid indexing, an owning
// 2D scalar field with ghost cells, and the boundary-condition fill that
// populates them.
package grid

import "fmt"

// Grid2D describes a uniform, rectangular, cell-centered mesh with a ring
// of ng ghost cells on every side. The same type is used for the flow
// solver's grid (ng=4, needed by the upwind edge-state reconstruction) and
// for each level of a multigrid hierarchy (ng=1).
type Grid2D struct {
	Nx, Ny int // interior cell counts
	Ng     int // ghost-cell width

	Xmin, Xmax float64
	Ymin, Ymax float64

	Dx, Dy float64 // derived spacings

	Qx, Qy int // total extent including ghosts: nx+2*ng, ny+2*ng

	// Interior index ranges, inclusive: [Ilo..Ihi], [Jlo..Jhi].
	Ilo, Ihi int
	Jlo, Jhi int
}

// NewGrid2D builds the geometry for an nx-by-ny interior mesh over
// [xmin,xmax] x [ymin,ymax] with ng ghost cells per side.
func NewGrid2D(nx, ny, ng int, xmin, xmax, ymin, ymax float64) (*Grid2D, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("flowmg: grid: nx and ny must be positive, got nx=%d ny=%d", nx, ny)
	}
	if ng < 0 {
		return nil, fmt.Errorf("flowmg: grid: ng must be non-negative, got %d", ng)
	}
	if xmax <= xmin || ymax <= ymin {
		return nil, fmt.Errorf("flowmg: grid: invalid extents [%g,%g] x [%g,%g]", xmin, xmax, ymin, ymax)
	}
	g := &Grid2D{
		Nx: nx, Ny: ny, Ng: ng,
		Xmin: xmin, Xmax: xmax,
		Ymin: ymin, Ymax: ymax,
		Dx: (xmax - xmin) / float64(nx),
		Dy: (ymax - ymin) / float64(ny),
		Qx: nx + 2*ng,
		Qy: ny + 2*ng,
		Ilo: ng, Ihi: ng + nx - 1,
		Jlo: ng, Jhi: ng + ny - 1,
	}
	return g, nil
}

// ScratchArray returns a fresh, zeroed CellArray matching this grid's shape.
func (g *Grid2D) ScratchArray() *CellArray {
	return NewCellArray(g)
}

// Coarsened returns the geometry one multigrid level down: half the
// interior resolution, twice the spacing, same physical extents and ghost
// width. It is the caller's responsibility to only call this down to a
// 1x1 interior.
func (g *Grid2D) Coarsened() (*Grid2D, error) {
	if g.Nx%2 != 0 || g.Ny%2 != 0 {
		return nil, fmt.Errorf("flowmg: grid: cannot coarsen odd interior size nx=%d ny=%d", g.Nx, g.Ny)
	}
	return NewGrid2D(g.Nx/2, g.Ny/2, g.Ng, g.Xmin, g.Xmax, g.Ymin, g.Ymax)
}
