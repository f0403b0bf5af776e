package grid

import "fmt"

// EdgeKind names one of the boundary-condition families a Grid2D edge can
// be assigned.
type EdgeKind int

const (
	Periodic EdgeKind = iota
	Reflect
	Outflow
	Dirichlet
	Neumann
)

// ParseEdgeKind resolves the string names accepted by the configuration
// lookup (spec: mesh.{x,y}{l,r}boundary).
func ParseEdgeKind(s string) (EdgeKind, error) {
	switch s {
	case "periodic":
		return Periodic, nil
	case "reflect":
		return Reflect, nil
	case "outflow":
		return Outflow, nil
	case "dirichlet":
		return Dirichlet, nil
	case "neumann":
		return Neumann, nil
	default:
		return 0, fmt.Errorf("flowmg: grid: unknown boundary kind %q", s)
	}
}

// BCPolicy fills the ghost region of a CellArray. It is a pure function of
// the per-edge kinds and an optional odd-reflection axis: the same edge
// kinds produce different ghost values for a normal-velocity component
// (OddReflectDir set) than for a tangential component or a scalar field
// (OddReflectDir unset), per spec.
type BCPolicy struct {
	XLo, XHi, YLo, YHi EdgeKind

	// OddReflectDir is "x", "y", or "" (no odd reflection). When set, a
	// Reflect edge along that axis flips sign across the wall instead of
	// mirroring, as required for the velocity component normal to a
	// reflecting wall.
	OddReflectDir string
}

// Validate checks that periodic is declared on both opposing edges or
// neither, and that OddReflectDir, if set, names an axis.
func (bc BCPolicy) Validate() error {
	if (bc.XLo == Periodic) != (bc.XHi == Periodic) {
		return fmt.Errorf("flowmg: grid: periodic BC must be set on both x edges or neither")
	}
	if (bc.YLo == Periodic) != (bc.YHi == Periodic) {
		return fmt.Errorf("flowmg: grid: periodic BC must be set on both y edges or neither")
	}
	switch bc.OddReflectDir {
	case "", "x", "y":
	default:
		return fmt.Errorf("flowmg: grid: invalid odd-reflection axis %q", bc.OddReflectDir)
	}
	return nil
}

// Fill populates all Ng ghost layers of c on every edge.
func (bc BCPolicy) Fill(c *CellArray) error {
	if err := bc.Validate(); err != nil {
		return err
	}
	g := c.g

	bc.fillX(c, g)
	bc.fillY(c, g)
	return nil
}

func (bc BCPolicy) fillX(c *CellArray, g *Grid2D) {
	odd := bc.OddReflectDir == "x"
	if bc.XLo == Periodic {
		for k := 1; k <= g.Ng; k++ {
			for j := g.Jlo; j <= g.Jhi; j++ {
				c.Set(g.Ilo-k, j, c.At(g.Ihi-k+1, j))
				c.Set(g.Ihi+k, j, c.At(g.Ilo+k-1, j))
			}
		}
		return
	}
	for j := g.Jlo; j <= g.Jhi; j++ {
		applyEdge(c, g.Ng, bc.XLo, odd,
			func(k int) (ghost, mirror, edge [2]int) {
				return [2]int{g.Ilo - k, j}, [2]int{g.Ilo + k - 1, j}, [2]int{g.Ilo, j}
			})
		applyEdge(c, g.Ng, bc.XHi, odd,
			func(k int) (ghost, mirror, edge [2]int) {
				return [2]int{g.Ihi + k, j}, [2]int{g.Ihi - k + 1, j}, [2]int{g.Ihi, j}
			})
	}
}

func (bc BCPolicy) fillY(c *CellArray, g *Grid2D) {
	odd := bc.OddReflectDir == "y"
	if bc.YLo == Periodic {
		for k := 1; k <= g.Ng; k++ {
			for i := 0; i < g.Qx; i++ {
				c.Set(i, g.Jlo-k, c.At(i, g.Jhi-k+1))
				c.Set(i, g.Jhi+k, c.At(i, g.Jlo+k-1))
			}
		}
		return
	}
	for i := 0; i < g.Qx; i++ {
		applyEdge(c, g.Ng, bc.YLo, odd,
			func(k int) (ghost, mirror, edge [2]int) {
				return [2]int{i, g.Jlo - k}, [2]int{i, g.Jlo + k - 1}, [2]int{i, g.Jlo}
			})
		applyEdge(c, g.Ng, bc.YHi, odd,
			func(k int) (ghost, mirror, edge [2]int) {
				return [2]int{i, g.Jhi + k}, [2]int{i, g.Jhi - k + 1}, [2]int{i, g.Jhi}
			})
	}
}

// applyEdge fills one edge's ng ghost layers; idx(k) returns the ghost
// index, the mirror (interior) index used by reflection/dirichlet, and the
// boundary interior index used by outflow's constant extrapolation.
func applyEdge(c *CellArray, ng int, kind EdgeKind, odd bool, idx func(k int) (ghost, mirror, edge [2]int)) {
	for k := 1; k <= ng; k++ {
		ghost, mirror, edge := idx(k)
		switch kind {
		case Outflow:
			c.Set(ghost[0], ghost[1], c.At(edge[0], edge[1]))
		case Neumann:
			c.Set(ghost[0], ghost[1], c.At(mirror[0], mirror[1]))
		case Dirichlet:
			c.Set(ghost[0], ghost[1], -c.At(mirror[0], mirror[1]))
		case Reflect:
			if odd {
				c.Set(ghost[0], ghost[1], -c.At(mirror[0], mirror[1]))
			} else {
				c.Set(ghost[0], ghost[1], c.At(mirror[0], mirror[1]))
			}
		case Periodic:
			// handled by caller before reaching here
		}
	}
}
