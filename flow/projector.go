package flow

import (
	"fmt"

	"github.com/ctessum/flowmg/grid"
	"github.com/ctessum/flowmg/mg"
)

// Projector solves the two pressure Poisson problems the time integrator
// needs (MAC and final projection) and applies the resulting velocity
// corrections. Each solve instantiates its own mg.Solver, scoped to the
// call, per spec ownership rules.
type Projector struct {
	Scalar grid.BCPolicy
}

// poissonSolve builds a fresh MGSolver sized to g, seeds it with initial
// (warm-started guess) and rhs (both shaped like g, typically with a
// wider ghost region than the solver's internal ng=1 levels), and returns
// the finest-level solution copied back with one valid ghost ring.
func (p *Projector) poissonSolve(g *grid.Grid2D, initial, rhs *grid.CellArray, rtol float64) (*grid.CellArray, mg.Diagnostics, error) {
	s, err := mg.NewSolver(g.Nx, g.Xmin, g.Xmax, g.Ymin, g.Ymax, 0, -1, p.Scalar)
	if err != nil {
		return nil, mg.Diagnostics{}, err
	}
	if initial == nil {
		s.InitZeros()
	} else {
		warm := grid.NewCellArray(s.H.Finest().Grid)
		if err := warm.SetInteriorFrom(initial); err != nil {
			return nil, mg.Diagnostics{}, err
		}
		if err := s.InitSolution(warm); err != nil {
			return nil, mg.Diagnostics{}, err
		}
	}

	fRHS := grid.NewCellArray(s.H.Finest().Grid)
	if err := fRHS.SetInteriorFrom(rhs); err != nil {
		return nil, mg.Diagnostics{}, err
	}
	if err := s.InitRHS(fRHS); err != nil {
		return nil, mg.Diagnostics{}, err
	}

	diag, err := s.Solve(rtol)
	if err != nil {
		return nil, diag, err
	}

	out := grid.NewCellArray(g)
	if err := out.SetInteriorGhostFrom(s.GetSolution()); err != nil {
		return nil, diag, err
	}
	return out, diag, nil
}

// macDivergence computes the cell-centered divergence of the MAC-staggered
// (uMAC, vMAC) velocities over g's interior: (uMAC_{i+1/2}-uMAC_{i-1/2})/dx
// + (vMAC_{j+1/2}-vMAC_{j-1/2})/dy, where index i of a MAC field stores
// the face at i-1/2.
func macDivergence(g *grid.Grid2D, uMAC, vMAC *grid.CellArray) *grid.CellArray {
	div := grid.NewCellArray(g)
	div.ForEachInterior(func(i, j int) {
		dudx := (uMAC.At(i+1, j) - uMAC.At(i, j)) / g.Dx
		dvdy := (vMAC.At(i, j+1) - vMAC.At(i, j)) / g.Dy
		div.Set(i, j, dudx+dvdy)
	})
	return div
}

// MAC performs the MAC projection: it solves for phi_MAC from the
// divergence of the predicted face velocities and corrects uMAC, vMAC in
// place to be discretely divergence-free.
func (p *Projector) MAC(g *grid.Grid2D, uMAC, vMAC *grid.CellArray) (phiMAC *grid.CellArray, diag mg.Diagnostics, err error) {
	div := macDivergence(g, uMAC, vMAC)

	phiMAC, diag, err = p.poissonSolve(g, nil, div, 1e-12)
	if err != nil {
		return nil, diag, fmt.Errorf("flowmg: flow: MAC projection: %w", err)
	}

	for i := g.Ilo; i <= g.Ihi+1; i++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			uMAC.Add(i, j, -(phiMAC.At(i, j)-phiMAC.At(i-1, j))/g.Dx)
		}
	}
	for i := g.Ilo; i <= g.Ihi; i++ {
		for j := g.Jlo; j <= g.Jhi+1; j++ {
			vMAC.Add(i, j, -(phiMAC.At(i, j)-phiMAC.At(i, j-1))/g.Dy)
		}
	}
	return phiMAC, diag, nil
}

// cellDivergence computes the centered cell-divergence of cell-centered
// (u, v) over g's interior.
func cellDivergence(g *grid.Grid2D, u, v *grid.CellArray) *grid.CellArray {
	div := grid.NewCellArray(g)
	div.ForEachInterior(func(i, j int) {
		dudx := 0.5 * (u.At(i+1, j) - u.At(i-1, j)) / g.Dx
		dvdy := 0.5 * (v.At(i, j+1) - v.At(i, j-1)) / g.Dy
		div.Set(i, j, dudx+dvdy)
	})
	return div
}

// Final performs the final projection: it warm-starts from phiPrev, solves
// for the updated phi using the provisional cell-centered velocity's
// divergence scaled by 1/dt, and corrects (u, v) in place.
func (p *Projector) Final(g *grid.Grid2D, u, v, phiPrev *grid.CellArray, dt float64) (phi, gradX, gradY *grid.CellArray, diag mg.Diagnostics, err error) {
	div := cellDivergence(g, u, v)
	rhs := grid.NewCellArray(g)
	rhs.ForEachInterior(func(i, j int) { rhs.Set(i, j, div.At(i, j)/dt) })

	phi, diag, err = p.poissonSolve(g, phiPrev, rhs, 1e-12)
	if err != nil {
		return nil, nil, nil, diag, fmt.Errorf("flowmg: flow: final projection: %w", err)
	}

	gradX = grid.NewCellArray(g)
	gradY = grid.NewCellArray(g)
	gradX.ForEachInterior(func(i, j int) {
		gradX.Set(i, j, 0.5*(phi.At(i+1, j)-phi.At(i-1, j))/g.Dx)
		gradY.Set(i, j, 0.5*(phi.At(i, j+1)-phi.At(i, j-1))/g.Dy)
	})
	u.ForEachInterior(func(i, j int) {
		u.Add(i, j, -dt*gradX.At(i, j))
		v.Add(i, j, -dt*gradY.At(i, j))
	})
	return phi, gradX, gradY, diag, nil
}
