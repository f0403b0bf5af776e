package mg

import (
	"fmt"
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/sirupsen/logrus"

	"github.com/ctessum/flowmg/grid"
)

// Diagnostics summarizes one Solve call.
type Diagnostics struct {
	Cycles int
	// ResidualNorm is the L2 norm of the finest-level residual after the
	// final cycle.
	ResidualNorm float64
	// RelativeResidual is ResidualNorm divided by the L2 norm of the
	// initial right-hand side (1 if the right-hand side is identically
	// zero).
	RelativeResidual float64
	Converged        bool
	// ConvergenceRate is the slope of a linear regression of
	// log10(residual norm) against cycle number: a converging V-cycle
	// produces roughly constant per-cycle error reduction, so this should
	// be a stable negative number once past the first cycle or two.
	ConvergenceRate float64
	RSquared        float64
}

// Solver drives V-cycles of the Helmholtz operator
// (alpha - beta*Laplacian)v = f over a Hierarchy.
type Solver struct {
	H     *Hierarchy
	Alpha, Beta float64
	Nsmooth   int
	MaxCycles int
	Verbose   bool

	smoother Smoother

	solutionSet bool
	rhsSet      bool
	rhsNorm     float64

	log *logrus.Entry
}

// NewSolver builds a Solver over a fresh Hierarchy for an nx-by-nx (power
// of two) square domain.
func NewSolver(nx int, xmin, xmax, ymin, ymax, alpha, beta float64, bc grid.BCPolicy) (*Solver, error) {
	h, err := NewHierarchy(nx, xmin, xmax, ymin, ymax, bc)
	if err != nil {
		return nil, err
	}
	return &Solver{
		H:         h,
		Alpha:     alpha,
		Beta:      beta,
		Nsmooth:   10,
		MaxCycles: 100,
		log:       logrus.WithField("component", "mg"),
	}, nil
}

// SetParallel toggles concurrent relaxation of each red-black subgroup.
func (s *Solver) SetParallel(p bool) { s.smoother.Parallel = p }

// InitSolution seeds the finest level's solution with field, which must be
// shaped like the finest grid's interior-plus-ghost array.
func (s *Solver) InitSolution(field *grid.CellArray) error {
	finest := s.H.Finest()
	if err := finest.V.CopyFrom(field); err != nil {
		return err
	}
	s.solutionSet = true
	return nil
}

// InitZeros seeds the finest level's solution with zeros.
func (s *Solver) InitZeros() {
	s.H.Finest().V.Zero()
	s.solutionSet = true
}

// InitRHS seeds the finest level's right-hand side with field.
func (s *Solver) InitRHS(field *grid.CellArray) error {
	finest := s.H.Finest()
	if err := finest.F.CopyFrom(field); err != nil {
		return err
	}
	s.rhsSet = true
	s.rhsNorm = finest.F.Norm()
	return nil
}

// GetSolution returns the finest level's current solution.
func (s *Solver) GetSolution() *grid.CellArray { return s.H.Finest().V }

// Solve runs V-cycles until the finest-level relative residual drops below
// rtol or MaxCycles is reached, whichever comes first.
func (s *Solver) Solve(rtol float64) (Diagnostics, error) {
	if !s.solutionSet {
		return Diagnostics{}, fmt.Errorf("flowmg: mg: Solve called before InitSolution/InitZeros")
	}
	if !s.rhsSet {
		return Diagnostics{}, fmt.Errorf("flowmg: mg: Solve called before InitRHS")
	}

	finest := s.H.Finest()
	denom := s.rhsNorm
	if denom == 0 {
		denom = 1
	}

	var logResid []float64
	var cycleIdx []float64

	diag := Diagnostics{}
	for cycle := 1; cycle <= s.MaxCycles; cycle++ {
		if err := s.vcycle(len(s.H.Levels) - 1); err != nil {
			return diag, err
		}

		if err := s.H.BC.Fill(finest.V); err != nil {
			return diag, err
		}
		Residual(finest, s.Alpha, s.Beta)
		resid := finest.R.Norm()
		rel := resid / denom

		diag.Cycles = cycle
		diag.ResidualNorm = resid
		diag.RelativeResidual = rel

		if resid > 0 {
			logResid = append(logResid, math.Log10(resid))
			cycleIdx = append(cycleIdx, float64(cycle))
		}

		if s.Verbose {
			s.log.WithFields(logrus.Fields{"cycle": cycle, "residual": resid, "relative": rel}).Debug("v-cycle")
		}

		if rel < rtol {
			diag.Converged = true
			break
		}
	}

	if len(cycleIdx) >= 2 {
		slope, _, rsq, _, _, _ := stats.LinearRegression(cycleIdx, logResid)
		diag.ConvergenceRate = slope
		diag.RSquared = rsq
	}

	return diag, nil
}

// vcycle recurses from level lvl down to the coarsest level and back,
// smoothing on the way down, solving exactly at the bottom, and correcting
// on the way up.
func (s *Solver) vcycle(lvl int) error {
	level := s.H.Levels[lvl]
	bc := s.H.BC

	if lvl == 0 {
		// Bottom solve: on the 1x1-interior grid, with each ghost equal to
		// -v (homogeneous Dirichlet), the Laplacian stencil reduces to
		// -8*v/dx^2, giving the closed form v = -0.125 * f * dx^2 for the
		// Poisson case alpha = 0, beta = -1. Whenever alpha is zero we solve
		// the same closed form here and treat a nonzero alpha as an
		// additional relaxation pass, since the bottom level is too
		// coarse for red-black parity to mean anything.
		g := level.Grid
		i, j := g.Ilo, g.Jlo
		if s.Alpha == 0 {
			level.V.Set(i, j, -0.125*level.F.At(i, j)*g.Dx*g.Dx)
		} else {
			if err := s.smoother.Smooth(level, bc, s.Alpha, s.Beta, s.Nsmooth); err != nil {
				return err
			}
		}
		return bc.Fill(level.V)
	}

	if err := s.smoother.Smooth(level, bc, s.Alpha, s.Beta, s.Nsmooth); err != nil {
		return err
	}

	if err := bc.Fill(level.V); err != nil {
		return err
	}
	Residual(level, s.Alpha, s.Beta)

	coarse := s.H.Levels[lvl-1]
	if err := coarse.F.CopyFrom(Restrict(level.R, coarse.Grid)); err != nil {
		return err
	}
	coarse.V.Zero()

	if err := s.vcycle(lvl - 1); err != nil {
		return err
	}

	correction, err := Prolong(coarse.V, bc, level.Grid)
	if err != nil {
		return err
	}
	level.V.ForEachInterior(func(i, j int) {
		level.V.Add(i, j, correction.At(i, j))
	})

	if err := bc.Fill(level.V); err != nil {
		return err
	}
	return s.smoother.Smooth(level, bc, s.Alpha, s.Beta, s.Nsmooth)
}
