// Package flow implements the MAC-staggered projection-method time
// integrator: the flow state, the MAC and final pressure projections, and
// the TimeStepper that orchestrates preevolve/evolve around them.
package flow

import "github.com/ctessum/flowmg/grid"

// BCSet derives the three boundary-condition variants the flow state
// needs from one base policy: the velocity component normal to a
// reflecting wall is odd-reflected, its tangential counterpart and every
// scalar field are even-reflected, per spec.
type BCSet struct {
	U, V, Scalar grid.BCPolicy
}

// NewBCSet builds the odd/even variants of base for u, v, and the scalar
// fields (phi, phi_MAC, gradp).
func NewBCSet(base grid.BCPolicy) BCSet {
	u := base
	u.OddReflectDir = "x"
	v := base
	v.OddReflectDir = "y"
	scalar := base
	scalar.OddReflectDir = ""
	return BCSet{U: u, V: v, Scalar: scalar}
}

// State is the flow-state owned exclusively by a TimeStepper: the
// MAC-staggered/cell-centered velocity and pressure-like fields on one
// Grid2D, plus the persisted pressure gradient and the simulation clock.
type State struct {
	Grid *grid.Grid2D
	BC   BCSet

	U, V           *grid.CellArray
	Phi, PhiMAC    *grid.CellArray
	GradPX, GradPY *grid.CellArray

	T float64
	N int
}

// NewState allocates a zeroed flow state on g with boundary policy bc.
func NewState(g *grid.Grid2D, bc grid.BCPolicy) *State {
	return &State{
		Grid:   g,
		BC:     NewBCSet(bc),
		U:      grid.NewCellArray(g),
		V:      grid.NewCellArray(g),
		Phi:    grid.NewCellArray(g),
		PhiMAC: grid.NewCellArray(g),
		GradPX: grid.NewCellArray(g),
		GradPY: grid.NewCellArray(g),
	}
}

// FillVelocityGhosts fills u and v's ghost cells per their BC variants.
func (s *State) FillVelocityGhosts() error {
	if err := s.BC.U.Fill(s.U); err != nil {
		return err
	}
	return s.BC.V.Fill(s.V)
}

// FillScalarGhosts fills phi, phi_MAC, and the persisted gradient's ghosts.
func (s *State) FillScalarGhosts() error {
	for _, c := range []*grid.CellArray{s.Phi, s.PhiMAC, s.GradPX, s.GradPY} {
		if err := s.BC.Scalar.Fill(c); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep, independent copy of s.
func (s *State) Clone() *State {
	return &State{
		Grid:   s.Grid,
		BC:     s.BC,
		U:      s.U.Copy(),
		V:      s.V.Copy(),
		Phi:    s.Phi.Copy(),
		PhiMAC: s.PhiMAC.Copy(),
		GradPX: s.GradPX.Copy(),
		GradPY: s.GradPY.Copy(),
		T:      s.T,
		N:      s.N,
	}
}

// RestoreFrom overwrites every field of s with other's, except gradp_x and
// gradp_y, which are left untouched. Used by preevolve step 4 to keep the
// half-step pressure-gradient estimate while discarding the rest of the
// trial evolve.
func (s *State) RestoreFrom(other *State) error {
	if err := s.U.CopyFrom(other.U); err != nil {
		return err
	}
	if err := s.V.CopyFrom(other.V); err != nil {
		return err
	}
	if err := s.Phi.CopyFrom(other.Phi); err != nil {
		return err
	}
	if err := s.PhiMAC.CopyFrom(other.PhiMAC); err != nil {
		return err
	}
	s.T = other.T
	s.N = other.N
	return nil
}
