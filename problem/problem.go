// Package problem supplies the named initial-condition scenarios the
// flow.TimeStepper's Problem collaborator slot expects, plus a static
// lookup by name in place of the reference implementation's dynamic
// module-import dispatch.
package problem

import (
	"fmt"
	"math"

	"github.com/ctessum/flowmg/flow"
)

// TaylorGreen seeds the inviscid Taylor-Green vortex, an exact steady
// state of the incompressible Euler equations on a periodic domain:
// u = -cos(pi x) sin(pi y), v = sin(pi x) cos(pi y). The field has period 2
// in x and y, so a periodic domain such as [0,2] x [0,2] matches it; on the
// unit square the periodic ghost fill does not.
type TaylorGreen struct{}

func cellCenter(s *flow.State, i, j int) (float64, float64) {
	g := s.Grid
	x := g.Xmin + (float64(i-g.Ilo)+0.5)*g.Dx
	y := g.Ymin + (float64(j-g.Jlo)+0.5)*g.Dy
	return x, y
}

// InitData implements flow.Problem.
func (TaylorGreen) InitData(s *flow.State, cfg flow.Config) error {
	s.U.ForEachInterior(func(i, j int) {
		x, y := cellCenter(s, i, j)
		s.U.Set(i, j, -math.Cos(math.Pi*x)*math.Sin(math.Pi*y))
	})
	s.V.ForEachInterior(func(i, j int) {
		x, y := cellCenter(s, i, j)
		s.V.Set(i, j, math.Sin(math.Pi*x)*math.Cos(math.Pi*y))
	})
	return nil
}

// Finalize implements flow.Problem; Taylor-Green has no end-of-run work.
func (TaylorGreen) Finalize(s *flow.State) {}

// ShearLayer seeds a tanh-profile shear layer with a small sinusoidal
// perturbation in v, a classic roll-up test for the advection scheme:
// u = tanh(30*(1/4 - |y - 1/2|)), v = 0.05*sin(2*pi*x).
type ShearLayer struct{}

func (ShearLayer) InitData(s *flow.State, cfg flow.Config) error {
	s.U.ForEachInterior(func(i, j int) {
		_, y := cellCenter(s, i, j)
		s.U.Set(i, j, math.Tanh(30*(0.25-math.Abs(y-0.5))))
	})
	s.V.ForEachInterior(func(i, j int) {
		x, _ := cellCenter(s, i, j)
		s.V.Set(i, j, 0.05*math.Sin(2*math.Pi*x))
	})
	return nil
}

func (ShearLayer) Finalize(s *flow.State) {}

// SolidWallReflection seeds u=sin(pi x)sin(pi y), v=0 for use against a
// reflecting (x-reflect, y-periodic) domain: the component normal to the
// x-walls must be odd-reflected, so the wall-normal flux through the ghost
// row exactly cancels the first interior row.
type SolidWallReflection struct{}

func (SolidWallReflection) InitData(s *flow.State, cfg flow.Config) error {
	s.U.ForEachInterior(func(i, j int) {
		x, y := cellCenter(s, i, j)
		s.U.Set(i, j, math.Sin(math.Pi*x)*math.Sin(math.Pi*y))
	})
	s.V.Fill(0)
	return nil
}

func (SolidWallReflection) Finalize(s *flow.State) {}

// Lookup resolves a scenario by configuration name. Unlike the reference
// implementation, which imports a Python module named after the problem at
// runtime, scenarios here are a fixed, compiled-in registry.
func Lookup(name string) (flow.Problem, error) {
	switch name {
	case "taylor_green":
		return TaylorGreen{}, nil
	case "shear_layer":
		return ShearLayer{}, nil
	case "solid_wall_reflection":
		return SolidWallReflection{}, nil
	default:
		return nil, fmt.Errorf("flowmg: problem: unknown scenario %q", name)
	}
}
