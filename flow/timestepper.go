package flow

import (
	"fmt"
	"math"

	"github.com/ctessum/flowmg/advect"
	"github.com/ctessum/flowmg/grid"
	"github.com/ctessum/flowmg/mg"
)

// Config is the typed parameter lookup TimeStepper reads mesh geometry,
// boundary kinds, and solver options from. Concrete implementations (e.g.
// a viper-backed one) only need to satisfy this method set.
type Config interface {
	Float(key string) (float64, error)
	Int(key string) (int, error)
	String(key string) (string, error)
}

// Problem is the scenario-specific collaborator that seeds a flow state's
// initial condition and runs any end-of-run bookkeeping.
type Problem interface {
	InitData(s *State, cfg Config) error
	Finalize(s *State)
}

const velocityEpsilon = 1e-12

// TimeStepper owns the flow state and orchestrates preevolve/evolve
// around the Advector and Projector collaborators, per the reference
// algorithm's initialized -> pre-evolved -> evolving state machine.
type TimeStepper struct {
	State     *State
	Projector Projector
	Advector  advect.Advector

	CFL      float64
	Limiter  advect.Limiter
	ProjType int

	cfg        Config
	problem    Problem
	preevolved bool
}

// NewTimeStepper constructs a TimeStepper that will pull its geometry,
// boundary conditions, and solver options from cfg at Initialize time.
func NewTimeStepper(cfg Config, prob Problem, adv advect.Advector) *TimeStepper {
	return &TimeStepper{cfg: cfg, problem: prob, Advector: adv}
}

func parseEdges(cfg Config) (grid.BCPolicy, error) {
	var bc grid.BCPolicy
	for key, dst := range map[string]*grid.EdgeKind{
		"mesh.xlboundary": &bc.XLo,
		"mesh.xrboundary": &bc.XHi,
		"mesh.ylboundary": &bc.YLo,
		"mesh.yrboundary": &bc.YHi,
	} {
		s, err := cfg.String(key)
		if err != nil {
			return bc, err
		}
		kind, err := grid.ParseEdgeKind(s)
		if err != nil {
			return bc, err
		}
		*dst = kind
	}
	return bc, nil
}

// Initialize builds the grid and flow state from configuration, registers
// boundary conditions, and invokes the problem collaborator's initial
// condition.
func (ts *TimeStepper) Initialize() error {
	nx, err := ts.cfg.Int("mesh.nx")
	if err != nil {
		return err
	}
	ny, err := ts.cfg.Int("mesh.ny")
	if err != nil {
		return err
	}
	xmin, err := ts.cfg.Float("mesh.xmin")
	if err != nil {
		return err
	}
	xmax, err := ts.cfg.Float("mesh.xmax")
	if err != nil {
		return err
	}
	ymin, err := ts.cfg.Float("mesh.ymin")
	if err != nil {
		return err
	}
	ymax, err := ts.cfg.Float("mesh.ymax")
	if err != nil {
		return err
	}
	if nx != ny {
		return fmt.Errorf("flowmg: flow: mesh.nx (%d) must equal mesh.ny (%d) for the multigrid solver", nx, ny)
	}

	bc, err := parseEdges(ts.cfg)
	if err != nil {
		return err
	}

	g, err := grid.NewGrid2D(nx, ny, 4, xmin, xmax, ymin, ymax)
	if err != nil {
		return err
	}
	// The flow grid's geometry must also be usable as a multigrid finest
	// level (square, power-of-two nx); fail now rather than on the first
	// Poisson solve.
	if _, err := mg.NewHierarchy(nx, xmin, xmax, ymin, ymax, bc); err != nil {
		return err
	}

	ts.State = NewState(g, bc)
	ts.Projector = Projector{Scalar: ts.State.BC.Scalar}

	cfl, err := ts.cfg.Float("driver.cfl")
	if err != nil {
		return err
	}
	if cfl <= 0 || cfl > 1 {
		return fmt.Errorf("flowmg: flow: driver.cfl = %g; want 0 < cfl <= 1", cfl)
	}
	ts.CFL = cfl

	limOpt, err := ts.cfg.Int("incompressible.limiter")
	if err != nil {
		return err
	}
	lim, err := advect.ParseLimiter(limOpt)
	if err != nil {
		return err
	}
	ts.Limiter = lim

	projType, err := ts.cfg.Int("incompressible.proj_type")
	if err != nil {
		return err
	}
	if projType != 1 && projType != 2 {
		return fmt.Errorf("flowmg: flow: incompressible.proj_type = %d; want 1 or 2", projType)
	}
	ts.ProjType = projType

	if err := ts.problem.InitData(ts.State, ts.cfg); err != nil {
		return err
	}
	return ts.State.FillVelocityGhosts()
}

// Timestep computes dt = CFL * min(dx/|u|, dy/|v|) over the interior. A
// field that is identically zero everywhere has no CFL constraint from
// that component; if both are, the caller-visible epsilon floor keeps dt
// finite rather than infinite.
func (ts *TimeStepper) Timestep() float64 {
	g := ts.State.Grid
	maxU, maxV := 0.0, 0.0
	ts.State.U.ForEachInterior(func(i, j int) {
		if a := math.Abs(ts.State.U.At(i, j)); a > maxU {
			maxU = a
		}
	})
	ts.State.V.ForEachInterior(func(i, j int) {
		if a := math.Abs(ts.State.V.At(i, j)); a > maxV {
			maxV = a
		}
	})
	if maxU < velocityEpsilon {
		maxU = velocityEpsilon
	}
	if maxV < velocityEpsilon {
		maxV = velocityEpsilon
	}
	return ts.CFL * math.Min(g.Dx/maxU, g.Dy/maxV)
}

// Preevolve runs the one-time initial projection and half-step pressure
// gradient estimate. It must be called exactly once, before the first
// Evolve.
func (ts *TimeStepper) Preevolve() error {
	if ts.preevolved {
		return fmt.Errorf("flowmg: flow: Preevolve called more than once")
	}
	s := ts.State
	g := s.Grid

	if err := s.FillVelocityGhosts(); err != nil {
		return err
	}

	// Initial divergence-free projection uses periodic BCs for phi
	// regardless of the configured velocity BCs; this mirrors a known
	// simplification in the reference time integrator.
	periodic := grid.BCPolicy{XLo: grid.Periodic, XHi: grid.Periodic, YLo: grid.Periodic, YHi: grid.Periodic}
	initProj := Projector{Scalar: periodic}
	div := cellDivergence(g, s.U, s.V)
	phi0, _, err := initProj.poissonSolve(g, nil, div, 1e-10)
	if err != nil {
		return fmt.Errorf("flowmg: flow: initial projection: %w", err)
	}
	s.U.ForEachInterior(func(i, j int) {
		s.U.Add(i, j, -0.5*(phi0.At(i+1, j)-phi0.At(i-1, j))/g.Dx)
		s.V.Add(i, j, -0.5*(phi0.At(i, j+1)-phi0.At(i, j-1))/g.Dy)
	})

	clone := s.Clone()

	dt := ts.Timestep()
	origProjType := ts.ProjType
	ts.ProjType = 1
	evolveErr := ts.Evolve(dt)
	ts.ProjType = origProjType
	if evolveErr != nil {
		return evolveErr
	}

	if err := s.RestoreFrom(clone); err != nil {
		return err
	}
	ts.preevolved = true
	return nil
}

// Evolve advances the flow state by one step of size dt.
func (ts *TimeStepper) Evolve(dt float64) error {
	s := ts.State
	g := s.Grid

	if err := s.FillVelocityGhosts(); err != nil {
		return err
	}

	uMAC, vMAC := ts.Advector.MacVels(g, dt, s.U, s.V, s.GradPX, s.GradPY, ts.Limiter)

	phiMAC, _, err := ts.Projector.MAC(g, uMAC, vMAC)
	if err != nil {
		return err
	}
	s.PhiMAC = phiMAC

	edge := ts.Advector.States(g, dt, s.U, s.V, s.GradPX, s.GradPY, uMAC, vMAC, ts.Limiter)

	advectX := grid.NewCellArray(g)
	advectY := grid.NewCellArray(g)
	advectX.ForEachInterior(func(i, j int) {
		ubar := 0.5 * (uMAC.At(i, j) + uMAC.At(i+1, j))
		vbar := 0.5 * (vMAC.At(i, j) + vMAC.At(i, j+1))
		advectX.Set(i, j, ubar*(edge.UxInt.At(i+1, j)-edge.UxInt.At(i, j))/g.Dx+
			vbar*(edge.UyInt.At(i, j+1)-edge.UyInt.At(i, j))/g.Dy)
		advectY.Set(i, j, ubar*(edge.VxInt.At(i+1, j)-edge.VxInt.At(i, j))/g.Dx+
			vbar*(edge.VyInt.At(i, j+1)-edge.VyInt.At(i, j))/g.Dy)
	})

	switch ts.ProjType {
	case 1:
		s.U.ForEachInterior(func(i, j int) {
			s.U.Add(i, j, -dt*(advectX.At(i, j)+s.GradPX.At(i, j)))
			s.V.Add(i, j, -dt*(advectY.At(i, j)+s.GradPY.At(i, j)))
		})
	case 2:
		s.U.ForEachInterior(func(i, j int) {
			s.U.Add(i, j, -dt*advectX.At(i, j))
			s.V.Add(i, j, -dt*advectY.At(i, j))
		})
	default:
		return fmt.Errorf("flowmg: flow: invalid proj_type %d", ts.ProjType)
	}

	if err := s.FillVelocityGhosts(); err != nil {
		return err
	}

	phi, gradX, gradY, _, err := ts.Projector.Final(g, s.U, s.V, s.Phi, dt)
	if err != nil {
		return err
	}
	s.Phi = phi

	switch ts.ProjType {
	case 1:
		s.GradPX.ForEachInterior(func(i, j int) {
			s.GradPX.Add(i, j, gradX.At(i, j))
			s.GradPY.Add(i, j, gradY.At(i, j))
		})
	case 2:
		if err := s.GradPX.CopyFrom(gradX); err != nil {
			return err
		}
		if err := s.GradPY.CopyFrom(gradY); err != nil {
			return err
		}
	}

	if err := s.FillScalarGhosts(); err != nil {
		return err
	}

	s.T += dt
	s.N++
	return nil
}
