package advect

import (
	"fmt"

	"github.com/ctessum/flowmg/grid"
)

func errLimiter(v int) error {
	return fmt.Errorf("flowmg: advect: invalid limiter option %d (want 0, 1, or 2)", v)
}

// EdgeStates holds the four upwind-reconstructed velocity fields States
// produces: u and v, each on both x-faces and y-faces.
type EdgeStates struct {
	UxInt, VxInt *grid.CellArray // u, v on x-faces
	UyInt, VyInt *grid.CellArray // u, v on y-faces
}

// Advector supplies the two upwind Godunov reconstruction kernels
// flow.TimeStepper treats as an external collaborator: predicted
// MAC-staggered face velocities, and final cell-face edge states built
// from those corrected face velocities. g.At(i,j) for a MAC field is the
// face at i-1/2 (x) or j-1/2 (y).
type Advector interface {
	// MacVels predicts unprojected MAC-staggered normal velocities
	// (u_MAC, v_MAC) from the current cell-centered velocity, the
	// persisted pressure gradient, dt, and the selected slope limiter.
	MacVels(g *grid.Grid2D, dt float64, u, v, gradpX, gradpY *grid.CellArray, lim Limiter) (uMAC, vMAC *grid.CellArray)
	// States reconstructs upwind edge states of u and v on both x- and
	// y-faces, using MAC velocities already corrected by the MAC
	// projection.
	States(g *grid.Grid2D, dt float64, u, v, gradpX, gradpY, uMAC, vMAC *grid.CellArray, lim Limiter) EdgeStates
}
