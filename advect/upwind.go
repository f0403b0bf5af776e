package advect

import (
	atmosadvect "github.com/ctessum/atmos/advect"

	"github.com/ctessum/flowmg/grid"
)

// UpwindAdvector is a reference implementation of Advector using a
// second-order Godunov trace (Taylor-extrapolate each cell's value to the
// face, biased by the advective CFL number and the persisted pressure
// gradient) followed by an upwind pick between the two one-sided
// predictions. The upwind pick reuses atmos/advect's single-face upwind
// branch (UpwindFlux picks the donor cell by the sign of the face
// velocity); dividing its flux back out by the face velocity recovers the
// donor state, with the degenerate zero-velocity face resolved by
// averaging instead.
type UpwindAdvector struct{}

func upwindPick(vel, left, right float64) float64 {
	if vel == 0 {
		return 0.5 * (left + right)
	}
	// UpwindFlux(vel, left, right, 1) == vel*left (vel>0) or vel*right
	// (vel<=0); dividing by vel recovers the donor state itself.
	return atmosadvect.UpwindFlux(vel, left, right, 1) / vel
}

// traceLeft extrapolates the cell at (i,j)'s value forward to its +1/2
// face using the limited slope, the local CFL ratio, and forcing g (the
// persisted pressure gradient component along the trace direction).
func traceLeft(val, slope, vel, dtdx, g, dt float64) float64 {
	return val + 0.5*(1-dtdx*vel)*slope - 0.5*dt*g
}

// traceRight extrapolates the cell's value backward from its -1/2 face.
func traceRight(val, slope, vel, dtdx, g, dt float64) float64 {
	return val - 0.5*(1+dtdx*vel)*slope - 0.5*dt*g
}

func (UpwindAdvector) MacVels(g *grid.Grid2D, dt float64, u, v, gradpX, gradpY *grid.CellArray, lim Limiter) (*grid.CellArray, *grid.CellArray) {
	slopeUx := Slopes(u, 1, lim)
	slopeVy := Slopes(v, 2, lim)

	uMAC := grid.NewCellArray(g)
	for i := g.Ilo; i <= g.Ihi+1; i++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			dtdx := dt / g.Dx
			left := traceLeft(u.At(i-1, j), slopeUx.At(i-1, j), u.At(i-1, j), dtdx, gradpX.At(i-1, j), dt)
			right := traceRight(u.At(i, j), slopeUx.At(i, j), u.At(i, j), dtdx, gradpX.At(i, j), dt)
			uMAC.Set(i, j, upwindPick(0.5*(left+right), left, right))
		}
	}

	vMAC := grid.NewCellArray(g)
	for i := g.Ilo; i <= g.Ihi; i++ {
		for j := g.Jlo; j <= g.Jhi+1; j++ {
			dtdy := dt / g.Dy
			left := traceLeft(v.At(i, j-1), slopeVy.At(i, j-1), v.At(i, j-1), dtdy, gradpY.At(i, j-1), dt)
			right := traceRight(v.At(i, j), slopeVy.At(i, j), v.At(i, j), dtdy, gradpY.At(i, j), dt)
			vMAC.Set(i, j, upwindPick(0.5*(left+right), left, right))
		}
	}
	return uMAC, vMAC
}

func (UpwindAdvector) States(g *grid.Grid2D, dt float64, u, v, gradpX, gradpY, uMAC, vMAC *grid.CellArray, lim Limiter) EdgeStates {
	slopeUx := Slopes(u, 1, lim)
	slopeUy := Slopes(u, 2, lim)
	slopeVx := Slopes(v, 1, lim)
	slopeVy := Slopes(v, 2, lim)

	uxInt := grid.NewCellArray(g)
	vxInt := grid.NewCellArray(g)
	for i := g.Ilo; i <= g.Ihi+1; i++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			dtdx := dt / g.Dx
			ul := traceLeft(u.At(i-1, j), slopeUx.At(i-1, j), uMAC.At(i, j), dtdx, gradpX.At(i-1, j), dt)
			ur := traceRight(u.At(i, j), slopeUx.At(i, j), uMAC.At(i, j), dtdx, gradpX.At(i, j), dt)
			uxInt.Set(i, j, upwindPick(uMAC.At(i, j), ul, ur))

			vl := traceLeft(v.At(i-1, j), slopeVx.At(i-1, j), uMAC.At(i, j), dtdx, gradpX.At(i-1, j), dt)
			vr := traceRight(v.At(i, j), slopeVx.At(i, j), uMAC.At(i, j), dtdx, gradpX.At(i, j), dt)
			vxInt.Set(i, j, upwindPick(uMAC.At(i, j), vl, vr))
		}
	}

	uyInt := grid.NewCellArray(g)
	vyInt := grid.NewCellArray(g)
	for i := g.Ilo; i <= g.Ihi; i++ {
		for j := g.Jlo; j <= g.Jhi+1; j++ {
			dtdy := dt / g.Dy
			ul := traceLeft(u.At(i, j-1), slopeUy.At(i, j-1), vMAC.At(i, j), dtdy, gradpY.At(i, j-1), dt)
			ur := traceRight(u.At(i, j), slopeUy.At(i, j), vMAC.At(i, j), dtdy, gradpY.At(i, j), dt)
			uyInt.Set(i, j, upwindPick(vMAC.At(i, j), ul, ur))

			vl := traceLeft(v.At(i, j-1), slopeVy.At(i, j-1), vMAC.At(i, j), dtdy, gradpY.At(i, j-1), dt)
			vr := traceRight(v.At(i, j), slopeVy.At(i, j), vMAC.At(i, j), dtdy, gradpY.At(i, j), dt)
			vyInt.Set(i, j, upwindPick(vMAC.At(i, j), vl, vr))
		}
	}

	return EdgeStates{UxInt: uxInt, VxInt: vxInt, UyInt: uyInt, VyInt: vyInt}
}
