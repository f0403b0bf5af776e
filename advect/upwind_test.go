package advect

import (
	"math"
	"testing"

	"github.com/ctessum/flowmg/grid"
)

// A uniform velocity field with zero pressure gradient should trace to
// itself at every face: there is nothing for the Godunov reconstruction to
// do when the flow is already constant.
func TestUpwindAdvectorUniformFlowIsSelfConsistent(t *testing.T) {
	g, err := grid.NewGrid2D(8, 8, 4, 0, 1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	bc := grid.BCPolicy{XLo: grid.Periodic, XHi: grid.Periodic, YLo: grid.Periodic, YHi: grid.Periodic}

	u := grid.NewCellArray(g)
	u.Fill(2.0)
	v := grid.NewCellArray(g)
	v.Fill(-1.0)
	if err := bc.Fill(u); err != nil {
		t.Fatal(err)
	}
	if err := bc.Fill(v); err != nil {
		t.Fatal(err)
	}
	gradpX := grid.NewCellArray(g)
	gradpY := grid.NewCellArray(g)

	var adv UpwindAdvector
	uMAC, vMAC := adv.MacVels(g, 0.01, u, v, gradpX, gradpY, NoLimiter)

	for i := g.Ilo; i <= g.Ihi+1; i++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			if math.Abs(uMAC.At(i, j)-2.0) > 1e-12 {
				t.Fatalf("uMAC(%d,%d) = %g; want 2", i, j, uMAC.At(i, j))
			}
		}
	}
	for i := g.Ilo; i <= g.Ihi; i++ {
		for j := g.Jlo; j <= g.Jhi+1; j++ {
			if math.Abs(vMAC.At(i, j)-(-1.0)) > 1e-12 {
				t.Fatalf("vMAC(%d,%d) = %g; want -1", i, j, vMAC.At(i, j))
			}
		}
	}

	states := adv.States(g, 0.01, u, v, gradpX, gradpY, uMAC, vMAC, NoLimiter)
	if states.UxInt.At(g.Ilo, g.Jlo) != 2.0 {
		t.Errorf("UxInt = %g; want 2", states.UxInt.At(g.Ilo, g.Jlo))
	}
	if states.VyInt.At(g.Ilo, g.Jlo) != -1.0 {
		t.Errorf("VyInt = %g; want -1", states.VyInt.At(g.Ilo, g.Jlo))
	}
}

func TestUpwindPickDegenerateZeroVelocity(t *testing.T) {
	if got := upwindPick(0, 1.0, 3.0); got != 2.0 {
		t.Errorf("upwindPick at zero velocity = %g; want average 2", got)
	}
	if got := upwindPick(5, 1.0, 3.0); got != 1.0 {
		t.Errorf("upwindPick(vel>0) = %g; want donor (left) value 1", got)
	}
	if got := upwindPick(-5, 1.0, 3.0); got != 3.0 {
		t.Errorf("upwindPick(vel<0) = %g; want donor (right) value 3", got)
	}
}
