package mg

import (
	"math"
	"testing"

	"github.com/ctessum/flowmg/grid"
)

// (P4) Restriction/prolongation round-trip. A field that is piecewise
// constant on each coarse block (i.e. the fine-grid broadcast of a
// bilinear coarse field) survives restrict-then-prolong exactly: full
// weighting recovers the block value, and constant prolongation rebroadcasts
// it unchanged.
func TestP4RestrictProlongRoundTrip(t *testing.T) {
	fine, err := grid.NewGrid2D(8, 8, 1, 0, 1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	coarse, err := fine.Coarsened()
	if err != nil {
		t.Fatal(err)
	}

	bilinear := func(I, J int) float64 {
		return 1.5 + 2.0*float64(I) - 0.5*float64(J) + 0.25*float64(I)*float64(J)
	}

	fineField := grid.NewCellArray(fine)
	fineField.ForEachInterior(func(i, j int) {
		I := coarse.Ilo + (i-fine.Ilo)/2
		J := coarse.Jlo + (j-fine.Jlo)/2
		fineField.Set(i, j, bilinear(I, J))
	})

	restricted := Restrict(fineField, coarse)
	restricted.ForEachInterior(func(I, J int) {
		want := bilinear(I, J)
		if got := restricted.At(I, J); math.Abs(got-want) > 1e-12 {
			t.Errorf("restrict(%d,%d) = %g; want %g", I, J, got, want)
		}
	})

	bc := grid.BCPolicy{XLo: grid.Periodic, XHi: grid.Periodic, YLo: grid.Periodic, YHi: grid.Periodic}
	prolonged, err := Prolong(restricted, bc, fine)
	if err != nil {
		t.Fatal(err)
	}
	fineField.ForEachInterior(func(i, j int) {
		want := fineField.At(i, j)
		if got := prolonged.At(i, j); math.Abs(got-want) > 1e-12 {
			t.Errorf("prolong(restrict(f))(%d,%d) = %g; want %g", i, j, got, want)
		}
	})
}
