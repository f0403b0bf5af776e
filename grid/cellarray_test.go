package grid

import (
	"math"
	"testing"
)

func TestCellArraySetAt(t *testing.T) {
	g, _ := NewGrid2D(4, 4, 1, 0, 1, 0, 1)
	c := NewCellArray(g)
	c.Set(g.Ilo, g.Jlo, 3.5)
	if v := c.At(g.Ilo, g.Jlo); v != 3.5 {
		t.Errorf("At = %g; want 3.5", v)
	}
}

func TestCellArrayCopy(t *testing.T) {
	g, _ := NewGrid2D(4, 4, 1, 0, 1, 0, 1)
	c := NewCellArray(g)
	c.ForEachInterior(func(i, j int) { c.Set(i, j, float64(i+j)) })

	cp := c.Copy()
	cp.Set(g.Ilo, g.Jlo, -99)
	if c.At(g.Ilo, g.Jlo) == -99 {
		t.Error("Copy aliased the original array")
	}

	other := NewCellArray(g)
	if err := other.CopyFrom(c); err != nil {
		t.Fatal(err)
	}
	if other.At(g.Ihi, g.Jhi) != c.At(g.Ihi, g.Jhi) {
		t.Error("CopyFrom did not reproduce source values")
	}
}

func TestCellArrayNorm(t *testing.T) {
	g, _ := NewGrid2D(2, 2, 1, 0, 1, 0, 1)
	c := NewCellArray(g)
	// dx=dy=0.5; set all 4 interior cells to 1 -> norm = sqrt(0.25*4) = 1
	c.ForEachInterior(func(i, j int) { c.Set(i, j, 1) })
	if got, want := c.Norm(), 1.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Norm() = %g; want %g", got, want)
	}
}

func TestCellArrayCopyInteriorGhost(t *testing.T) {
	g, _ := NewGrid2D(4, 4, 2, 0, 1, 0, 1)
	src := NewCellArray(g)
	src.Fill(7)
	dst := NewCellArray(g)
	dst.CopyInteriorGhost(src)
	for i := g.Ilo - 1; i <= g.Ihi+1; i++ {
		for j := g.Jlo - 1; j <= g.Jhi+1; j++ {
			if dst.At(i, j) != 7 {
				t.Fatalf("dst(%d,%d) = %g; want 7", i, j, dst.At(i, j))
			}
		}
	}
	// a deeper ghost layer should not have been touched
	if dst.At(0, 0) == 7 {
		t.Error("CopyInteriorGhost touched a ghost cell outside the one-layer contract")
	}
}

func TestSetInteriorFromCrossGhostWidth(t *testing.T) {
	fine, _ := NewGrid2D(4, 4, 4, 0, 1, 0, 1)
	coarse, _ := NewGrid2D(4, 4, 1, 0, 1, 0, 1)
	src := NewCellArray(coarse)
	src.ForEachInterior(func(i, j int) { src.Set(i, j, float64(i*10+j)) })

	dst := NewCellArray(fine)
	if err := dst.SetInteriorFrom(src); err != nil {
		t.Fatal(err)
	}
	dst.ForEachInterior(func(i, j int) {
		want := src.At(i-fine.Ilo+coarse.Ilo, j-fine.Jlo+coarse.Jlo)
		if got := dst.At(i, j); got != want {
			t.Errorf("SetInteriorFrom(%d,%d) = %g; want %g", i, j, got, want)
		}
	})

	if err := dst.SetInteriorGhostFrom(src); err != nil {
		t.Fatal(err)
	}
	for i := fine.Ilo - 1; i <= fine.Ihi+1; i++ {
		for j := fine.Jlo - 1; j <= fine.Jhi+1; j++ {
			ci := i - fine.Ilo + coarse.Ilo
			cj := j - fine.Jlo + coarse.Jlo
			if got, want := dst.At(i, j), src.At(ci, cj); got != want {
				t.Errorf("SetInteriorGhostFrom(%d,%d) = %g; want %g", i, j, got, want)
			}
		}
	}

	mismatched, _ := NewGrid2D(8, 8, 1, 0, 1, 0, 1)
	if err := NewCellArray(mismatched).SetInteriorFrom(src); err == nil {
		t.Error("expected shape-mismatch error")
	}
}

func TestValuesRoundTrip(t *testing.T) {
	g, _ := NewGrid2D(4, 4, 1, 0, 1, 0, 1)
	c := NewCellArray(g)
	c.ForEachInterior(func(i, j int) { c.Set(i, j, float64(i*10+j)) })

	vals := c.Values()
	other := NewCellArray(g)
	if err := other.SetValues(vals); err != nil {
		t.Fatal(err)
	}
	if other.At(g.Ilo, g.Jlo) != c.At(g.Ilo, g.Jlo) {
		t.Error("SetValues(Values()) did not round-trip")
	}
	if err := other.SetValues(vals[:len(vals)-1]); err == nil {
		t.Error("expected error for wrong-length slice")
	}
}
