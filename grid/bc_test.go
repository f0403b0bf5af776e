package grid

import "testing"

func newTestGrid(t *testing.T) (*Grid2D, *CellArray) {
	t.Helper()
	g, err := NewGrid2D(4, 4, 2, 0, 1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCellArray(g)
	c.ForEachInterior(func(i, j int) { c.Set(i, j, float64(10*i+j)) })
	return g, c
}

func TestBCPeriodic(t *testing.T) {
	g, c := newTestGrid(t)
	bc := BCPolicy{XLo: Periodic, XHi: Periodic, YLo: Periodic, YHi: Periodic}
	if err := bc.Fill(c); err != nil {
		t.Fatal(err)
	}
	for k := 1; k <= g.Ng; k++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			if got, want := c.At(g.Ilo-k, j), c.At(g.Ihi-k+1, j); got != want {
				t.Errorf("periodic x-lo ghost k=%d: got %g want %g", k, got, want)
			}
		}
	}
}

func TestBCReflectEven(t *testing.T) {
	g, c := newTestGrid(t)
	bc := BCPolicy{XLo: Reflect, XHi: Reflect, YLo: Reflect, YHi: Reflect}
	if err := bc.Fill(c); err != nil {
		t.Fatal(err)
	}
	for k := 1; k <= g.Ng; k++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			if got, want := c.At(g.Ilo-k, j), c.At(g.Ilo+k-1, j); got != want {
				t.Errorf("even reflect ghost k=%d: got %g want %g", k, got, want)
			}
		}
	}
}

func TestBCReflectOdd(t *testing.T) {
	g, c := newTestGrid(t)
	bc := BCPolicy{XLo: Reflect, XHi: Reflect, YLo: Periodic, YHi: Periodic, OddReflectDir: "x"}
	if err := bc.Fill(c); err != nil {
		t.Fatal(err)
	}
	for k := 1; k <= g.Ng; k++ {
		for j := g.Jlo; j <= g.Jhi; j++ {
			if got, want := c.At(g.Ilo-k, j), -c.At(g.Ilo+k-1, j); got != want {
				t.Errorf("odd reflect ghost k=%d: got %g want %g", k, got, want)
			}
		}
	}
}

func TestBCOutflowConstantExtrapolation(t *testing.T) {
	g, c := newTestGrid(t)
	bc := BCPolicy{XLo: Outflow, XHi: Outflow, YLo: Outflow, YHi: Outflow}
	if err := bc.Fill(c); err != nil {
		t.Fatal(err)
	}
	boundary := c.At(g.Ilo, g.Jlo)
	for k := 1; k <= g.Ng; k++ {
		if got := c.At(g.Ilo-k, g.Jlo); got != boundary {
			t.Errorf("outflow ghost k=%d: got %g want boundary value %g", k, got, boundary)
		}
	}
}

func TestBCFillTwiceIdempotent(t *testing.T) {
	// (P6) filling ghosts twice in succession is identical to filling once.
	g, c := newTestGrid(t)
	bc := BCPolicy{XLo: Reflect, XHi: Reflect, YLo: Periodic, YHi: Periodic, OddReflectDir: "x"}
	if err := bc.Fill(c); err != nil {
		t.Fatal(err)
	}
	once := c.Copy()
	if err := bc.Fill(c); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < g.Qx; i++ {
		for j := 0; j < g.Qy; j++ {
			if once.At(i, j) != c.At(i, j) {
				t.Fatalf("refill changed (%d,%d): %g -> %g", i, j, once.At(i, j), c.At(i, j))
			}
		}
	}
}

func TestPeriodicBothEdgesRequired(t *testing.T) {
	bc := BCPolicy{XLo: Periodic, XHi: Reflect, YLo: Periodic, YHi: Periodic}
	if err := bc.Validate(); err == nil {
		t.Error("expected error when periodic is set on only one x edge")
	}
}

func TestInvalidEdgeKind(t *testing.T) {
	if _, err := ParseEdgeKind("bogus"); err == nil {
		t.Error("expected error for unknown edge kind")
	}
}
