package viz

import (
	"math"
	"testing"

	"github.com/ctessum/flowmg/grid"
)

func uniformFlow(nx int, uv float64) (*grid.Grid2D, *grid.CellArray, *grid.CellArray) {
	g, err := grid.NewGrid2D(nx, nx, 4, 0, 1, 0, 1)
	if err != nil {
		panic(err)
	}
	u := grid.NewCellArray(g)
	v := grid.NewCellArray(g)
	u.Fill(uv)
	v.Fill(uv * 0.5)
	return g, u, v
}

func TestDerivedVorticityZeroForUniformFlow(t *testing.T) {
	g, u, v := uniformFlow(8, 2.0)
	out, err := Derived("vorticity", u, v, g)
	if err != nil {
		t.Fatal(err)
	}
	out.ForEachInterior(func(i, j int) {
		if math.Abs(out.At(i, j)) > 1e-12 {
			t.Fatalf("vorticity(%d,%d) = %g; want 0 for uniform flow", i, j, out.At(i, j))
		}
	})
}

func TestDerivedDivergenceZeroForUniformFlow(t *testing.T) {
	g, u, v := uniformFlow(8, -1.5)
	out, err := Derived("divergence", u, v, g)
	if err != nil {
		t.Fatal(err)
	}
	out.ForEachInterior(func(i, j int) {
		if math.Abs(out.At(i, j)) > 1e-12 {
			t.Fatalf("divergence(%d,%d) = %g; want 0 for uniform flow", i, j, out.At(i, j))
		}
	})
}

func TestDerivedExpressionFallback(t *testing.T) {
	g, u, v := uniformFlow(4, 3.0)
	out, err := Derived("sqrt(u*u+v*v)", u, v, g)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Hypot(3.0, 1.5)
	out.ForEachInterior(func(i, j int) {
		if math.Abs(out.At(i, j)-want) > 1e-12 {
			t.Fatalf("expression(%d,%d) = %g; want %g", i, j, out.At(i, j), want)
		}
	})
}

func TestDerivedUnknownExpressionIsError(t *testing.T) {
	g, u, v := uniformFlow(4, 1.0)
	if _, err := Derived("u +", u, v, g); err == nil {
		t.Error("expected a parse error for a malformed expression")
	}
}

func TestDerivedUAndV(t *testing.T) {
	g, u, v := uniformFlow(4, 2.5)
	gotU, err := Derived("u", u, v, g)
	if err != nil {
		t.Fatal(err)
	}
	if gotU != u {
		t.Error("Derived(\"u\", ...) should return the u field directly")
	}
	gotV, err := Derived("v", u, v, g)
	if err != nil {
		t.Fatal(err)
	}
	if gotV != v {
		t.Error("Derived(\"v\", ...) should return the v field directly")
	}
}
