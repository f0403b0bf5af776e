package viz

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"

	"github.com/ctessum/flowmg/grid"
)

// derivedFuncs are the functions available to a user-supplied derived-field
// expression, mirroring the default set the teacher registers for its own
// output-variable expressions in io.go's Outputter.
var derivedFuncs = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("flowmg: viz: exp takes 1 argument, got %d", len(arg))
		}
		return math.Exp(arg[0].(float64)), nil
	},
	"log": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("flowmg: viz: log takes 1 argument, got %d", len(arg))
		}
		return math.Log(arg[0].(float64)), nil
	},
	"log10": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("flowmg: viz: log10 takes 1 argument, got %d", len(arg))
		}
		return math.Log10(arg[0].(float64)), nil
	},
	"abs": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("flowmg: viz: abs takes 1 argument, got %d", len(arg))
		}
		return math.Abs(arg[0].(float64)), nil
	},
	"sqrt": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("flowmg: viz: sqrt takes 1 argument, got %d", len(arg))
		}
		return math.Sqrt(arg[0].(float64)), nil
	},
}

func vorticity(u, v *grid.CellArray, g *grid.Grid2D) *grid.CellArray {
	out := grid.NewCellArray(g)
	out.ForEachInterior(func(i, j int) {
		dvdx := (v.At(i+1, j) - v.At(i-1, j)) / (2 * g.Dx)
		dudy := (u.At(i, j+1) - u.At(i, j-1)) / (2 * g.Dy)
		out.Set(i, j, dvdx-dudy)
	})
	return out
}

func divergence(u, v *grid.CellArray, g *grid.Grid2D) *grid.CellArray {
	out := grid.NewCellArray(g)
	out.ForEachInterior(func(i, j int) {
		dudx := (u.At(i+1, j) - u.At(i-1, j)) / (2 * g.Dx)
		dvdy := (v.At(i, j+1) - v.At(i, j-1)) / (2 * g.Dy)
		out.Set(i, j, dudx+dvdy)
	})
	return out
}

func speed(u, v *grid.CellArray, g *grid.Grid2D) *grid.CellArray {
	out := grid.NewCellArray(g)
	out.ForEachInterior(func(i, j int) {
		uc := 0.5 * (u.At(i, j) + u.At(i+1, j))
		vc := 0.5 * (v.At(i, j) + v.At(i, j+1))
		out.Set(i, j, math.Hypot(uc, vc))
	})
	return out
}

// Derived evaluates a named derived scalar field over g's interior. "u" and
// "v" return the raw velocity components; "vorticity", "divergence", and
// "speed" are built-in centered-difference computations. Any other name is
// parsed as a govaluate expression in the variables u, v, x, y (and the
// functions in derivedFuncs), evaluated independently at every cell —
// the same registry-then-expression fallback the teacher uses in io.go's
// Outputter for configurable output variables.
func Derived(name string, u, v *grid.CellArray, g *grid.Grid2D) (*grid.CellArray, error) {
	switch name {
	case "u":
		return u, nil
	case "v":
		return v, nil
	case "vorticity":
		return vorticity(u, v, g), nil
	case "divergence":
		return divergence(u, v, g), nil
	case "speed":
		return speed(u, v, g), nil
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(name, derivedFuncs)
	if err != nil {
		return nil, fmt.Errorf("flowmg: viz: parsing derived field %q: %w", name, err)
	}

	out := grid.NewCellArray(g)
	var evalErr error
	out.ForEachInterior(func(i, j int) {
		if evalErr != nil {
			return
		}
		x, y := g.Xmin+(float64(i-g.Ilo)+0.5)*g.Dx, g.Ymin+(float64(j-g.Jlo)+0.5)*g.Dy
		params := map[string]interface{}{
			"u": u.At(i, j), "v": v.At(i, j),
			"x": x, "y": y,
		}
		result, err := expr.Evaluate(params)
		if err != nil {
			evalErr = fmt.Errorf("flowmg: viz: evaluating derived field %q: %w", name, err)
			return
		}
		val, ok := result.(float64)
		if !ok {
			evalErr = fmt.Errorf("flowmg: viz: derived field %q did not evaluate to a number", name)
			return
		}
		out.Set(i, j, val)
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return out, nil
}
