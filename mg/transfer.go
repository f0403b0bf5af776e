package mg

import "github.com/ctessum/flowmg/grid"

// Restrict computes the full-weighting average of fine's interior onto
// coarse's grid: each coarse cell receives the unweighted mean of the four
// fine cells it covers. fine must have twice coarse's interior resolution.
func Restrict(fine *grid.CellArray, coarse *grid.Grid2D) *grid.CellArray {
	fg := fine.Grid()
	out := grid.NewCellArray(coarse)
	for I := coarse.Ilo; I <= coarse.Ihi; I++ {
		for J := coarse.Jlo; J <= coarse.Jhi; J++ {
			i := fg.Ilo + 2*(I-coarse.Ilo)
			j := fg.Jlo + 2*(J-coarse.Jlo)
			avg := 0.25 * (fine.At(i, j) + fine.At(i+1, j) + fine.At(i, j+1) + fine.At(i+1, j+1))
			out.Set(I, J, avg)
		}
	}
	return out
}

// Prolong injects coarse's values onto fine by piecewise-constant
// interpolation: every fine cell takes the value of the coarse cell that
// contains it. Ghost cells are filled on a copy of coarse using bc before
// interpolating, so corrections propagate correctly across periodic and
// reflecting boundaries.
func Prolong(coarse *grid.CellArray, bc grid.BCPolicy, fine *grid.Grid2D) (*grid.CellArray, error) {
	filled := coarse.Copy()
	if err := bc.Fill(filled); err != nil {
		return nil, err
	}
	cg := filled.Grid()
	out := grid.NewCellArray(fine)
	for i := fine.Ilo; i <= fine.Ihi; i++ {
		for j := fine.Jlo; j <= fine.Jhi; j++ {
			I := cg.Ilo + (i-fine.Ilo)/2
			J := cg.Jlo + (j-fine.Jlo)/2
			out.Set(i, j, filled.At(I, J))
		}
	}
	return out, nil
}
