// Package viz renders a flow state's velocity and derived scalar fields to
// PNG heatmaps, using the same gonum/plot plus ctessum/plotextra stack the
// teacher uses for its own diagnostic and map-legend plots. Rendering is
// read-only: it never mutates the CellArrays it is given.
package viz

import (
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/ctessum/plotextra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ctessum/flowmg/grid"
)

// Panel names one of the four heatmaps a Renderer draws.
type Panel string

const (
	PanelU          Panel = "u"
	PanelV          Panel = "v"
	PanelVorticity  Panel = "vorticity"
	PanelDivergence Panel = "divergence"
)

var panels = []Panel{PanelU, PanelV, PanelVorticity, PanelDivergence}

// Renderer draws heatmap panels of a flow field. The color map is rebuilt
// and re-scaled for every panel, since u, v, vorticity, and divergence live
// on different natural ranges.
type Renderer struct {
	// ColorMap builds a fresh per-panel color scale, given the panel's own
	// data for range/outlier scaling. Defaults to brokenColorMap if nil.
	ColorMap func(field *grid.CellArray) palette.ColorMap

	// PanelSize is the width and height of each square panel in the
	// composed image. Defaults to 3 inches if zero.
	PanelSize vg.Length
}

// brokenColorMap builds the default color scale: an ExtendedBlackBody base
// over the bulk of the data, with a reversed luminance "overflow" band above
// the 98th percentile, the same two-tier construction the teacher uses in
// eieio/server.go's MapInfo to keep a few extreme cells from washing out the
// rest of a heatmap's color range.
func brokenColorMap(field *grid.CellArray) palette.ColorMap {
	lo, hi := fieldRange(field)
	if lo == hi {
		hi = lo + 1
	}
	cutoff := percentile(field, 0.98)

	overflow, err := moreland.NewLuminance([]color.Color{
		color.NRGBA{G: 176, A: 255},
		color.NRGBA{G: 255, A: 255},
	})
	if err != nil {
		overflow = moreland.ExtendedBlackBody()
	}

	cm := &plotextra.BrokenColorMap{
		Base:     moreland.ExtendedBlackBody(),
		OverFlow: palette.Reverse(overflow),
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	if cutoff > lo && cutoff < hi {
		cm.SetHighCut(cutoff)
	} else {
		cm.SetHighCut(hi)
	}
	return cm
}

func percentile(field *grid.CellArray, p float64) float64 {
	var vals []float64
	field.ForEachInterior(func(i, j int) { vals = append(vals, field.At(i, j)) })
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	idx := int(p * float64(len(vals)-1))
	return vals[idx]
}

func (r *Renderer) colorMap(field *grid.CellArray) palette.ColorMap {
	if r.ColorMap != nil {
		return r.ColorMap(field)
	}
	return brokenColorMap(field)
}

func (r *Renderer) panelSize() vg.Length {
	if r.PanelSize != 0 {
		return r.PanelSize
	}
	return 3 * vg.Inch
}

// gridHeat adapts a CellArray's interior to the plotter.GridXYZ interface
// gonum/plot's heatmap plotter expects.
type gridHeat struct {
	c *grid.CellArray
	g *grid.Grid2D
}

func (h gridHeat) Dims() (c, r int) { return h.g.Nx, h.g.Ny }

func (h gridHeat) Z(c, r int) float64 {
	return h.c.At(h.g.Ilo+c, h.g.Jlo+r)
}

func (h gridHeat) X(c int) float64 {
	return h.g.Xmin + (float64(c)+0.5)*h.g.Dx
}

func (h gridHeat) Y(r int) float64 {
	return h.g.Ymin + (float64(r)+0.5)*h.g.Dy
}

// fieldFor returns the CellArray a panel renders, computing the derived
// ones (vorticity, divergence) on the fly.
func fieldFor(panel Panel, u, v *grid.CellArray, g *grid.Grid2D) (*grid.CellArray, error) {
	switch panel {
	case PanelU:
		return u, nil
	case PanelV:
		return v, nil
	default:
		return Derived(string(panel), u, v, g)
	}
}

func fieldRange(c *grid.CellArray) (lo, hi float64) {
	first := true
	c.ForEachInterior(func(i, j int) {
		v := c.At(i, j)
		if first {
			lo, hi, first = v, v, false
			return
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	})
	return lo, hi
}

func (r *Renderer) renderPanel(panel Panel, u, v *grid.CellArray, g *grid.Grid2D) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("flowmg: viz: %w", err)
	}
	p.Title.Text = string(panel)

	field, err := fieldFor(panel, u, v, g)
	if err != nil {
		p.Title.Text = fmt.Sprintf("%s: %v", panel, err)
		return p, nil
	}

	cm := r.colorMap(field)

	p.Add(plotter.NewHeatMap(gridHeat{c: field, g: g}, cm))
	p.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	return p, nil
}

// Render draws the four standard panels (x-velocity, y-velocity,
// vorticity, divergence) side by side at simulation time t and writes the
// composed PNG to w.
func (r *Renderer) Render(w io.Writer, u, v *grid.CellArray, g *grid.Grid2D, t float64) error {
	size := r.panelSize()
	width := size * vg.Length(len(panels))
	canvas := vgimg.PngCanvas{Canvas: vgimg.New(width, size)}
	dc := draw.New(canvas)

	for i, panel := range panels {
		p, err := r.renderPanel(panel, u, v, g)
		if err != nil {
			return err
		}
		left := size * vg.Length(i)
		region := draw.Crop(dc, left, left+size-width, 0, 0)
		p.Draw(region)
	}

	_, err := canvas.WriteTo(w)
	if err != nil {
		return fmt.Errorf("flowmg: viz: encoding PNG at t=%.4g: %w", t, err)
	}
	return nil
}
