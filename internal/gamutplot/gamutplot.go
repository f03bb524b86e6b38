// Package gamutplot renders constant-lightness slices of the sRGB gamut as
// PNG scatter plots on the a*b* plane, one square per in-gamut bin painted
// in that bin's own color.
package gamutplot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
)

// Size is the edge length of the rendered square plot.
var Size = 12 * vg.Centimeter

// Slice returns the bins whose lightness equals l, in input order.
func Slice(bins []colorspace.Lab, l float64) []colorspace.Lab {
	var out []colorspace.Lab
	for _, b := range bins {
		if b.L == l {
			out = append(out, b)
		}
	}
	return out
}

// WriteSlice plots the in-gamut bins of the given grid size at lightness l
// and writes the PNG to w. l must lie on the grid (a multiple of size).
func WriteSlice(w io.Writer, size, l float64) error {
	bins := Slice(colorspace.GamutBins(size), l)
	if len(bins) == 0 {
		return fmt.Errorf("no in-gamut bins at L*=%g with bin size %g", l, size)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("sRGB gamut at L* = %g (bin size %g)", l, size)
	p.X.Label.Text = "a*"
	p.Y.Label.Text = "b*"
	p.X.Min, p.X.Max = -110-size, 110+size
	p.Y.Min, p.Y.Max = -110-size, 110+size
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(bins))
	for i, b := range bins {
		pts[i].X, pts[i].Y = b.A, b.B
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}

	radius := vg.Points(220 / size)
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  bins[i].RGB(),
			Radius: radius,
			Shape:  draw.BoxGlyph{},
		}
	}
	p.Add(s)

	c := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(Size, Size),
		vgimg.UseBackgroundColor(color.White),
	)}
	p.Draw(draw.New(c))

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}
