package exporter

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// OtherLabel names the slice holding the share of cities left off the chart
const OtherLabel = "Other"

// otherShareEpsilon ignores floating point residue when deciding whether to draw "Other"
const otherShareEpsilon = 1e-9

// PieSlice is one wedge of a pie chart
type PieSlice struct {
	Label string
	Value float64
	Color color.Color
}

// Pie draws slices counter-clockwise starting at twelve o'clock, sized by
// their fraction of the total. It implements plot.Plotter and plot.DataRanger.
type Pie struct {
	Slices []PieSlice
	// LineStyle separates adjacent wedges
	LineStyle draw.LineStyle
}

var _ plot.Plotter = (*Pie)(nil)
var _ plot.DataRanger = (*Pie)(nil)

// NewPie assigns palette colours to slices without one
func NewPie(slices []PieSlice) *Pie {
	for i := range slices {
		if slices[i].Color == nil {
			slices[i].Color = plotutil.Color(i)
		}
	}
	return &Pie{
		Slices: slices,
		LineStyle: draw.LineStyle{
			Color: color.White,
			Width: vg.Points(0.5),
		},
	}
}

func (p *Pie) total() float64 {
	var t float64
	for _, s := range p.Slices {
		if s.Value > 0 {
			t += s.Value
		}
	}
	return t
}

// Plot implements plot.Plotter
func (p *Pie) Plot(c draw.Canvas, plt *plot.Plot) {
	total := p.total()
	if total <= 0 {
		return
	}

	trX, trY := plt.Transforms(&c)
	center := vg.Point{X: trX(0), Y: trY(0)}
	radius := trX(1) - center.X
	if ry := trY(1) - center.Y; ry < radius {
		radius = ry
	}
	if radius <= 0 {
		return
	}

	start := math.Pi / 2
	for _, s := range p.Slices {
		if s.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / total

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()

		c.SetColor(s.Color)
		c.Fill(path)
		if p.LineStyle.Width > 0 {
			c.SetLineStyle(p.LineStyle)
			c.Stroke(path)
		}
		start += sweep
	}
}

// DataRange implements plot.DataRanger. The pie is a unit circle at the origin.
func (p *Pie) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1, 1, -1, 1
}

// Thumbnail returns the legend entry for s
func (p *Pie) Thumbnail(s PieSlice) plot.Thumbnailer {
	return sliceThumbnail{color: s.Color}
}

type sliceThumbnail struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer
func (t sliceThumbnail) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	poly := c.ClipPolygonY(pts)
	c.FillPolygon(t.color, poly)
}
