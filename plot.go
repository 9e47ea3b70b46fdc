package geoid

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HeatMapOptions configures WriteHeatMap.
type HeatMapOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	// Step draws every Step-th grid point along each axis. Values below 1
	// draw every point.
	Step int
}

func DefaultHeatMapOptions() HeatMapOptions {
	return HeatMapOptions{
		Width:  8 * vg.Inch,
		Height: 10 * vg.Inch,
		Step:   1,
	}
}

// heatGrid adapts a Grid to plotter.GridXYZ.
type heatGrid struct {
	g        Grid
	info     GridInfo
	step     int
	min, max float64
}

func (h heatGrid) Dims() (c, r int) {
	return (h.info.xNum + h.step - 1) / h.step, (h.info.yNum + h.step - 1) / h.step
}

func (h heatGrid) Z(c, r int) float64 {
	return h.g.LookupGridPoint(c*h.step, r*h.step)
}

func (h heatGrid) X(c int) float64 {
	return float64(h.info.xMin) + float64(c*h.step)/float64(h.info.xDenom)
}

func (h heatGrid) Y(r int) float64 {
	return float64(h.info.yMin) + float64(r*h.step)/float64(h.info.yDenom)
}

func (h heatGrid) Min() float64 { return h.min }
func (h heatGrid) Max() float64 { return h.max }

// WriteHeatMap renders g to fileName. The image format follows the file
// extension (.png, .svg, .pdf, ...). Points without data are left blank.
func WriteHeatMap(g Grid, fileName string, opts HeatMapOptions) error {
	step := opts.Step
	if step < 1 {
		step = 1
	}
	stats := Summarize(g)
	lo, hi := stats.Min, stats.Max
	if math.IsNaN(lo) || math.IsNaN(hi) {
		lo, hi = 0, 1
	}
	if hi <= lo {
		hi = lo + 1
	}

	info := g.GridInfo()
	hm := plotter.NewHeatMap(heatGrid{g: g, info: info, step: step, min: lo, max: hi}, palette.Heat(32, 1))
	hm.NaN = color.Transparent

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = info.Version()
	}
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(hm)

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		d := DefaultHeatMapOptions()
		width, height = d.Width, d.Height
	}
	return p.Save(width, height, fileName)
}
