// Package viz builds common exploratory plots with gonum/plot: histograms,
// scatter plots with an optional fitted line, and bar charts of frequency
// tables.
package viz

import (
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/dshelpers/frequency"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

var (
	pointColor = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	lineColor  = color.RGBA{R: 255, A: 255}
	barColor   = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Histogram plots the distribution of values in bins equal-width bins.
// NaN values are skipped.
func Histogram(values []float64, bins int, title string) (*plot.Plot, error) {
	if bins < 1 {
		return nil, errors.NewValidationError("bins", "must be at least 1", bins)
	}
	vals := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, errors.NewModelError("viz.Histogram", "no values to plot", errors.ErrEmptyData)
	}
	if err := errors.CheckFinite("viz.Histogram", vals); err != nil {
		return nil, err
	}

	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return nil, errors.Wrap(err, "viz.Histogram")
	}
	h.FillColor = barColor

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "count"
	p.Add(h)
	return p, nil
}

// Scatter plots the points (x[i], y[i]). When fit is non-nil the line is
// drawn across the range of x.
func Scatter(x, y []float64, title string, fit *Line) (*plot.Plot, error) {
	if len(x) != len(y) {
		return nil, errors.NewDimensionError("viz.Scatter", len(x), len(y), 0)
	}
	pts := make(plotter.XYs, 0, len(x))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(pts) == 0 {
		return nil, errors.NewModelError("viz.Scatter", "no points to plot", errors.ErrEmptyData)
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "viz.Scatter")
	}
	s.Color = pointColor
	s.Shape = draw.CircleGlyph{}

	p := plot.New()
	p.Title.Text = title
	p.Add(s)

	if fit != nil {
		xs := make([]float64, len(pts))
		for i, pt := range pts {
			xs[i] = pt.X
		}
		lo, hi := floats.Min(xs), floats.Max(xs)
		l, err := plotter.NewLine(plotter.XYs{
			{X: lo, Y: fit.At(lo)},
			{X: hi, Y: fit.At(hi)},
		})
		if err != nil {
			return nil, errors.Wrap(err, "viz.Scatter")
		}
		l.Color = lineColor
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add("fit", l)
	}
	return p, nil
}

// FrequencyBar draws the top values of a frequency table as bars, most
// frequent first. top <= 0 draws every row of the table.
func FrequencyBar(t *frequency.Table, top int) (*plot.Plot, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, errors.NewModelError("viz.FrequencyBar", "empty frequency table", errors.ErrEmptyData)
	}
	rows := t.Rows
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	vals := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		vals[i] = float64(r.Frequency)
		labels[i] = r.Value
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return nil, errors.Wrap(err, "viz.FrequencyBar")
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = t.Column
	p.Y.Label.Text = frequency.HeaderFrequency
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

var saveFormats = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".svg": true,
	".pdf": true, ".eps": true, ".tif": true, ".tiff": true,
}

// Save renders p to path. The file extension selects the format.
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !saveFormats[ext] {
		return errors.NewValidationError("path", "unsupported image format", ext)
	}
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "viz.Save: %s", path)
	}
	log.GetLoggerWithName("viz").Info("Plot saved",
		log.OperationKey, log.OperationPlot,
		log.OutputPathKey, path,
	)
	return nil
}
