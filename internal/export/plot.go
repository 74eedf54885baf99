package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/isingsim/internal/analysis"
	"github.com/san-kum/isingsim/internal/meanfield"
	"github.com/san-kum/isingsim/internal/sim"
)

var ErrEmptyPlot = errors.New("export: nothing to plot")

// Default figure size.
const (
	PlotWidth  = 6 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

var (
	curveColor   = color.RGBA{R: 0x33, G: 0x66, B: 0xff, A: 0xff}
	scanColor    = color.RGBA{R: 0xff, G: 0x44, B: 0x55, A: 0xff}
	energyColor  = color.RGBA{R: 0xff, G: 0xcc, B: 0x00, A: 0xff}
	criticalGrey = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

// CurvePlot plots the mean-field magnetization curve against temperature,
// overlaying the |m| measured by a scan when points is non-empty. The
// mean-field critical temperature is marked with a dashed vertical line.
func CurvePlot(curve []meanfield.Point, points []analysis.ScanPoint) (*plot.Plot, error) {
	if len(curve) == 0 && len(points) == 0 {
		return nil, ErrEmptyPlot
	}

	p := plot.New()
	p.Title.Text = "Magnetization vs temperature"
	p.X.Label.Text = "T"
	p.Y.Label.Text = "m"
	p.Y.Min = 0
	p.Y.Max = 1.05
	p.Add(plotter.NewGrid())

	if len(curve) > 0 {
		xys := make(plotter.XYs, len(curve))
		for i, pt := range curve {
			xys[i].X = pt.T
			xys[i].Y = pt.M
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("export: mean-field line: %w", err)
		}
		line.Color = curveColor
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("mean field", line)

		tc, err := plotter.NewLine(plotter.XYs{
			{X: meanfield.CriticalTemperature, Y: 0},
			{X: meanfield.CriticalTemperature, Y: 1.05},
		})
		if err != nil {
			return nil, fmt.Errorf("export: critical line: %w", err)
		}
		tc.Color = criticalGrey
		tc.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(tc)
	}

	if len(points) > 0 {
		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i].X = pt.Temperature
			xys[i].Y = pt.AbsMagnetization
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("export: scan points: %w", err)
		}
		sc.GlyphStyle.Color = scanColor
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("metropolis |m|", sc)
	}

	p.Legend.Top = true
	return p, nil
}

// TracePlot plots magnetization and energy per site against trial count.
// sites is the number of lattice sites used to normalise the energy.
func TracePlot(samples []sim.Sample, sites int) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyPlot
	}
	if sites <= 0 {
		return nil, fmt.Errorf("export: invalid site count %d", sites)
	}

	mag := make(plotter.XYs, len(samples))
	energy := make(plotter.XYs, len(samples))
	for i, s := range samples {
		mag[i].X = float64(s.Trial)
		mag[i].Y = s.Magnetization
		energy[i].X = float64(s.Trial)
		energy[i].Y = s.Energy / float64(sites)
	}

	p := plot.New()
	p.Title.Text = "Trace"
	p.X.Label.Text = "trial"
	p.Add(plotter.NewGrid())

	mLine, err := plotter.NewLine(mag)
	if err != nil {
		return nil, fmt.Errorf("export: magnetization line: %w", err)
	}
	mLine.Color = scanColor
	eLine, err := plotter.NewLine(energy)
	if err != nil {
		return nil, fmt.Errorf("export: energy line: %w", err)
	}
	eLine.Color = energyColor

	p.Add(mLine, eLine)
	p.Legend.Add("m", mLine)
	p.Legend.Add("E/N", eLine)
	p.Legend.Top = true

	return p, nil
}

// SavePlot writes p to path. The format (png, svg, pdf, ...) follows the
// file extension.
func SavePlot(p *plot.Plot, path string) error {
	if err := p.Save(PlotWidth, PlotHeight, path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// WritePlot renders p in the given format to w.
func WritePlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(PlotWidth, PlotHeight, strings.TrimPrefix(format, "."))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("export: write %s: %w", format, err)
	}
	return nil
}

// FormatOf returns the plot format implied by path.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
