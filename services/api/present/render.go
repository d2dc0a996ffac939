package present

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/pandemic-stats/covid-dashboard/services/api/pipeline"
)

// ErrNotRenderable is returned for chart kinds that only a map-capable
// front end can draw.
var ErrNotRenderable = errors.New("chart kind cannot be drawn as an image")

// Default image size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// RenderPNG draws c as a PNG image.
func RenderPNG(c Chart, w io.Writer, width, height vg.Length) error {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	switch c.Kind {
	case LineChart, BarChart, ScatterChart:
		if err := addSeries(p, c.Series); err != nil {
			return fmt.Errorf("chart %s: %w", c.ID, err)
		}
	case PieChart, SunburstChart, TreemapChart:
		if err := addSlices(p, c.Slices); err != nil {
			return fmt.Errorf("chart %s: %w", c.ID, err)
		}
	default:
		return ErrNotRenderable
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("chart %s: %w", c.ID, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func addSeries(p *plot.Plot, series []Series) error {
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xy := xys(s.Points)
		col := seriesColor(i, s.Color)

		switch s.Kind {
		case ScatterChart:
			sc, err := plotter.NewScatter(xy)
			if err != nil {
				return err
			}
			sc.GlyphStyle.Color = col
			sc.GlyphStyle.Radius = vg.Points(2)
			p.Add(sc)
			p.Legend.Add(s.Name, sc)
		case BarChart:
			l, err := plotter.NewLine(xy)
			if err != nil {
				return err
			}
			l.StepStyle = plotter.MidStep
			l.Color = col
			l.FillColor = col
			p.Add(l)
			p.Legend.Add(s.Name, l)
		default:
			l, err := plotter.NewLine(xy)
			if err != nil {
				return err
			}
			l.Color = col
			l.Width = vg.Points(2)
			p.Add(l)
			p.Legend.Add(s.Name, l)
		}
	}
	return nil
}

func addSlices(p *plot.Plot, slices []Slice) error {
	if len(slices) == 0 {
		return nil
	}
	values := make(plotter.Values, len(slices))
	names := make([]string, len(slices))
	for i, s := range slices {
		values[i] = s.Value
		names[i] = s.Label
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	return nil
}

func xys(points []pipeline.Point) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, pt := range points {
		out[i].X = float64(pt.Date.Unix())
		out[i].Y = pt.Value
	}
	return out
}

func seriesColor(i int, hex string) color.Color {
	if c, ok := parseHex(hex); ok {
		return c
	}
	return plotutil.Color(i)
}

func parseHex(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
