package plot

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"dialysisdash/domain/chart"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Format is an image format understood by gonum/plot
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Renderer draws chart descriptors to images
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a renderer with a 16:9 canvas
func NewRenderer() *Renderer {
	return &Renderer{Width: 8 * vg.Inch, Height: 4.5 * vg.Inch}
}

// Render writes d to w in the given format
func (r *Renderer) Render(w io.Writer, d chart.Descriptor, format Format) error {
	p, err := r.build(d)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.Width, r.Height, string(format))
	if err != nil {
		return fmt.Errorf("render %s: %w", d.ID, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func (r *Renderer) build(d chart.Descriptor) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = d.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = d.XLabel
	p.Y.Label.Text = d.YLabel
	p.Add(plotter.NewGrid())

	switch d.Kind {
	case chart.KindScatter:
		if err := addScatter(p, d); err != nil {
			return nil, err
		}
	case chart.KindBar:
		if err := addBars(p, d); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", d.Kind)
	}
	return p, nil
}

func addScatter(p *plot.Plot, d chart.Descriptor) error {
	p.Legend.Top = true
	for _, s := range d.Series {
		if len(s.Points) == 0 {
			continue
		}
		c := parseHexColor(s.Color)

		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("scatter series %s: %w", s.Name, err)
		}
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(s.Name, sc)

		if s.Trend != nil {
			line, err := plotter.NewLine(plotter.XYs{
				{X: s.Trend.X0, Y: s.Trend.At(s.Trend.X0)},
				{X: s.Trend.X1, Y: s.Trend.At(s.Trend.X1)},
			})
			if err != nil {
				return fmt.Errorf("trend line %s: %w", s.Name, err)
			}
			line.LineStyle.Color = c
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
		}
	}
	return nil
}

func addBars(p *plot.Plot, d chart.Descriptor) error {
	names := make([]string, len(d.Bars))
	for i, b := range d.Bars {
		names[i] = b.Category
		bar, err := plotter.NewBarChart(plotter.Values{b.Mean}, vg.Points(24))
		if err != nil {
			return fmt.Errorf("bar %s: %w", b.Category, err)
		}
		bar.XMin = float64(i)
		bar.Color = parseHexColor(b.Color)
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	return nil
}

// parseHexColor reads #RRGGBB, falling back to gray
func parseHexColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.Gray{Y: 128}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.Gray{Y: 128}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
