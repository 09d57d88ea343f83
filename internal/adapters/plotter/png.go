package plotter

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"gonum.org/v1/plot"
	gplotter "gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

const (
	// Width and Height are the canvas size in pixels
	Width  = 1024
	Height = 768

	dpi         = 96
	lineWidth   = 3
	pointRadius = 5
	captionSize = 30
)

// Accent is the series color (Material Green 700)
var Accent = color.RGBA{R: 0x38, G: 0x8e, B: 0x3c, A: 0xff}

// px converts device pixels into vg lengths at the canvas resolution
func px(n float64) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

// PNGWriter draws chart layouts as line-plus-point PNG images
type PNGWriter struct{}

// NewPNGWriter creates a new PNG chart writer
func NewPNGWriter() *PNGWriter {
	return &PNGWriter{}
}

func (w *PNGWriter) Ext() string { return ".png" }

// Write renders the layout to a 1024x768 PNG at path
func (w *PNGWriter) Write(ctx context.Context, layout domain.ChartLayout, path string) error {
	p, err := buildPlot(layout)
	if err != nil {
		return err
	}

	canvas := vgimg.NewWith(vgimg.UseWH(px(Width), px(Height)), vgimg.UseDPI(dpi))
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// buildPlot maps a layout onto a gonum plot
func buildPlot(layout domain.ChartLayout) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = color.White

	p.Title.Text = layout.Caption
	p.Title.TextStyle.Font.Size = px(captionSize)
	p.Title.Padding = px(10)

	p.Y.Label.Text = "Produced"
	p.Y.Min = 0
	p.Y.Max = float64(layout.YMax)
	p.Y.Tick.Marker = intTicks(layout.YMax)

	p.X.Min = dayValue(layout.XMin)
	p.X.Max = dayValue(layout.XMax)
	if p.X.Min == p.X.Max {
		half := (12 * time.Hour).Seconds()
		p.X.Min -= half
		p.X.Max += half
	}
	p.X.Tick.Marker = dayTicker{Labels: layout.LabelCount}

	grid := gplotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 0xe0}
	grid.Horizontal.Color = color.Gray{Y: 0xe0}
	p.Add(grid)

	if len(layout.Points) == 0 {
		return p, nil
	}

	xys := make(gplotter.XYs, len(layout.Points))
	for i, pt := range layout.Points {
		xys[i].X = dayValue(pt.Date)
		xys[i].Y = float64(pt.Count)
	}

	line, err := gplotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build line: %w", err)
	}
	line.Color = Accent
	line.Width = px(lineWidth)

	points, err := gplotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build points: %w", err)
	}
	points.GlyphStyle.Color = Accent
	points.GlyphStyle.Radius = px(pointRadius)
	points.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(line, points)
	return p, nil
}

// dayValue places a date on the x axis (seconds since epoch, UTC midnight)
func dayValue(d domain.Date) float64 {
	return float64(d.In(time.UTC).Unix())
}

func valueDay(v float64) domain.Date {
	return domain.DateOf(time.Unix(int64(v), 0), time.UTC)
}

// dayTicker spreads at most Labels month/day ticks over whole days
type dayTicker struct {
	Labels int
}

func (t dayTicker) Ticks(min, max float64) []plot.Tick {
	first := valueDay(math.Ceil(min/86400) * 86400)
	last := valueDay(max)
	if last.Before(first) {
		return nil
	}

	if t.Labels <= 1 {
		return []plot.Tick{{Value: dayValue(last), Label: last.Label()}}
	}

	span := int((dayValue(last) - dayValue(first)) / 86400)
	step := int(math.Ceil(float64(span) / float64(t.Labels-1)))
	if step < 1 {
		step = 1
	}

	var ticks []plot.Tick
	for d := first; !d.After(last) && len(ticks) < t.Labels; d = d.AddDays(step) {
		ticks = append(ticks, plot.Tick{Value: dayValue(d), Label: d.Label()})
	}
	return ticks
}

// intTicks labels the y axis with whole numbers only
func intTicks(max int) plot.ConstantTicks {
	step := niceStep(max)

	var ticks plot.ConstantTicks
	for v := 0; v <= max; v += step {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	return ticks
}

// niceStep picks the smallest 1, 2, 5 x 10^n step giving at most ten intervals
func niceStep(max int) int {
	for mag := 1; ; mag *= 10 {
		for _, s := range []int{1, 2, 5} {
			if max/(s*mag) <= 10 {
				return s * mag
			}
		}
	}
}
