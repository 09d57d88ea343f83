package plotter

import (
	"context"
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/chanplot/internal/core/domain"
)

// AccentHex is Accent in CSS notation
const AccentHex = "#388e3c"

// HTMLWriter renders chart layouts as standalone interactive ECharts pages
type HTMLWriter struct{}

// NewHTMLWriter creates a new HTML chart writer
func NewHTMLWriter() *HTMLWriter {
	return &HTMLWriter{}
}

func (w *HTMLWriter) Ext() string { return ".html" }

// Write renders the layout to an HTML page at path
func (w *HTMLWriter) Write(ctx context.Context, layout domain.ChartLayout, path string) error {
	line := buildLine(layout)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := line.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

// buildLine maps a layout onto an ECharts time-axis line chart
func buildLine(layout domain.ChartLayout) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: layout.Caption,
			Width:     fmt.Sprintf("%dpx", Width),
			Height:    fmt.Sprintf("%dpx", Height),
		}),
		charts.WithTitleOpts(opts.Title{Title: layout.Caption}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
			Min:  layout.XMin.String(),
			Max:  layout.XMax.String(),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Produced",
			Type: "value",
			Min:  0,
			Max:  layout.YMax,
		}),
	)

	data := make([]opts.LineData, 0, len(layout.Points))
	for _, pt := range layout.Points {
		data = append(data, opts.LineData{Value: []interface{}{pt.Date.String(), pt.Count}})
	}

	line.SetXAxis(nil).AddSeries(layout.Caption, data,
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth, Color: AccentHex}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: AccentHex}),
		charts.WithLineChartOpts(opts.LineChart{Symbol: "circle", SymbolSize: pointRadius * 2}),
	)
	return line
}
