package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Abbiirr/simple-procmon/internal/history"
)

// WriteHTML renders per-process CPU and memory line charts into one
// self-contained HTML page.
func WriteHTML(path string, meta Meta, records []history.Record) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("procmon session %s", meta.SessionID)

	for _, rec := range records {
		page.AddCharts(
			historyLine(rec, "CPU %", rec.CPUWindow),
			historyLine(rec, "Memory MB", rec.MemoryWindow),
		)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = f.Close() }()
	return page.Render(f)
}

func historyLine(rec history.Record, metric string, window []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s (pid %d) - %s", rec.Identity.DisplayName, rec.Identity.PID, metric),
			Subtitle: fmt.Sprintf("%d samples, window of last %d", rec.Samples, len(window)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
	)

	xLabels := make([]string, len(window))
	data := make([]opts.LineData, len(window))
	for i, v := range window {
		xLabels[i] = fmt.Sprintf("%d", i-len(window)+1)
		data[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(xLabels).AddSeries("", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
	)
	line.SetSeriesOptions(charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}))
	return line
}
