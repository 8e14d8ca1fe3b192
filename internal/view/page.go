package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mtdash/internal/stats"
)

// Data is everything the dashboard page renders. It is a pure snapshot
// of aggregation output; the view never touches the dataset itself.
type Data struct {
	Source     string
	Summary    stats.Summary
	Breakdown  []stats.DirectionStats
	Series     stats.Series
	Directions []string
}

// Render writes the dashboard HTML page: summary header, pie chart,
// score histogram, stacked per-direction bars, and the breakdown table.
func Render(w io.Writer, data Data) error {
	page := components.NewPage()
	page.PageTitle = "Translation Test Results"
	page.SetLayout(components.PageCenterLayout)

	page.AddCharts(
		resultsPie(data.Series.Pie),
		scoreHistogram(data.Series.Histogram),
		directionBars(data.Series.Bars),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	header, err := renderHeader(data)
	if err != nil {
		return err
	}
	table, err := renderBreakdown(data.Breakdown)
	if err != nil {
		return err
	}

	// go-echarts renders a complete document; the summary header goes
	// right after <body> and the breakdown table right before </body>.
	html := buf.String()
	if strings.Contains(html, "<body>") {
		html = strings.Replace(html, "<body>", "<body>"+header, 1)
	} else {
		html = header + html
	}
	if strings.Contains(html, "</body>") {
		html = strings.Replace(html, "</body>", table+"</body>", 1)
	} else {
		html += table
	}

	_, err = io.WriteString(w, html)
	return err
}

func resultsPie(slices []stats.PieSlice) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Translation Results"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.PieData, 0, len(slices))
	for _, s := range slices {
		items = append(items, opts.PieData{Name: s.Label, Value: s.Value})
	}

	pie.AddSeries("results", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

func scoreHistogram(bins []stats.HistogramBin) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Translation Score Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(bins))
	counts := make([]opts.BarData, 0, len(bins))
	for _, b := range bins {
		labels = append(labels, fmt.Sprintf("%.2f–%.2f", b.Low, b.High))
		counts = append(counts, opts.BarData{Value: b.Count})
	}

	bar.SetXAxis(labels).AddSeries("scores", counts)
	return bar
}

func directionBars(bars stats.DirectionBars) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Results by Translation Direction"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	completed := make([]opts.BarData, 0, len(bars.Completed))
	for _, v := range bars.Completed {
		completed = append(completed, opts.BarData{Value: v})
	}
	timedOut := make([]opts.BarData, 0, len(bars.TimedOut))
	for _, v := range bars.TimedOut {
		timedOut = append(timedOut, opts.BarData{Value: v})
	}

	bar.SetXAxis(bars.Directions).
		AddSeries("Completed", completed).
		AddSeries("Timed Out", timedOut).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "results"}))
	return bar
}

var headerTmpl = template.Must(template.New("header").Parse(`
<div style="max-width:900px;margin:24px auto;font-family:sans-serif">
  <h1>Translation Test Results</h1>
  <p>Source: <strong>{{.Source}}</strong></p>
  <div style="display:flex;gap:32px">
    <div><b>{{.Summary.Total}}</b><br>Total</div>
    <div><b>{{.Summary.Completed}}</b><br>Completed</div>
    <div><b>{{.Summary.TimedOut}}</b><br>Timed Out</div>
    <div><b>{{printf "%.1f" .Summary.CompletionRate}}%</b><br>Completion Rate</div>
    <div><b>{{printf "%.2f" .Summary.AvgScore}}</b><br>Avg Score</div>
  </div>
</div>`))

var breakdownTmpl = template.Must(template.New("breakdown").Parse(`
<div style="max-width:900px;margin:24px auto;font-family:sans-serif">
  <h2>Breakdown by Direction</h2>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><th>Direction</th><th>Total</th><th>Completed</th><th>Timed Out</th><th>Completion %</th><th>Timeout %</th><th>Avg Score</th></tr>
    {{range .}}
    <tr>
      <td>{{.Direction}}</td><td>{{.Total}}</td><td>{{.Completed}}</td><td>{{.TimedOut}}</td>
      <td>{{.CompletionRate}}</td><td>{{.TimeoutRate}}</td><td>{{.AvgScore}}</td>
    </tr>
    {{end}}
  </table>
</div>`))

func renderHeader(data Data) (string, error) {
	var buf bytes.Buffer
	if err := headerTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render header: %w", err)
	}
	return buf.String(), nil
}

func renderBreakdown(breakdown []stats.DirectionStats) (string, error) {
	var buf bytes.Buffer
	if err := breakdownTmpl.Execute(&buf, breakdown); err != nil {
		return "", fmt.Errorf("render breakdown: %w", err)
	}
	return buf.String(), nil
}
