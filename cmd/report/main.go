// Command report prints the summary and per-direction breakdown of a
// translation results CSV as text tables. It is the headless rendition
// of the dashboard for scripting and quick inspection.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"mtdash/internal/dataset"
	"mtdash/internal/stats"
)

func main() {
	godotenv.Load()

	var (
		path      = flag.String("file", "Translation Framework Test Results @ 08.19.csv", "path to the results CSV")
		from      = flag.String("from", "", "start date filter (YYYY-MM-DD)")
		to        = flag.String("to", "", "end date filter (YYYY-MM-DD)")
		direction = flag.String("direction", "", "direction filter, e.g. \"English → French\"")
	)
	flag.Parse()

	if err := run(*path, dataset.Filter{DateFrom: *from, DateTo: *to, Direction: *direction}); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func run(path string, filter dataset.Filter) error {
	loaded, err := dataset.LoadFile(path)
	if err != nil {
		return err
	}
	t := loaded.Filter(filter)

	fmt.Printf("Source: %s (%d rows", path, loaded.Len())
	if !filter.IsZero() {
		fmt.Printf(", %d after filter", t.Len())
	}
	fmt.Println(")")
	fmt.Println()

	fmt.Println(summaryTable(stats.Summarize(t)))
	fmt.Println()
	fmt.Println(breakdownTable(stats.ByDirection(t)))
	return nil
}

func summaryTable(s stats.Summary) string {
	w := table.NewWriter()
	w.SetTitle("Summary")
	w.AppendHeader(table.Row{"Metric", "Value"})
	w.AppendRows([]table.Row{
		{"Total Translations", s.Total},
		{"Completed", s.Completed},
		{"Timed Out", s.TimedOut},
		{"Completion Rate (%)", s.CompletionRate},
		{"Timeout Rate (%)", s.TimeoutRate},
		{"Avg Translation Score", s.AvgScore},
	})
	w.SetStyle(table.StyleLight)
	return w.Render()
}

func breakdownTable(breakdown []stats.DirectionStats) string {
	w := table.NewWriter()
	w.SetTitle("By Direction")
	w.AppendHeader(table.Row{"Direction", "Total", "Completed", "Timed Out", "Completion %", "Timeout %", "Avg Score"})
	for _, d := range breakdown {
		w.AppendRow(table.Row{d.Direction, d.Total, d.Completed, d.TimedOut, d.CompletionRate, d.TimeoutRate, d.AvgScore})
	}
	w.SetStyle(table.StyleLight)
	return w.Render()
}
