package stats

import (
	"mtdash/internal/dataset"
)

// HistogramBins is the fixed bin count for the score distribution.
const HistogramBins = 20

// PieSlice is one labelled count for the results pie chart.
type PieSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// HistogramBin is one bucket of the score distribution. Low is
// inclusive; High is exclusive except for the last bin.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// DirectionBars holds the stacked-bar series: one entry per direction,
// with completed and timed-out counts aligned by index.
type DirectionBars struct {
	Directions []string `json:"directions"`
	Completed  []int    `json:"completed"`
	TimedOut   []int    `json:"timed_out"`
}

// Series bundles the chart-ready data the presentation layer renders.
type Series struct {
	Pie       []PieSlice     `json:"pie"`
	Histogram []HistogramBin `json:"histogram"`
	Bars      DirectionBars  `json:"bars"`
}

// ChartSeries computes the pie counts, the score histogram, and the
// per-direction stacked-bar counts for a possibly filtered table.
func ChartSeries(t *dataset.Table) Series {
	summary := Summarize(t)

	other := summary.Total - summary.Completed - summary.TimedOut
	if other < 0 {
		// Rows can be both completed and timed out in a noisy log;
		// clamp so the pie never shows a negative remainder.
		other = 0
	}
	series := Series{
		Pie: []PieSlice{
			{Label: "Completed", Value: summary.Completed},
			{Label: "Timed Out", Value: summary.TimedOut},
			{Label: "Other", Value: other},
		},
		Histogram: scoreHistogram(t, HistogramBins),
	}

	for _, ds := range ByDirection(t) {
		series.Bars.Directions = append(series.Bars.Directions, ds.Direction)
		series.Bars.Completed = append(series.Bars.Completed, ds.Completed)
		series.Bars.TimedOut = append(series.Bars.TimedOut, ds.TimedOut)
	}
	return series
}

// scoreHistogram buckets the non-absent scores into bins equal-width
// buckets over the observed range. No scores means no bins; a constant
// score collapses into a single bin.
func scoreHistogram(t *dataset.Table, bins int) []HistogramBin {
	var scores []float64
	for i := range t.Records {
		if s := t.Records[i].Score; s != nil {
			scores = append(scores, *s)
		}
	}
	if len(scores) == 0 {
		return nil
	}

	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if min == max {
		return []HistogramBin{{Low: min, High: max, Count: len(scores)}}
	}

	width := (max - min) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Low = min + float64(i)*width
		out[i].High = min + float64(i+1)*width
	}
	out[bins-1].High = max

	for _, s := range scores {
		idx := int((s - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}
