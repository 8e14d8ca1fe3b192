package stats

import (
	"math"

	"mtdash/internal/dataset"
)

// Summary holds the overall performance numbers for a table in scope.
type Summary struct {
	Total          int     `json:"total_translations"`
	Completed      int     `json:"completed_translations"`
	TimedOut       int     `json:"timed_out_translations"`
	CompletionRate float64 `json:"completion_rate"`
	TimeoutRate    float64 `json:"timeout_rate"`
	AvgScore       float64 `json:"avg_score"`
}

// Summarize computes the overall summary for a possibly filtered table.
// Rates are 0 for an empty table, and AvgScore is 0 when no row has a
// usable score.
func Summarize(t *dataset.Table) Summary {
	s := Summary{Total: t.Len()}

	var scoreSum float64
	var scoreCount int
	for i := range t.Records {
		rec := &t.Records[i]
		if rec.Completed {
			s.Completed++
		}
		if rec.TimedOut {
			s.TimedOut++
		}
		if rec.Score != nil {
			scoreSum += *rec.Score
			scoreCount++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
		s.TimeoutRate = float64(s.TimedOut) / float64(s.Total) * 100
	}
	if scoreCount > 0 {
		s.AvgScore = scoreSum / float64(scoreCount)
	}
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
