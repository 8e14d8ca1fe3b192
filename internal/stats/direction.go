package stats

import (
	"sort"

	"mtdash/internal/dataset"
)

// DirectionStats summarizes one translation direction group.
type DirectionStats struct {
	Direction      string  `json:"direction"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	TimedOut       int     `json:"timed_out"`
	CompletionRate float64 `json:"completion_rate"` // percent, 1 decimal
	TimeoutRate    float64 `json:"timeout_rate"`    // percent, 1 decimal
	AvgScore       float64 `json:"avg_score"`       // 2 decimals, 0 when no scores
}

// ByDirection groups rows by direction label and summarizes each group.
// The result is sorted by direction label so output is deterministic.
func ByDirection(t *dataset.Table) []DirectionStats {
	type acc struct {
		total, completed, timedOut int
		scoreSum                   float64
		scoreCount                 int
	}

	groups := make(map[string]*acc)
	for i := range t.Records {
		rec := &t.Records[i]
		g := groups[rec.Direction]
		if g == nil {
			g = &acc{}
			groups[rec.Direction] = g
		}
		g.total++
		if rec.Completed {
			g.completed++
		}
		if rec.TimedOut {
			g.timedOut++
		}
		if rec.Score != nil {
			g.scoreSum += *rec.Score
			g.scoreCount++
		}
	}

	out := make([]DirectionStats, 0, len(groups))
	for direction, g := range groups {
		ds := DirectionStats{
			Direction: direction,
			Total:     g.total,
			Completed: g.completed,
			TimedOut:  g.timedOut,
		}
		if g.total > 0 {
			ds.CompletionRate = round1(float64(g.completed) / float64(g.total) * 100)
			ds.TimeoutRate = round1(float64(g.timedOut) / float64(g.total) * 100)
		}
		if g.scoreCount > 0 {
			ds.AvgScore = round2(g.scoreSum / float64(g.scoreCount))
		}
		out = append(out, ds)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Direction < out[j].Direction
	})
	return out
}
