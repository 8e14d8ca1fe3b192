package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// unknownValue fills absent categorical fields.
const unknownValue = "Unknown"

// timestampLayouts are tried in order when coercing the Timestamp
// column. Unparsable values become absent, not errors.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Preprocess normalizes a loaded table: header cleanup, Unknown fill,
// boolean and timestamp and score coercion, direction derivation. The
// input table is not mutated; the steps run in a fixed order because
// later steps look fields up by their cleaned names. Preprocess is
// idempotent: feeding its output back in changes nothing.
func Preprocess(raw *Table) (*Table, error) {
	if raw == nil {
		return nil, fmt.Errorf("preprocess: no table")
	}

	columns := cleanColumns(raw.Columns)
	rename := make(map[string]string, len(columns))
	for i, col := range raw.Columns {
		rename[col] = columns[i]
	}

	out := &Table{
		Columns: columns,
		Records: make([]Record, len(raw.Records)),
	}
	for i := range raw.Records {
		src := raw.Records[i]
		cells := make(map[string]string, len(src.cells))
		for col, v := range src.cells {
			if clean, ok := rename[col]; ok {
				cells[clean] = v
			} else {
				cells[col] = v
			}
		}

		rec := Record{cells: cells}

		rec.From = fillUnknown(cells, ColFrom)
		rec.To = fillUnknown(cells, ColTo)
		rec.Status = fillUnknown(cells, ColStatus)

		// "Yes" maps to true and anything else, including a missing
		// cell, to false. Explicit "No" and absent are deliberately
		// indistinguishable here; downstream statistics assume these
		// columns are boolean, never tri-state.
		rec.Completed = cells[ColCompleted] == "Yes"
		rec.TimedOut = cells[ColTimedOut] == "Yes"

		rec.Hour = -1
		if ts, ok := parseTimestamp(cells[ColTimestamp]); ok {
			rec.Timestamp = &ts
			rec.Hour = ts.Hour()
			rec.Date = ts.Format(DateLayout)
		}

		if score, ok := parseScore(cells[ColScore]); ok {
			rec.Score = &score
		}

		rec.Direction = rec.From + DirectionSeparator + rec.To
		out.Records[i] = rec
	}
	return out, nil
}

// cleanColumns strips surrounding whitespace and a single trailing
// comma from each header so lookups by exact name succeed despite
// source formatting noise.
func cleanColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		col = strings.TrimSpace(col)
		col = strings.TrimSuffix(col, ",")
		out[i] = col
	}
	return out
}

// fillUnknown returns the trimmed cell value, writing the Unknown
// default back into the cell map so exports see the filled value.
func fillUnknown(cells map[string]string, col string) string {
	v := strings.TrimSpace(cells[col])
	if v == "" {
		v = unknownValue
	}
	cells[col] = v
	return v
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
