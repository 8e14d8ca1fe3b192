package dataset

import (
	"sort"
	"strconv"
	"time"
)

// Canonical column names after header cleanup. Lookups use these exact
// strings, so cleanup must run before any field is referenced by name.
const (
	ColFrom      = "From"
	ColTo        = "To"
	ColStatus    = "Status"
	ColCompleted = "Completed"
	ColTimedOut  = "Timed Out"
	ColTimestamp = "Timestamp"
	ColScore     = "Translation Score"
	ColDirection = "Translation Direction"
	ColHour      = "Hour"
	ColDate      = "Date"
)

// DirectionSeparator joins From and To into a direction label.
const DirectionSeparator = " → "

// DateLayout is the canonical layout of derived Date values. ISO dates
// compare correctly as strings, which the date filter relies on.
const DateLayout = "2006-01-02"

// Record is one row of a translation run log. Typed fields are derived
// by Preprocess; cells keeps the raw cell text per column so unknown
// columns survive for display and export.
type Record struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Status    string     `json:"status"`
	Completed bool       `json:"completed"`
	TimedOut  bool       `json:"timed_out"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Hour      int        `json:"hour"` // -1 when Timestamp is absent
	Date      string     `json:"date"` // YYYY-MM-DD, "" when absent
	Score     *float64   `json:"score,omitempty"`
	Direction string     `json:"direction"`

	cells map[string]string
}

// Cell returns the raw cell text for a column, including columns the
// statistics components ignore. Derived columns are rendered from the
// typed fields.
func (r *Record) Cell(column string) string {
	switch column {
	case ColDirection:
		return r.Direction
	case ColHour:
		if r.Timestamp == nil {
			return ""
		}
		return strconv.Itoa(r.Hour)
	case ColDate:
		return r.Date
	}
	return r.cells[column]
}

// Table is an in-memory translation run log: ordered rows plus the
// column names from the source header, post-cleanup.
type Table struct {
	Columns []string
	Records []Record
}

// HasColumn reports whether the source header named the column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the row count.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Directions returns the sorted unique direction labels in the table.
func (t *Table) Directions() []string {
	seen := make(map[string]struct{})
	for i := range t.Records {
		seen[t.Records[i].Direction] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// DateSpan returns the minimum and maximum derived dates, skipping rows
// with an absent date. ok is false when no row has a date.
func (t *Table) DateSpan() (min, max string, ok bool) {
	for i := range t.Records {
		d := t.Records[i].Date
		if d == "" {
			continue
		}
		if !ok {
			min, max, ok = d, d, true
			continue
		}
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max, ok
}
