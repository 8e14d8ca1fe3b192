package dataset

// AllDirections is the sentinel that disables direction filtering. An
// empty direction means the same thing.
const AllDirections = "All"

// Filter selects rows by derived date and direction label. Zero-value
// fields are inactive.
type Filter struct {
	DateFrom  string // inclusive lower bound, YYYY-MM-DD
	DateTo    string // inclusive upper bound, YYYY-MM-DD
	Direction string
}

// dateActive reports whether any date bound is set. When it is, rows
// with an absent Date are excluded outright.
func (f Filter) dateActive() bool {
	return f.DateFrom != "" || f.DateTo != ""
}

func (f Filter) directionActive() bool {
	return f.Direction != "" && f.Direction != AllDirections
}

// IsZero reports whether the filter selects everything.
func (f Filter) IsZero() bool {
	return !f.dateActive() && !f.directionActive()
}

func (f Filter) matches(r *Record) bool {
	if f.dateActive() {
		if r.Date == "" {
			return false
		}
		if f.DateFrom != "" && r.Date < f.DateFrom {
			return false
		}
		if f.DateTo != "" && r.Date > f.DateTo {
			return false
		}
	}
	if f.directionActive() && r.Direction != f.Direction {
		return false
	}
	return true
}

// Filter returns a new table holding the rows the filter selects. The
// receiver is never mutated, so successive filter changes always start
// from the full preprocessed table.
func (t *Table) Filter(f Filter) *Table {
	out := &Table{Columns: t.Columns}
	if f.IsZero() {
		out.Records = append(out.Records, t.Records...)
		return out
	}
	for i := range t.Records {
		if f.matches(&t.Records[i]) {
			out.Records = append(out.Records, t.Records[i])
		}
	}
	return out
}
