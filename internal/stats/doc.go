// Package stats computes aggregate statistics over a translation run
// table: the overall summary, the per-direction breakdown, and the
// chart-ready series the dashboard renders. Every function here is a
// pure function of its input table; absent scores and timestamps are
// excluded from aggregation, never treated as zero.
package stats
