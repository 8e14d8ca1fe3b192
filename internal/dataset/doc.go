// Package dataset provides loading and normalization of translation run
// logs. It consolidates CSV ingestion, column cleanup, and type coercion
// into a cohesive package that turns raw CSV text into the typed table
// every other component consumes.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Loader: reads CSV text from a file path or byte stream
// 2. Preprocessor: normalizes columns and derives typed fields
// 3. Cache: memoizes preprocessed tables keyed by source identity
//
// # Usage
//
// Load and preprocess in one step:
//
//	table, err := dataset.LoadFile("results.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Filter without mutating the source table:
//
//	view := table.Filter(dataset.Filter{DateFrom: "2025-08-01", Direction: "EN → FR"})
//
// # Data Flow
//
// CSV text → Loader → raw Table → Preprocessor → typed Table → Filter → stats
//
// # Error Handling
//
// Malformed CSV aborts the load with a wrapped error and no table.
// Per-cell coercion failures never abort: an unparsable timestamp or
// score becomes absent and is excluded from aggregation downstream.
package dataset
