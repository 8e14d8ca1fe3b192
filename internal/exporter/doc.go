// Package exporter renders a dataset as downloadable files: CSV for
// the raw filtered table and XLSX for the summary report.
package exporter
