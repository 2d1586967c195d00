// Package exporter writes pipeline datasets to CSV files.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and an optional UTF-8 BOM for Excel compatibility.
//
// WriteFrame: Renders a dataset frame to disk with one header row and no
// index column. Null cells become empty fields, bools render as
// true/false, floats in their shortest round-trip form.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	err := writer.WriteFrame(ctx, merged, "merge_etl.csv", false)
//
// Writes are not atomic: a failure mid-write can leave a partial file at
// the output location.
package exporter
