// Package dataprocessing implements the connectivity ETL transformations.
// It covers the complete data lifecycle from source ingestion to the merged
// dataset: loading, normalization, classification and merging.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Loader: Reads the coverage and access source files into frames
// 2. Normalizers: Canonicalize headers, coerce types, derive columns
// 3. Classifier: Maps free-text access technologies to coarse categories
// 4. Merger: Groups both datasets on the shared key and inner joins them
//
// # Usage
//
// Loading the sources:
//
//	loader := dataprocessing.NewLoader(logger)
//	coverage, access, err := loader.LoadSources(ctx, coveragePath, accessPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Normalizing and merging:
//
//	coverage, err = dataprocessing.NewCoverageNormalizer(logger).Normalize(ctx, coverage)
//	access, err = dataprocessing.NewAccessNormalizer(logger).Normalize(ctx, access)
//	merged, stats, err := dataprocessing.NewMerger(logger).Merge(ctx, coverage, access)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Source Files → Loader → Frames → Normalizers → Normalized Frames → Merger → Merged Frame
//
// # Error Handling
//
// Every failure is fatal for the run; there is no row-level skip and
// continue. Errors carry the pipeline taxonomy from internal/errors:
//
//	- Unreadable sources fail as SOURCE_UNAVAILABLE
//	- Unparseable sources fail as MALFORMED_SOURCE
//	- Missing required columns fail as SCHEMA_VIOLATION
//	- Non-numeric values in numeric columns fail as NUMERIC_PARSE
package dataprocessing
