package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"conexcli/internal/dataset"
	apperrors "conexcli/internal/errors"
	"conexcli/pkg/contracts/domain"
)

// Raw identifying columns removed before header normalization. Missing
// columns are tolerated.
var coverageDropColumns = []string{
	"COD DEPARTAMENTO",
	"COD MUNICIPIO",
	"CABECERA MUNICIPAL",
	"COD CENTRO POBLADO",
}

// Known source header defects, fixed only when present.
var coverageRenames = []headerRename{
	{from: "cobertuta_4g", to: domain.ColumnCoverage4G},
	{from: "año", to: domain.ColumnYear},
}

var coverageTextColumns = []string{
	domain.ColumnProvider,
	domain.ColumnDepartment,
	domain.ColumnMunicipality,
	domain.ColumnPopulatedCenter,
}

// CoverageNormalizer turns the raw mobile coverage dataset into its
// normalized form: canonical headers, three-valued technology markers,
// derived totals, and exact duplicates removed.
type CoverageNormalizer struct {
	logger *slog.Logger
}

// NewCoverageNormalizer creates a CoverageNormalizer. A nil logger falls
// back to slog.Default().
func NewCoverageNormalizer(logger *slog.Logger) *CoverageNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoverageNormalizer{logger: logger}
}

// Normalize applies the coverage normalization steps in order. The input
// frame is modified in place and returned.
func (n *CoverageNormalizer) Normalize(ctx context.Context, f *dataset.Frame) (*dataset.Frame, error) {
	inputRows := f.NumRows()

	f.DropColumns(coverageDropColumns...)

	if err := f.TransformHeaders(normalizeHeader); err != nil {
		return nil, apperrors.NewMalformedError("cannot normalize coverage headers", err)
	}

	if err := applyHeaderRenames(f, coverageRenames); err != nil {
		return nil, err
	}

	if err := coerceText(f, coverageTextColumns); err != nil {
		return nil, err
	}

	for _, col := range domain.CoverageTechnologyColumns() {
		f.CoerceBool(col, parseCoverageMarker)
	}

	if err := deriveTotalTechnologies(f); err != nil {
		return nil, err
	}

	if err := deriveHas4GOrBetter(f); err != nil {
		return nil, err
	}

	f.DropDuplicates()

	n.logger.InfoContext(ctx, "Coverage dataset normalized",
		slog.Int("input_rows", inputRows),
		slog.Int("rows", f.NumRows()),
		slog.Int("columns", f.NumColumns()),
		slog.Int("duplicates_removed", inputRows-f.NumRows()))

	return f, nil
}

// parseCoverageMarker maps the S/N coverage markers to a three-valued
// bool. Anything other than S or N, including an absent value, is null;
// it never defaults to false.
func parseCoverageMarker(v dataset.NullString) dataset.Bool {
	if !v.Valid {
		return dataset.BoolNull
	}
	switch strings.ToUpper(strings.TrimSpace(v.String)) {
	case "S":
		return dataset.BoolTrue
	case "N":
		return dataset.BoolFalse
	}
	return dataset.BoolNull
}

// deriveTotalTechnologies appends the per-row count of technologies marked
// present. Null markers contribute zero.
func deriveTotalTechnologies(f *dataset.Frame) error {
	markers := make([]*dataset.Column, 0, len(domain.CoverageTechnologyColumns()))
	for _, name := range domain.CoverageTechnologyColumns() {
		col, ok := f.Column(name)
		if !ok {
			return apperrors.NewSchemaError(
				fmt.Sprintf("cannot derive %s: required column %q missing", domain.ColumnTotalTechnologies, name))
		}
		markers = append(markers, col)
	}

	totals := make([]dataset.NullFloat64, f.NumRows())
	for i := range totals {
		count := 0
		for _, col := range markers {
			if col.BoolAt(i).IsTrue() {
				count++
			}
		}
		totals[i] = dataset.FloatOf(float64(count))
	}

	return f.AppendColumn(dataset.NewFloatColumn(domain.ColumnTotalTechnologies, totals))
}

// deriveHas4GOrBetter appends the Kleene OR of the 4G, LTE and 5G markers.
// A null marker ORed with true is true; with false it stays null.
func deriveHas4GOrBetter(f *dataset.Frame) error {
	names := []string{domain.ColumnCoverage4G, domain.ColumnCoverageLTE, domain.ColumnCoverage5G}

	cols := make([]*dataset.Column, 0, len(names))
	for _, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return apperrors.NewSchemaError(
				fmt.Sprintf("cannot derive %s: required column %q missing", domain.ColumnHas4GOrBetter, name))
		}
		cols = append(cols, col)
	}

	values := make([]dataset.Bool, f.NumRows())
	for i := range values {
		acc := dataset.BoolFalse
		for _, col := range cols {
			acc = acc.Or(col.BoolAt(i))
		}
		values[i] = acc
	}

	return f.AppendColumn(dataset.NewBoolColumn(domain.ColumnHas4GOrBetter, values))
}
