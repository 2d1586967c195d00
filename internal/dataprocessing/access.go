package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"conexcli/internal/dataset"
	apperrors "conexcli/internal/errors"
	"conexcli/pkg/contracts/domain"
)

var accessDropColumns = []string{
	"COD_DEPARTAMENTO",
	"COD_MUNICIPIO",
	"SEGMENTO",
}

var accessRenames = []headerRename{
	{from: "año", to: domain.ColumnYear},
}

var accessTextColumns = []string{
	domain.ColumnProvider,
	domain.ColumnDepartment,
	domain.ColumnMunicipality,
	domain.ColumnTechnology,
}

var accessNumericColumns = []string{
	domain.ColumnDownloadSpeed,
	domain.ColumnUploadSpeed,
	domain.ColumnAccessCount,
}

// AccessNormalizer turns the raw fixed internet access dataset into its
// normalized form: canonical headers, parsed speeds and access counts,
// derived total speed and technology class.
type AccessNormalizer struct {
	logger *slog.Logger
}

// NewAccessNormalizer creates an AccessNormalizer. A nil logger falls back
// to slog.Default().
func NewAccessNormalizer(logger *slog.Logger) *AccessNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessNormalizer{logger: logger}
}

// Normalize applies the access normalization steps in order. The input
// frame is modified in place and returned.
func (n *AccessNormalizer) Normalize(ctx context.Context, f *dataset.Frame) (*dataset.Frame, error) {
	inputRows := f.NumRows()

	f.DropColumns(accessDropColumns...)

	if err := f.TransformHeaders(normalizeHeader); err != nil {
		return nil, apperrors.NewMalformedError("cannot normalize access headers", err)
	}

	if err := applyHeaderRenames(f, accessRenames); err != nil {
		return nil, err
	}

	if err := coerceText(f, accessTextColumns); err != nil {
		return nil, err
	}

	for _, col := range accessNumericColumns {
		if _, err := f.CoerceFloat(col, parseNumeric); err != nil {
			return nil, apperrors.NewNumericError("cannot parse numeric column", err).
				WithContext("column", col)
		}
	}

	if err := deriveTotalSpeed(f); err != nil {
		return nil, err
	}

	if err := deriveTechnologyClass(f); err != nil {
		return nil, err
	}

	n.logger.InfoContext(ctx, "Access dataset normalized",
		slog.Int("input_rows", inputRows),
		slog.Int("rows", f.NumRows()),
		slog.Int("columns", f.NumColumns()))

	return f, nil
}

// parseNumeric converts a textual numeric cell to a float. Every comma is
// replaced with a period before parsing, so locale decimal separators
// survive ("50,0" parses as 50.0). Null stays null; a parsed NaN becomes
// null so aggregations skip it; a non-empty unparseable value is an error.
func parseNumeric(v dataset.NullString) (dataset.NullFloat64, error) {
	if !v.Valid {
		return dataset.NullFloat64{}, nil
	}

	s := strings.ReplaceAll(strings.TrimSpace(v.String), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return dataset.NullFloat64{}, fmt.Errorf("cannot parse %q as number", v.String)
	}
	if math.IsNaN(f) {
		return dataset.NullFloat64{}, nil
	}

	return dataset.FloatOf(f), nil
}

// deriveTotalSpeed appends download speed plus upload speed. The sum is
// null when either operand is null.
func deriveTotalSpeed(f *dataset.Frame) error {
	down, ok := f.Column(domain.ColumnDownloadSpeed)
	if !ok {
		return apperrors.NewSchemaError(
			fmt.Sprintf("cannot derive %s: required column %q missing", domain.ColumnTotalSpeed, domain.ColumnDownloadSpeed))
	}
	up, ok := f.Column(domain.ColumnUploadSpeed)
	if !ok {
		return apperrors.NewSchemaError(
			fmt.Sprintf("cannot derive %s: required column %q missing", domain.ColumnTotalSpeed, domain.ColumnUploadSpeed))
	}

	totals := make([]dataset.NullFloat64, f.NumRows())
	for i := range totals {
		d, u := down.FloatAt(i), up.FloatAt(i)
		if d.Valid && u.Valid {
			totals[i] = dataset.FloatOf(d.Float64 + u.Float64)
		}
	}

	return f.AppendColumn(dataset.NewFloatColumn(domain.ColumnTotalSpeed, totals))
}

// deriveTechnologyClass appends the coarse technology category for each
// row's tecnologia value.
func deriveTechnologyClass(f *dataset.Frame) error {
	tech, ok := f.Column(domain.ColumnTechnology)
	if !ok {
		return apperrors.NewSchemaError(
			fmt.Sprintf("cannot derive %s: required column %q missing", domain.ColumnTechnologyClass, domain.ColumnTechnology))
	}

	classes := make([]dataset.NullString, f.NumRows())
	for i := range classes {
		classes[i] = dataset.StringOf(string(ClassifyTechnology(tech.StringAt(i))))
	}

	return f.AppendColumn(dataset.NewStringColumn(domain.ColumnTechnologyClass, classes))
}
