package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conexcli/internal/dataset"
	apperrors "conexcli/internal/errors"
	"conexcli/pkg/contracts/domain"
)

func mustFrame(t *testing.T, headers []string, rows [][]string) *dataset.Frame {
	t.Helper()

	frame, err := dataset.FromRecords(headers, rows)
	require.NoError(t, err)
	return frame
}

var rawCoverageHeaders = []string{
	"AÑO", "TRIMESTRE",
	"COD DEPARTAMENTO", "DEPARTAMENTO",
	"COD MUNICIPIO", "MUNICIPIO",
	"COD CENTRO POBLADO", "CABECERA MUNICIPAL", "CENTRO POBLADO",
	"PROVEEDOR",
	"COBERTURA 2G", "COBERTURA 3G", "COBERTURA HSPA+, HSPA+DC",
	"COBERTUTA 4G", "COBERTURA LTE", "COBERTURA 5G",
}

func rawCoverageRow(year, quarter, dept, muni, center, provider, g2, g3, hspa, g4, lte, g5 string) []string {
	return []string{
		year, quarter,
		"05", dept,
		"05001", muni,
		"05001000", "cabecera", center,
		provider,
		g2, g3, hspa,
		g4, lte, g5,
	}
}

func TestCoverageNormalizer_Normalize(t *testing.T) {
	frame := mustFrame(t, rawCoverageHeaders, [][]string{
		rawCoverageRow("2023", "1", "ANTIOQUIA", "MEDELLIN", "EL POBLADO", "CLARO", "S", "S", "N", "S", "N", "N"),
		rawCoverageRow("2023", "1", "ANTIOQUIA", "MEDELLIN", "EL POBLADO", "CLARO", "S", "S", "N", "S", "N", "N"),
		rawCoverageRow("2023", "1", "ANTIOQUIA", "MEDELLIN", "BELEN", "TIGO", "s", "n", "", "X", "S", "N"),
	})

	out, err := NewCoverageNormalizer(nil).Normalize(context.Background(), frame)
	require.NoError(t, err)

	assert.Equal(t, []string{
		domain.ColumnYear, domain.ColumnQuarter,
		domain.ColumnDepartment, domain.ColumnMunicipality, domain.ColumnPopulatedCenter,
		domain.ColumnProvider,
		domain.ColumnCoverage2G, domain.ColumnCoverage3G, domain.ColumnCoverageHSPA,
		domain.ColumnCoverage4G, domain.ColumnCoverageLTE, domain.ColumnCoverage5G,
		domain.ColumnTotalTechnologies, domain.ColumnHas4GOrBetter,
	}, out.ColumnNames())

	// The exact duplicate is gone, first occurrence kept.
	require.Equal(t, 2, out.NumRows())

	g2, _ := out.Column(domain.ColumnCoverage2G)
	assert.Equal(t, dataset.BoolTrue, g2.BoolAt(0))
	assert.Equal(t, dataset.BoolTrue, g2.BoolAt(1), "lowercase s maps to true")

	g4, _ := out.Column(domain.ColumnCoverage4G)
	assert.Equal(t, dataset.BoolTrue, g4.BoolAt(0))
	assert.Equal(t, dataset.BoolNull, g4.BoolAt(1), "unrecognized marker is null, not false")

	hspa, _ := out.Column(domain.ColumnCoverageHSPA)
	assert.Equal(t, dataset.BoolFalse, hspa.BoolAt(0))
	assert.Equal(t, dataset.BoolNull, hspa.BoolAt(1), "empty marker is null, not false")

	// Row 0: S,S,N,S,N,N counts 3. Row 1: s,n,null,X,S,N counts 2.
	totals, _ := out.Column(domain.ColumnTotalTechnologies)
	assert.Equal(t, dataset.FloatOf(3), totals.FloatAt(0))
	assert.Equal(t, dataset.FloatOf(2), totals.FloatAt(1))

	// Row 0: S or N or N = true. Row 1: null or S or N = true.
	has4g, _ := out.Column(domain.ColumnHas4GOrBetter)
	assert.Equal(t, dataset.BoolTrue, has4g.BoolAt(0))
	assert.Equal(t, dataset.BoolTrue, has4g.BoolAt(1))
}

func TestCoverageNormalizer_Has4GOrBetterKleene(t *testing.T) {
	tests := []struct {
		name string
		g4   string
		lte  string
		g5   string
		want dataset.Bool
	}{
		{name: "all false", g4: "N", lte: "N", g5: "N", want: dataset.BoolFalse},
		{name: "true wins over null", g4: "", lte: "S", g5: "N", want: dataset.BoolTrue},
		{name: "null with false stays null", g4: "N", lte: "", g5: "N", want: dataset.BoolNull},
		{name: "all null", g4: "", lte: "", g5: "", want: dataset.BoolNull},
		{name: "plain true", g4: "S", lte: "N", g5: "N", want: dataset.BoolTrue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := mustFrame(t, rawCoverageHeaders, [][]string{
				rawCoverageRow("2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "CLARO", "S", "S", "S", tt.g4, tt.lte, tt.g5),
			})

			out, err := NewCoverageNormalizer(nil).Normalize(context.Background(), frame)
			require.NoError(t, err)

			has4g, ok := out.Column(domain.ColumnHas4GOrBetter)
			require.True(t, ok)
			assert.Equal(t, tt.want, has4g.BoolAt(0))
		})
	}
}

func TestCoverageNormalizer_MarkerParsing(t *testing.T) {
	tests := []struct {
		name  string
		input dataset.NullString
		want  dataset.Bool
	}{
		{name: "S", input: dataset.StringOf("S"), want: dataset.BoolTrue},
		{name: "N", input: dataset.StringOf("N"), want: dataset.BoolFalse},
		{name: "padded lowercase s", input: dataset.StringOf(" s "), want: dataset.BoolTrue},
		{name: "padded n", input: dataset.StringOf("n "), want: dataset.BoolFalse},
		{name: "null", input: dataset.NullString{}, want: dataset.BoolNull},
		{name: "empty string", input: dataset.StringOf(""), want: dataset.BoolNull},
		{name: "si is not a marker", input: dataset.StringOf("SI"), want: dataset.BoolNull},
		{name: "numeric junk", input: dataset.StringOf("1"), want: dataset.BoolNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCoverageMarker(tt.input))
		})
	}
}

func TestCoverageNormalizer_DropColumnsTolerated(t *testing.T) {
	// None of the raw identifying columns present.
	frame := mustFrame(t,
		[]string{"AÑO", "TRIMESTRE", "DEPARTAMENTO", "MUNICIPIO", "CENTRO POBLADO", "PROVEEDOR",
			"COBERTURA 2G", "COBERTURA 3G", "COBERTURA HSPA+, HSPA+DC", "COBERTUTA 4G", "COBERTURA LTE", "COBERTURA 5G"},
		[][]string{{"2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "CLARO", "S", "N", "N", "N", "N", "N"}},
	)

	out, err := NewCoverageNormalizer(nil).Normalize(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, 1, out.NumRows())
}

func TestCoverageNormalizer_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		row     []string
		wantMsg string
	}{
		{
			name: "missing technology marker column",
			headers: []string{"AÑO", "TRIMESTRE", "DEPARTAMENTO", "MUNICIPIO", "CENTRO POBLADO", "PROVEEDOR",
				"COBERTURA 2G", "COBERTURA 3G", "COBERTURA HSPA+, HSPA+DC", "COBERTUTA 4G", "COBERTURA LTE"},
			row:     []string{"2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "CLARO", "S", "N", "N", "N", "N"},
			wantMsg: "cobertura_5g",
		},
		{
			name: "missing provider column",
			headers: []string{"AÑO", "TRIMESTRE", "DEPARTAMENTO", "MUNICIPIO", "CENTRO POBLADO",
				"COBERTURA 2G", "COBERTURA 3G", "COBERTURA HSPA+, HSPA+DC", "COBERTUTA 4G", "COBERTURA LTE", "COBERTURA 5G"},
			row:     []string{"2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "S", "N", "N", "N", "N", "N"},
			wantMsg: "proveedor",
		},
		{
			name: "typo and corrected 4g column both present",
			headers: []string{"AÑO", "TRIMESTRE", "DEPARTAMENTO", "MUNICIPIO", "CENTRO POBLADO", "PROVEEDOR",
				"COBERTURA 2G", "COBERTURA 3G", "COBERTURA HSPA+, HSPA+DC", "COBERTUTA 4G", "COBERTURA 4G", "COBERTURA LTE", "COBERTURA 5G"},
			row:     []string{"2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "CLARO", "S", "N", "N", "S", "N", "N", "N"},
			wantMsg: "cobertuta_4g",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := mustFrame(t, tt.headers, [][]string{tt.row})

			_, err := NewCoverageNormalizer(nil).Normalize(context.Background(), frame)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCoverageNormalizer_HeaderCollision(t *testing.T) {
	frame := mustFrame(t,
		[]string{"PROVEEDOR", " proveedor ", "AÑO", "TRIMESTRE", "DEPARTAMENTO", "MUNICIPIO", "CENTRO POBLADO",
			"COBERTURA 2G", "COBERTURA 3G", "COBERTURA HSPA+, HSPA+DC", "COBERTUTA 4G", "COBERTURA LTE", "COBERTURA 5G"},
		[][]string{{"CLARO", "TIGO", "2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "S", "N", "N", "N", "N", "N"}},
	)

	_, err := NewCoverageNormalizer(nil).Normalize(context.Background(), frame)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMalformed), "got %v", err)
}

func TestCoverageNormalizer_DuplicatesRespectMarkers(t *testing.T) {
	// Rows differing only in a marker are not duplicates.
	frame := mustFrame(t, rawCoverageHeaders, [][]string{
		rawCoverageRow("2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "CLARO", "S", "S", "S", "S", "S", "S"),
		rawCoverageRow("2023", "1", "ANTIOQUIA", "MEDELLIN", "CENTRO", "CLARO", "S", "S", "S", "S", "S", "N"),
	})

	out, err := NewCoverageNormalizer(nil).Normalize(context.Background(), frame)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}
