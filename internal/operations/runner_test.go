package operations

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conexcli/internal/config"
	"conexcli/internal/dataprocessing"
	apperrors "conexcli/internal/errors"
	"conexcli/internal/exporter"
	"conexcli/pkg/contracts/domain"
)

const runnerCoverageCSV = `AÑO,TRIMESTRE,DEPARTAMENTO,MUNICIPIO,CENTRO POBLADO,PROVEEDOR,COBERTURA 2G,COBERTURA 3G,"COBERTURA HSPA+, HSPA+DC",COBERTUTA 4G,COBERTURA LTE,COBERTURA 5G
2023,1,ANTIOQUIA,MEDELLIN,EL POBLADO,CLARO,S,S,N,S,N,N
2023,1,ANTIOQUIA,MEDELLIN,EL POBLADO,CLARO,S,S,N,S,N,N
2023,1,ANTIOQUIA,BELLO,CENTRO,TIGO,S,N,N,N,N,N
`

const runnerAccessCSV = `AÑO,TRIMESTRE,DEPARTAMENTO,MUNICIPIO,SEGMENTO,PROVEEDOR,TECNOLOGIA,VELOCIDAD BAJADA,VELOCIDAD SUBIDA,No DE ACCESOS
2023,1,ANTIOQUIA,MEDELLIN,RESIDENCIAL,CLARO,FIBRA,"50,0","10,0",100
`

func runnerConfig(t *testing.T) *config.Config {
	t.Helper()

	srcDir := t.TempDir()
	coveragePath := filepath.Join(srcDir, "coverage.csv")
	accessPath := filepath.Join(srcDir, "access.csv")
	require.NoError(t, os.WriteFile(coveragePath, []byte(runnerCoverageCSV), 0644))
	require.NoError(t, os.WriteFile(accessPath, []byte(runnerAccessCSV), 0644))

	cfg := config.Default()
	cfg.Sources.CoverageFile = coveragePath
	cfg.Sources.AccessFile = accessPath
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestRunner_Run(t *testing.T) {
	cfg := runnerConfig(t)

	summary, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, domain.Shape{Rows: 2, Columns: 14}, summary.CoverageShape, "duplicate row removed")
	assert.Equal(t, domain.Shape{Rows: 1, Columns: 11}, summary.AccessShape)
	assert.Equal(t, domain.Shape{Rows: 1, Columns: 20}, summary.MergedShape)
	assert.Equal(t, domain.MergeStats{
		MatchedKeys:         1,
		DroppedCoverageKeys: 1,
	}, summary.MergeStats)
	require.Len(t, summary.OutputFiles, 3)

	for _, path := range summary.OutputFiles {
		assert.FileExists(t, path)
	}

	merged, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.MergedFile))
	require.NoError(t, err)

	wantMerged := `ano,trimestre,departamento,municipio,proveedor,centro_poblado,cobertura_2g,cobertura_3g,"cobertura_hspa+,_hspa+dc",cobertura_4g,cobertura_lte,cobertura_5g,total_technologies,has_4g_or_better,tecnologia,velocidad_bajada,velocidad_subida,no_de_accesos,total_speed,technology_class
2023,1,ANTIOQUIA,MEDELLIN,CLARO,EL POBLADO,true,true,false,true,false,false,3,true,FIBRA,50,10,100,60,FIBER
`
	assert.Equal(t, wantMerged, string(merged))

	access, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.AccessFile))
	require.NoError(t, err)

	wantAccess := `ano,trimestre,departamento,municipio,proveedor,tecnologia,velocidad_bajada,velocidad_subida,no_de_accesos,total_speed,technology_class
2023,1,ANTIOQUIA,MEDELLIN,CLARO,FIBRA,50,10,100,60,FIBER
`
	assert.Equal(t, wantAccess, string(access))

	coverage, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.CoverageFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(coverage)), "\n")
	require.Len(t, lines, 3, "header plus two normalized rows")
	assert.True(t, strings.HasPrefix(lines[0], "ano,trimestre,"))
}

func TestRunner_Run_SourceMissing(t *testing.T) {
	cfg := runnerConfig(t)
	cfg.Sources.CoverageFile = filepath.Join(t.TempDir(), "absent.csv")

	summary, err := NewRunner(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSource), "got %v", err)

	// The run failed before export, so no output file exists.
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, cfg.Output.MergedFile))
}

func TestRunner_Run_NormalizationFailureAbortsBeforeExport(t *testing.T) {
	cfg := runnerConfig(t)

	// A non-numeric speed makes the access normalization fail.
	badAccess := strings.Replace(runnerAccessCSV, `"50,0"`, "rapida", 1)
	require.NoError(t, os.WriteFile(cfg.Sources.AccessFile, []byte(badAccess), 0644))

	_, err := NewRunner(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNumeric), "got %v", err)

	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, cfg.Output.MergedFile))
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, cfg.Output.CoverageFile))
}

func TestRunner_Run_BOMPrefix(t *testing.T) {
	cfg := runnerConfig(t)
	cfg.Output.BOMPrefix = true

	_, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, cfg.Output.MergedFile))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestLoadStep_StoresFrames(t *testing.T) {
	cfg := runnerConfig(t)

	state := NewOperationState("test")
	step := NewLoadStep(dataprocessing.NewLoader(nil), cfg.Sources.CoverageFile, cfg.Sources.AccessFile)

	require.NoError(t, step.Execute(context.Background(), state))

	coverage := state.CoverageFrame()
	require.NotNil(t, coverage)
	assert.Equal(t, 3, coverage.NumRows())

	access := state.AccessFrame()
	require.NotNil(t, access)
	assert.Equal(t, 1, access.NumRows())
}

func TestMergeStep_MissingFramesFails(t *testing.T) {
	state := NewOperationState("test")
	step := NewMergeStep(dataprocessing.NewMerger(nil))

	err := step.Execute(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coverage frame")
}

func TestExportStep_MissingFramesFails(t *testing.T) {
	cfg := runnerConfig(t)
	paths := config.NewPaths(cfg)

	state := NewOperationState("test")
	step := NewExportStep(exporter.NewCSVWriter(paths), paths, cfg.Output)

	err := step.Execute(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coverage frame")
}
