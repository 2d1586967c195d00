package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "conexcli/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "cobertura_movil_etl.csv", cfg.Output.CoverageFile)
	assert.Equal(t, "accesos_etl.csv", cfg.Output.AccessFile)
	assert.Equal(t, "merge_etl.csv", cfg.Output.MergedFile)
	assert.False(t, cfg.Output.BOMPrefix)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.False(t, cfg.Observability.TracingEnabled)
	assert.Equal(t, 1.0, cfg.Observability.SampleRatio)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Output, cfg.Output)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
sources:
  coverage_file: data/Cobertura_movil.csv
  access_file: data/Accesos_por_tecnologia.csv
output:
  dir: results
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/Cobertura_movil.csv", cfg.Sources.CoverageFile)
	assert.Equal(t, "results", cfg.Output.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "merge_etl.csv", cfg.Output.MergedFile)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CONEX_SOURCES_COVERAGE_FILE", "env_coverage.csv")
	t.Setenv("CONEX_OUTPUT_DIR", "env_out")
	t.Setenv("CONEX_LOGGING_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env_coverage.csv", cfg.Sources.CoverageFile)
	assert.Equal(t, "env_out", cfg.Output.Dir)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Sources.CoverageFile = "coverage.csv"
		cfg.Sources.AccessFile = "access.csv"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "complete config passes",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing coverage source",
			mutate:  func(c *Config) { c.Sources.CoverageFile = "" },
			wantErr: true,
		},
		{
			name:    "missing access source",
			mutate:  func(c *Config) { c.Sources.AccessFile = "" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "bad log output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: true,
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *Config) { c.Observability.SampleRatio = 1.5 },
			wantErr: true,
		},
		{
			name:    "warning level accepted",
			mutate:  func(c *Config) { c.Logging.Level = "warning" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
