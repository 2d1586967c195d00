package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "conexcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Sources       SourcesConfig       `yaml:"sources" envconfig:"SOURCES"`
	Output        OutputConfig        `yaml:"output" envconfig:"OUTPUT"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// SourcesConfig locates the two input datasets. Paths may be .csv or .xlsx;
// the loader decides by extension.
type SourcesConfig struct {
	CoverageFile string `yaml:"coverage_file" envconfig:"COVERAGE_FILE" validate:"required"`
	AccessFile   string `yaml:"access_file" envconfig:"ACCESS_FILE" validate:"required"`
}

// OutputConfig controls where the three result files are written
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	CoverageFile string `yaml:"coverage_file" envconfig:"COVERAGE_FILE" validate:"required"`
	AccessFile   string `yaml:"access_file" envconfig:"ACCESS_FILE" validate:"required"`
	MergedFile   string `yaml:"merged_file" envconfig:"MERGED_FILE" validate:"required"`
	BOMPrefix    bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ObservabilityConfig controls tracing of pipeline runs
type ObservabilityConfig struct {
	TracingEnabled bool    `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" validate:"required"`
}

// Default returns the built-in configuration defaults. Source paths have no
// default; they come from flags, the environment, or a config file.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:          "output",
			CoverageFile: "cobertura_movil_etl.csv",
			AccessFile:   "accesos_etl.csv",
			MergedFile:   "merge_etl.csv",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/etl.log",
		},
		Observability: ObservabilityConfig{
			TracingEnabled: false,
			SampleRatio:    1.0,
			Environment:    "development",
		},
	}
}

// Load assembles configuration from defaults, an optional YAML file, and
// CONEX_* environment variables, in that order of precedence. A .env file
// in the working directory is read into the environment first, if present.
// Validation is deferred to Validate so the caller can layer flag
// overrides on top.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, cfg); err != nil {
				return nil, apperrors.NewConfigError(fmt.Sprintf("loading config file %s", configFile), err)
			}
		} else if !os.IsNotExist(err) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("checking config file %s", configFile), err)
		}
	}

	if err := envconfig.Process("CONEX", cfg); err != nil {
		return nil, apperrors.NewConfigError("reading environment", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file; keys absent from
// the file keep their current values
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks the assembled configuration, including values set after
// loading (flag overrides)
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("invalid configuration", err)
	}
	return nil
}
