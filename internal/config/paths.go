package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the pipeline's file locations, resolved once from the
// configuration. Relative paths stay relative to the working directory.
type Paths struct {
	OutputDir string
	LogsDir   string

	CoverageSource string
	AccessSource   string

	CoverageOutput string
	AccessOutput   string
	MergedOutput   string
}

// NewPaths resolves input and output locations from cfg. LogsDir is empty
// when nothing is logged to a file.
func NewPaths(cfg *Config) *Paths {
	p := &Paths{
		OutputDir:      cfg.Output.Dir,
		CoverageSource: cfg.Sources.CoverageFile,
		AccessSource:   cfg.Sources.AccessFile,
		CoverageOutput: filepath.Join(cfg.Output.Dir, cfg.Output.CoverageFile),
		AccessOutput:   filepath.Join(cfg.Output.Dir, cfg.Output.AccessFile),
		MergedOutput:   filepath.Join(cfg.Output.Dir, cfg.Output.MergedFile),
	}
	if cfg.Logging.Output == "file" || cfg.Logging.Output == "both" {
		p.LogsDir = filepath.Dir(cfg.Logging.FilePath)
	}
	return p
}

// EnsureDirectories creates the output (and, when used, logs) directories
// if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.OutputDir}
	if p.LogsDir != "" {
		directories = append(directories, p.LogsDir)
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetOutputPath returns the path for a file in the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
