package operations

import (
	"context"
	"fmt"

	"conexcli/internal/config"
	"conexcli/internal/dataprocessing"
	"conexcli/internal/dataset"
	"conexcli/internal/exporter"
)

// Step IDs in execution order.
const (
	StepIDLoad              = "load"
	StepIDNormalizeCoverage = "normalize_coverage"
	StepIDNormalizeAccess   = "normalize_access"
	StepIDMerge             = "merge"
	StepIDExport            = "export"
)

// requireFrame guards steps that consume a frame produced earlier. A nil
// frame means the pipeline ran out of order.
func requireFrame(frame *dataset.Frame, name string) (*dataset.Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("%s frame has not been produced yet", name)
	}
	return frame, nil
}

// LoadStep reads both source datasets into the operation state.
type LoadStep struct {
	loader       *dataprocessing.Loader
	coveragePath string
	accessPath   string
}

func NewLoadStep(loader *dataprocessing.Loader, coveragePath, accessPath string) *LoadStep {
	return &LoadStep{loader: loader, coveragePath: coveragePath, accessPath: accessPath}
}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return "Load source datasets" }

func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	coverage, access, err := s.loader.LoadSources(ctx, s.coveragePath, s.accessPath)
	if err != nil {
		return err
	}

	state.SetCoverageFrame(coverage)
	state.SetAccessFrame(access)
	return nil
}

// NormalizeCoverageStep normalizes the loaded coverage frame in the state.
type NormalizeCoverageStep struct {
	normalizer *dataprocessing.CoverageNormalizer
}

func NewNormalizeCoverageStep(normalizer *dataprocessing.CoverageNormalizer) *NormalizeCoverageStep {
	return &NormalizeCoverageStep{normalizer: normalizer}
}

func (s *NormalizeCoverageStep) ID() string   { return StepIDNormalizeCoverage }
func (s *NormalizeCoverageStep) Name() string { return "Normalize coverage dataset" }

func (s *NormalizeCoverageStep) Execute(ctx context.Context, state *OperationState) error {
	frame, err := requireFrame(state.CoverageFrame(), "coverage")
	if err != nil {
		return err
	}

	normalized, err := s.normalizer.Normalize(ctx, frame)
	if err != nil {
		return err
	}

	state.SetCoverageFrame(normalized)
	return nil
}

// NormalizeAccessStep normalizes the loaded access frame in the state.
type NormalizeAccessStep struct {
	normalizer *dataprocessing.AccessNormalizer
}

func NewNormalizeAccessStep(normalizer *dataprocessing.AccessNormalizer) *NormalizeAccessStep {
	return &NormalizeAccessStep{normalizer: normalizer}
}

func (s *NormalizeAccessStep) ID() string   { return StepIDNormalizeAccess }
func (s *NormalizeAccessStep) Name() string { return "Normalize access dataset" }

func (s *NormalizeAccessStep) Execute(ctx context.Context, state *OperationState) error {
	frame, err := requireFrame(state.AccessFrame(), "access")
	if err != nil {
		return err
	}

	normalized, err := s.normalizer.Normalize(ctx, frame)
	if err != nil {
		return err
	}

	state.SetAccessFrame(normalized)
	return nil
}

// MergeStep groups both normalized frames and inner joins them.
type MergeStep struct {
	merger *dataprocessing.Merger
}

func NewMergeStep(merger *dataprocessing.Merger) *MergeStep {
	return &MergeStep{merger: merger}
}

func (s *MergeStep) ID() string   { return StepIDMerge }
func (s *MergeStep) Name() string { return "Merge datasets" }

func (s *MergeStep) Execute(ctx context.Context, state *OperationState) error {
	coverage, err := requireFrame(state.CoverageFrame(), "coverage")
	if err != nil {
		return err
	}
	access, err := requireFrame(state.AccessFrame(), "access")
	if err != nil {
		return err
	}

	merged, stats, err := s.merger.Merge(ctx, coverage, access)
	if err != nil {
		return err
	}

	state.SetMergedFrame(merged)
	state.SetMergeStats(stats)
	return nil
}

// ExportStep writes the three result datasets to the output directory.
type ExportStep struct {
	writer *exporter.CSVWriter
	paths  *config.Paths
	output config.OutputConfig
}

func NewExportStep(writer *exporter.CSVWriter, paths *config.Paths, output config.OutputConfig) *ExportStep {
	return &ExportStep{writer: writer, paths: paths, output: output}
}

func (s *ExportStep) ID() string   { return StepIDExport }
func (s *ExportStep) Name() string { return "Export result datasets" }

func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	exports := []struct {
		name     string
		frame    *dataset.Frame
		filename string
	}{
		{name: "coverage", frame: state.CoverageFrame(), filename: s.output.CoverageFile},
		{name: "access", frame: state.AccessFrame(), filename: s.output.AccessFile},
		{name: "merged", frame: state.MergedFrame(), filename: s.output.MergedFile},
	}

	written := make([]string, 0, len(exports))
	for _, exp := range exports {
		frame, err := requireFrame(exp.frame, exp.name)
		if err != nil {
			return err
		}
		if err := s.writer.WriteFrame(ctx, frame, exp.filename, s.output.BOMPrefix); err != nil {
			return err
		}
		written = append(written, s.paths.GetOutputPath(exp.filename))
	}

	state.SetOutputFiles(written)
	return nil
}
