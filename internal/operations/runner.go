package operations

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"conexcli/internal/config"
	"conexcli/internal/dataprocessing"
	"conexcli/internal/exporter"
	"conexcli/internal/infrastructure"
	"conexcli/pkg/contracts/domain"
)

// Runner wires the pipeline steps together and executes them: load, then
// the two normalizations in parallel, then merge, then export. The first
// failing step aborts the run.
type Runner struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	tracer *OperationTracer
}

// NewRunner creates a Runner for the given configuration. A nil logger
// falls back to slog.Default().
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		cfg:    cfg,
		paths:  config.NewPaths(cfg),
		logger: logger,
		tracer: NewOperationTracer(),
	}
}

// phases returns the pipeline steps grouped into sequential phases. Steps
// inside one phase run concurrently.
func (r *Runner) phases() [][]Step {
	loader := dataprocessing.NewLoader(r.logger)
	writer := exporter.NewCSVWriter(r.paths)

	return [][]Step{
		{NewLoadStep(loader, r.paths.CoverageSource, r.paths.AccessSource)},
		{
			NewNormalizeCoverageStep(dataprocessing.NewCoverageNormalizer(r.logger)),
			NewNormalizeAccessStep(dataprocessing.NewAccessNormalizer(r.logger)),
		},
		{NewMergeStep(dataprocessing.NewMerger(r.logger))},
		{NewExportStep(writer, r.paths, r.cfg.Output)},
	}
}

// Run executes the pipeline once and returns its summary. On failure the
// returned error is the first step error; no further steps run.
func (r *Runner) Run(ctx context.Context) (*domain.RunSummary, error) {
	operationID := uuid.New().String()
	ctx = infrastructure.ContextWithTraceID(ctx, operationID)

	ctx, span := r.tracer.TraceOperationExecution(ctx, operationID)

	state := NewOperationState(operationID)
	state.Start()

	r.logger.InfoContext(ctx, "Pipeline run starting",
		slog.String("operation_id", operationID),
		slog.String("coverage_source", r.paths.CoverageSource),
		slog.String("access_source", r.paths.AccessSource),
		slog.String("output_dir", r.paths.OutputDir))

	for _, phase := range r.phases() {
		if err := r.runPhase(ctx, state, phase); err != nil {
			state.Fail(err)
			EndSpan(span, err)
			r.logger.ErrorContext(ctx, "Pipeline run failed",
				slog.String("operation_id", operationID),
				slog.String("error", err.Error()))
			return nil, err
		}
	}

	state.Complete()
	EndSpan(span, nil)

	summary := r.buildSummary(state)
	r.logger.InfoContext(ctx, "Pipeline run complete",
		slog.String("operation_id", operationID),
		slog.Duration("duration", summary.Duration),
		slog.Int("merged_rows", summary.MergedShape.Rows),
		slog.Int("matched_keys", summary.MergeStats.MatchedKeys))

	return summary, nil
}

// runPhase executes the steps of one phase, concurrently when there is
// more than one.
func (r *Runner) runPhase(ctx context.Context, state *OperationState, phase []Step) error {
	if len(phase) == 1 {
		return r.runStep(ctx, state, phase[0])
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, step := range phase {
		step := step
		g.Go(func() error {
			return r.runStep(gctx, state, step)
		})
	}
	return g.Wait()
}

// runStep tracks one step through its lifecycle.
func (r *Runner) runStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := NewStepState(step.ID(), step.Name())
	state.SetStep(step.ID(), stepState)

	ctx, span := r.tracer.TraceStepExecution(ctx, state.ID, step.ID())

	stepState.Start()
	r.logger.InfoContext(ctx, "Step starting",
		slog.String("step", step.ID()),
		slog.String("name", step.Name()))

	if err := step.Execute(ctx, state); err != nil {
		stepState.Fail(err)
		EndSpan(span, err)
		r.logger.ErrorContext(ctx, "Step failed",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return err
	}

	stepState.Complete()
	EndSpan(span, nil)
	r.logger.InfoContext(ctx, "Step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", stepState.Duration()))

	return nil
}

// buildSummary assembles the run summary from the finished state.
func (r *Runner) buildSummary(state *OperationState) *domain.RunSummary {
	summary := &domain.RunSummary{
		RunID:       state.ID,
		StartTime:   state.StartTime,
		Duration:    state.Duration(),
		MergeStats:  state.MergeStats(),
		OutputFiles: state.OutputFiles(),
	}

	if frame := state.CoverageFrame(); frame != nil {
		summary.CoverageShape = domain.Shape{Rows: frame.NumRows(), Columns: frame.NumColumns()}
	}
	if frame := state.AccessFrame(); frame != nil {
		summary.AccessShape = domain.Shape{Rows: frame.NumRows(), Columns: frame.NumColumns()}
	}
	if frame := state.MergedFrame(); frame != nil {
		summary.MergedShape = domain.Shape{Rows: frame.NumRows(), Columns: frame.NumColumns()}
	}

	return summary
}
