package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"conexcli/internal/dataset"
	apperrors "conexcli/internal/errors"
	"conexcli/pkg/contracts/domain"
)

// Merger aggregates both normalized datasets onto the shared join key and
// inner joins them. Keys present on only one side are dropped from the
// merged output and reported in the merge stats.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a Merger. A nil logger falls back to slog.Default().
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// coverageAggregations returns the coverage group reductions in output
// column order.
func coverageAggregations() []dataset.Aggregation {
	aggs := []dataset.Aggregation{
		{Column: domain.ColumnPopulatedCenter, Kind: dataset.AggJoinDistinct},
	}
	for _, col := range domain.CoverageTechnologyColumns() {
		aggs = append(aggs, dataset.Aggregation{Column: col, Kind: dataset.AggAny})
	}
	return append(aggs,
		dataset.Aggregation{Column: domain.ColumnTotalTechnologies, Kind: dataset.AggMean},
		dataset.Aggregation{Column: domain.ColumnHas4GOrBetter, Kind: dataset.AggAny},
	)
}

// accessAggregations returns the access group reductions in output column
// order.
func accessAggregations() []dataset.Aggregation {
	return []dataset.Aggregation{
		{Column: domain.ColumnTechnology, Kind: dataset.AggJoinDistinct},
		{Column: domain.ColumnDownloadSpeed, Kind: dataset.AggMean},
		{Column: domain.ColumnUploadSpeed, Kind: dataset.AggMean},
		{Column: domain.ColumnAccessCount, Kind: dataset.AggSum},
		{Column: domain.ColumnTotalSpeed, Kind: dataset.AggMean},
		{Column: domain.ColumnTechnologyClass, Kind: dataset.AggJoinDistinct},
	}
}

// Merge groups both normalized frames by the join key and inner joins the
// results, coverage columns first. It returns the merged frame and the
// per-side key statistics.
func (m *Merger) Merge(ctx context.Context, coverage, access *dataset.Frame) (*dataset.Frame, domain.MergeStats, error) {
	keys := domain.JoinKeyColumns()

	groupedCoverage, err := dataset.GroupBy(coverage, keys, coverageAggregations())
	if err != nil {
		return nil, domain.MergeStats{}, apperrors.NewSchemaError(
			fmt.Sprintf("cannot group coverage dataset: %v", err))
	}

	groupedAccess, err := dataset.GroupBy(access, keys, accessAggregations())
	if err != nil {
		return nil, domain.MergeStats{}, apperrors.NewSchemaError(
			fmt.Sprintf("cannot group access dataset: %v", err))
	}

	m.logger.DebugContext(ctx, "Datasets grouped",
		slog.Int("coverage_groups", groupedCoverage.NumRows()),
		slog.Int("access_groups", groupedAccess.NumRows()))

	merged, joinStats, err := dataset.InnerJoin(groupedCoverage, groupedAccess, keys)
	if err != nil {
		return nil, domain.MergeStats{}, apperrors.NewSchemaError(
			fmt.Sprintf("cannot join grouped datasets: %v", err))
	}

	stats := domain.MergeStats{
		MatchedKeys:         joinStats.MatchedKeys,
		DroppedCoverageKeys: joinStats.LeftOnlyKeys,
		DroppedAccessKeys:   joinStats.RightOnlyKeys,
	}

	m.logger.InfoContext(ctx, "Datasets merged",
		slog.Int("rows", merged.NumRows()),
		slog.Int("columns", merged.NumColumns()),
		slog.Int("matched_keys", stats.MatchedKeys),
		slog.Int("dropped_coverage_keys", stats.DroppedCoverageKeys),
		slog.Int("dropped_access_keys", stats.DroppedAccessKeys))

	return merged, stats, nil
}
