package domain

import (
	"time"
)

// Normalized column names shared by every pipeline stage. These are the
// post-normalization (trimmed, lowercased, underscored) forms; the raw
// source headers only exist inside the normalizers.
const (
	ColumnYear         = "ano"
	ColumnQuarter      = "trimestre"
	ColumnDepartment   = "departamento"
	ColumnMunicipality = "municipio"
	ColumnProvider     = "proveedor"

	// Coverage dataset columns
	ColumnPopulatedCenter = "centro_poblado"
	ColumnCoverage2G      = "cobertura_2g"
	ColumnCoverage3G      = "cobertura_3g"
	ColumnCoverage4G      = "cobertura_4g"
	ColumnCoverage5G      = "cobertura_5g"
	ColumnCoverageLTE     = "cobertura_lte"
	ColumnCoverageHSPA    = "cobertura_hspa+,_hspa+dc"

	// Access dataset columns
	ColumnTechnology    = "tecnologia"
	ColumnDownloadSpeed = "velocidad_bajada"
	ColumnUploadSpeed   = "velocidad_subida"
	ColumnAccessCount   = "no_de_accesos"

	// Derived columns
	ColumnTotalTechnologies = "total_technologies"
	ColumnHas4GOrBetter     = "has_4g_or_better"
	ColumnTotalSpeed        = "total_speed"
	ColumnTechnologyClass   = "technology_class"
)

// JoinKeyColumns returns the composite key both datasets are grouped and
// joined on: (year, quarter, department, municipality, provider).
func JoinKeyColumns() []string {
	return []string{
		ColumnYear,
		ColumnQuarter,
		ColumnDepartment,
		ColumnMunicipality,
		ColumnProvider,
	}
}

// CoverageTechnologyColumns returns the six per-generation coverage marker
// columns of the coverage dataset, in schema order.
func CoverageTechnologyColumns() []string {
	return []string{
		ColumnCoverage2G,
		ColumnCoverage3G,
		ColumnCoverageHSPA,
		ColumnCoverage4G,
		ColumnCoverageLTE,
		ColumnCoverage5G,
	}
}

// TechnologyClass is the coarse access-technology category derived from the
// free-text tecnologia column.
type TechnologyClass string

const (
	TechnologyClassCopper    TechnologyClass = "COPPER"
	TechnologyClassFiber     TechnologyClass = "FIBER"
	TechnologyClassSatellite TechnologyClass = "SATELLITE"
	TechnologyClassWireless  TechnologyClass = "WIRELESS"
	TechnologyClassCable     TechnologyClass = "CABLE"
	TechnologyClassOther     TechnologyClass = "OTHER"
)

// Shape describes the dimensions of a dataset.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// MergeStats describes the outcome of the inner join between the grouped
// coverage and access datasets. Dropped counts are distinct join keys that
// appeared on one side only.
type MergeStats struct {
	MatchedKeys         int `json:"matched_keys"`
	DroppedCoverageKeys int `json:"dropped_coverage_keys"`
	DroppedAccessKeys   int `json:"dropped_access_keys"`
}

// RunSummary describes a completed pipeline run.
type RunSummary struct {
	RunID         string        `json:"run_id"`
	StartTime     time.Time     `json:"start_time"`
	Duration      time.Duration `json:"duration"`
	CoverageShape Shape         `json:"coverage_shape"`
	AccessShape   Shape         `json:"access_shape"`
	MergedShape   Shape         `json:"merged_shape"`
	MergeStats    MergeStats    `json:"merge_stats"`
	OutputFiles   []string      `json:"output_files"`
}
