package dataprocessing

import (
	"strings"

	"conexcli/internal/dataset"
	"conexcli/pkg/contracts/domain"
)

// ClassifyTechnology maps a free-text access technology to its coarse
// category. Matching is case-insensitive and ordered: the exact copper
// names first, then substring checks from fiber down to cable, so a value
// naming several technologies resolves to the earliest category. A null
// input classifies as OTHER.
func ClassifyTechnology(v dataset.NullString) domain.TechnologyClass {
	if !v.Valid {
		return domain.TechnologyClassOther
	}

	upper := strings.ToUpper(v.String)

	switch upper {
	case "ADSL", "XDSL", "DSL":
		return domain.TechnologyClassCopper
	}

	switch {
	case strings.Contains(upper, "FIBER"), strings.Contains(upper, "FIBRA"):
		return domain.TechnologyClassFiber
	case strings.Contains(upper, "SATELLITE"), strings.Contains(upper, "SATELITAL"):
		return domain.TechnologyClassSatellite
	case strings.Contains(upper, "WIFI"), strings.Contains(upper, "WIRELESS"),
		strings.Contains(upper, "INALAMBRICO"):
		return domain.TechnologyClassWireless
	case strings.Contains(upper, "CABLE"):
		return domain.TechnologyClassCable
	}

	return domain.TechnologyClassOther
}
