package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"conexcli/internal/dataset"
	"conexcli/pkg/contracts/domain"
)

func TestClassifyTechnology(t *testing.T) {
	tests := []struct {
		name  string
		input dataset.NullString
		want  domain.TechnologyClass
	}{
		{name: "null input", input: dataset.NullString{}, want: domain.TechnologyClassOther},
		{name: "adsl exact", input: dataset.StringOf("ADSL"), want: domain.TechnologyClassCopper},
		{name: "xdsl exact lowercase", input: dataset.StringOf("xdsl"), want: domain.TechnologyClassCopper},
		{name: "dsl exact", input: dataset.StringOf("DSL"), want: domain.TechnologyClassCopper},
		{name: "padded adsl is not an exact match", input: dataset.StringOf(" ADSL "), want: domain.TechnologyClassOther},
		{name: "fiber substring", input: dataset.StringOf("FIBER TO THE HOME"), want: domain.TechnologyClassFiber},
		{name: "fibra accented phrase", input: dataset.StringOf("Fibra óptica"), want: domain.TechnologyClassFiber},
		{name: "satellite", input: dataset.StringOf("SATELLITE"), want: domain.TechnologyClassSatellite},
		{name: "satelital lowercase", input: dataset.StringOf("satelital"), want: domain.TechnologyClassSatellite},
		{name: "wifi", input: dataset.StringOf("WiFi 5.8GHz"), want: domain.TechnologyClassWireless},
		{name: "wireless", input: dataset.StringOf("Fixed Wireless"), want: domain.TechnologyClassWireless},
		{name: "inalambrico", input: dataset.StringOf("ACCESO INALAMBRICO"), want: domain.TechnologyClassWireless},
		{name: "cable", input: dataset.StringOf("Cable coaxial"), want: domain.TechnologyClassCable},
		{name: "unknown", input: dataset.StringOf("HFC"), want: domain.TechnologyClassOther},
		{name: "empty string is not null but still other", input: dataset.StringOf(""), want: domain.TechnologyClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTechnology(tt.input))
		})
	}
}

// A value naming several technologies resolves to the earliest category in
// the evaluation order.
func TestClassifyTechnology_OrderContract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.TechnologyClass
	}{
		{name: "cable fibra resolves to fiber", input: "CABLE FIBRA", want: domain.TechnologyClassFiber},
		{name: "fibra satelital resolves to fiber", input: "FIBRA SATELITAL", want: domain.TechnologyClassFiber},
		{name: "satellite wifi resolves to satellite", input: "SATELLITE WIFI", want: domain.TechnologyClassSatellite},
		{name: "wireless cable resolves to wireless", input: "WIRELESS CABLE", want: domain.TechnologyClassWireless},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTechnology(dataset.StringOf(tt.input)))
		})
	}
}
