package exporter

import (
	"strconv"
)

// formatFloat formats a float64 value for CSV output using the shortest
// representation that round-trips, so 50 stays "50" and 1.5 stays "1.5"
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
