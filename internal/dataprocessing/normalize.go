package dataprocessing

import (
	"fmt"
	"strings"

	"conexcli/internal/dataset"
	apperrors "conexcli/internal/errors"
)

// normalizeHeader converts a raw source header to its canonical form:
// trimmed, lowercased, spaces replaced with underscores.
func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// headerRename declares a conditional column rename. The rename applies
// only when the source column exists after header normalization.
type headerRename struct {
	from string
	to   string
}

func applyHeaderRenames(f *dataset.Frame, renames []headerRename) error {
	for _, r := range renames {
		if !f.HasColumn(r.from) {
			continue
		}
		if err := f.RenameColumn(r.from, r.to); err != nil {
			return apperrors.NewSchemaError(
				fmt.Sprintf("cannot rename column %q to %q: both exist in the source", r.from, r.to))
		}
	}
	return nil
}

// coerceText asserts that the designated text columns are present as
// nullable strings. Loaded frames already hold every cell as a nullable
// string, so presence is the whole contract; absent values stay null and
// are never turned into a literal "nan".
func coerceText(f *dataset.Frame, cols []string) error {
	for _, col := range cols {
		if !f.HasColumn(col) {
			return apperrors.NewSchemaError(
				fmt.Sprintf("required column %q missing after normalization", col))
		}
	}
	return nil
}
