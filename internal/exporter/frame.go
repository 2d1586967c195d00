package exporter

import (
	"context"
	"log/slog"

	"conexcli/internal/dataset"
	apperrors "conexcli/internal/errors"
)

// WriteFrame writes a frame as CSV: one header row, one record per frame
// row, no index column. Null cells of every kind render as empty fields,
// bools as true/false, floats in their shortest round-trip form. I/O
// failures are write errors; a partially written file may remain on disk.
func (w *CSVWriter) WriteFrame(ctx context.Context, frame *dataset.Frame, filePath string, bomPrefix bool) error {
	names := frame.ColumnNames()

	stream, err := w.CreateStreamWriter(filePath, names, bomPrefix)
	if err != nil {
		return apperrors.NewWriteError("cannot create output file", err).
			WithContext("path", filePath)
	}

	cols := make([]*dataset.Column, len(names))
	for j, name := range names {
		cols[j], _ = frame.Column(name)
	}

	record := make([]string, len(cols))
	for i := 0; i < frame.NumRows(); i++ {
		for j, col := range cols {
			record[j] = renderCell(col, i)
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return apperrors.NewWriteError("cannot write output row", err).
				WithContext("path", filePath)
		}
	}

	if err := stream.Close(); err != nil {
		return apperrors.NewWriteError("cannot finalize output file", err).
			WithContext("path", filePath)
	}

	slog.InfoContext(ctx, "Dataset exported",
		slog.String("file_path", filePath),
		slog.Int("rows", frame.NumRows()),
		slog.Int("columns", frame.NumColumns()))

	return nil
}

// renderCell renders a single cell for CSV output. A null of any kind is
// the empty field.
func renderCell(c *dataset.Column, i int) string {
	switch c.Kind() {
	case dataset.KindString:
		v := c.StringAt(i)
		if !v.Valid {
			return ""
		}
		return v.String
	case dataset.KindBool:
		v := c.BoolAt(i)
		if !v.Valid() {
			return ""
		}
		return formatBool(v.IsTrue())
	default:
		v := c.FloatAt(i)
		if !v.Valid {
			return ""
		}
		return formatFloat(v.Float64)
	}
}
