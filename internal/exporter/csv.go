package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"conexcli/internal/config"
)

// utf8BOM is the byte order mark Excel expects before UTF-8 CSV content.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes result files into the configured output directory.
// Relative paths land under the output directory; absolute paths are
// written where they point.
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a writer rooted at the configured output directory.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures a single CSV write.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Excel needs the BOM to detect UTF-8
}

// WriteCSV writes the header row and records to filePath in one call.
// Append adds to an existing file instead of truncating it and skips
// both the header row and the BOM.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	target := w.resolvePath(filePath)

	slog.Info("Writing CSV output",
		slog.String("path", target),
		slog.Int("rows", len(options.Records)))

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if options.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	file, err := openTarget(target, flags)
	if err != nil {
		return err
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(file)

	if len(options.Headers) > 0 && !options.Append {
		if err := cw.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// StreamWriter emits one CSV record at a time, for outputs built row by
// row rather than assembled in memory first.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter opens filePath, writes the optional BOM and the
// header row, and returns a writer for the data rows.
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string, bomPrefix bool) (*StreamWriter, error) {
	target := w.resolvePath(filePath)

	slog.Info("Opening CSV stream",
		slog.String("path", target),
		slog.Int("columns", len(headers)))

	file, err := openTarget(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	if err != nil {
		return nil, err
	}

	if bomPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write header row: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord appends a single data row.
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered rows and closes the file.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// openTarget creates the parent directory as needed and opens the file.
func openTarget(path string, flags int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return file, nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetOutputPath(filePath)
}
