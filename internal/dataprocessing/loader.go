package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"conexcli/internal/dataset"
	apperrors "conexcli/internal/errors"
)

// Loader reads the two source datasets into frames. It is a pure I/O
// boundary: headers and cells are taken verbatim from the file, empty cells
// load as nulls, and no transformation happens here.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadSources reads the coverage and access source files.
func (l *Loader) LoadSources(ctx context.Context, coveragePath, accessPath string) (*dataset.Frame, *dataset.Frame, error) {
	coverage, err := l.Load(ctx, coveragePath)
	if err != nil {
		return nil, nil, err
	}

	access, err := l.Load(ctx, accessPath)
	if err != nil {
		return nil, nil, err
	}

	return coverage, access, nil
}

// Load reads a single source file into a frame. The file extension selects
// the reader: .csv for delimited text, .xlsx for Excel workbooks.
func (l *Loader) Load(ctx context.Context, path string) (*dataset.Frame, error) {
	var frame *dataset.Frame
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		frame, err = l.readCSV(path)
	case ".xlsx":
		frame, err = l.readExcel(path)
	default:
		err = apperrors.NewSourceError(
			fmt.Sprintf("unsupported source file extension %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}

	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Source file loaded",
		slog.String("path", path),
		slog.Int("rows", frame.NumRows()),
		slog.Int("columns", frame.NumColumns()))

	return frame, nil
}

// readCSV reads a delimited text file. The csv reader enforces a uniform
// field count, so a ragged file fails as malformed.
func (l *Loader) readCSV(path string) (*dataset.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceError("cannot open source file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewMalformedError("source file has no header row", err).
				WithContext("path", path)
		}
		return nil, apperrors.NewMalformedError("cannot parse source header", err).
			WithContext("path", path)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewMalformedError("cannot parse delimited source", err).
				WithContext("path", path)
		}
		rows = append(rows, record)
	}

	frame, err := dataset.FromRecords(header, rows)
	if err != nil {
		return nil, apperrors.NewMalformedError("source is not valid tabular data", err).
			WithContext("path", path)
	}

	return frame, nil
}

// readExcel reads the first sheet of an Excel workbook. The first row is
// the header; short rows are padded with nulls, matching how sheets omit
// trailing empty cells.
func (l *Loader) readExcel(path string) (*dataset.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewSourceError("cannot open source file", err).
				WithContext("path", path)
		}
		return nil, apperrors.NewMalformedError("cannot open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewMalformedError("workbook has no sheets", nil).
			WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewMalformedError("cannot read workbook sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}

	if len(rows) == 0 {
		return nil, apperrors.NewMalformedError("source file has no header row", nil).
			WithContext("path", path)
	}

	frame, err := dataset.FromRecords(rows[0], rows[1:])
	if err != nil {
		return nil, apperrors.NewMalformedError("source is not valid tabular data", err).
			WithContext("path", path)
	}

	return frame, nil
}
