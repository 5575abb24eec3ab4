// Package storage reads the input code list and appends output rows, both as
// flat CSV files. No transactional guarantees: a partial output file after a
// crash is expected, and reruns append (deduplication is the caller's job).
package storage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/profitools/listgen/internal/types"
)

// Header is the fixed output column order.
var Header = []string{"Product Code", "Product Name", "Image URL", "Product URL", "Spanish Description"}

const inputTemplate = "ProductCode\n# Add your product codes below, one per line\n"

// ReadCodes reads product codes from the first column of path. Blank lines,
// comment lines starting with '#', and the template header are skipped;
// duplicates are dropped preserving first occurrence. A missing file is
// created with the commented template and yields zero codes.
func ReadCodes(path string, logger *slog.Logger) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if werr := os.WriteFile(path, []byte(inputTemplate), 0o644); werr != nil {
			return nil, &types.StorageError{Path: path, Err: werr}
		}
		logger.Info("input file created, add product codes and re-run", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &types.StorageError{Path: path, Err: err}
	}

	seen := make(map[string]bool)
	var codes []string
	for _, row := range records {
		if len(row) == 0 {
			continue
		}
		code := strings.TrimSpace(row[0])
		if code == "" || strings.EqualFold(code, "ProductCode") {
			continue
		}
		if seen[code] {
			logger.Warn("duplicate code in input, keeping first occurrence", "code", code)
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}

	logger.Info("product codes loaded", "path", path, "count", len(codes))
	return codes, nil
}

// Appender appends output rows to a CSV file, writing the header exactly
// once when the file is new or empty. Prior rows are never rewritten.
type Appender struct {
	path   string
	file   *os.File
	writer *csv.Writer
	count  int
	logger *slog.Logger
}

// NewAppender opens (or creates) the output file in append mode.
func NewAppender(path string, logger *slog.Logger) (*Appender, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &types.StorageError{Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &types.StorageError{Path: path, Err: err}
	}

	a := &Appender{
		path:   path,
		file:   f,
		writer: csv.NewWriter(f),
		logger: logger.With("component", "csv_appender"),
	}

	if info.Size() == 0 {
		if err := a.writer.Write(Header); err != nil {
			f.Close()
			return nil, &types.StorageError{Path: path, Err: fmt.Errorf("write header: %w", err)}
		}
		a.writer.Flush()
		if err := a.writer.Error(); err != nil {
			f.Close()
			return nil, &types.StorageError{Path: path, Err: err}
		}
	}

	return a, nil
}

// Append writes one row and flushes, so a killed run keeps everything
// written so far.
func (a *Appender) Append(row types.OutputRow) error {
	if err := a.writer.Write(row.Strings()); err != nil {
		return &types.StorageError{Path: a.path, Err: err}
	}
	a.writer.Flush()
	if err := a.writer.Error(); err != nil {
		return &types.StorageError{Path: a.path, Err: err}
	}
	a.count++
	return nil
}

// Close flushes and closes the output file.
func (a *Appender) Close() error {
	a.writer.Flush()
	a.logger.Info("output written", "path", a.path, "rows", a.count)
	if err := a.writer.Error(); err != nil {
		a.file.Close()
		return &types.StorageError{Path: a.path, Err: err}
	}
	return a.file.Close()
}
