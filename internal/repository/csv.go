package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVSource reads collections from a directory of CSV exports
type CSVSource struct {
	dir string
}

// NewCSVSource creates a CSV source rooted at dir
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// Name implements Source
func (s *CSVSource) Name() string {
	return "csv"
}

// Fetch implements Source
func (s *CSVSource) Fetch(ctx context.Context, table NamedTable) ([]Record, error) {
	path := filepath.Join(s.dir, table.File)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return readCSV(ctx, f, table)
}

func readCSV(ctx context.Context, r io.Reader, table NamedTable) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: empty file", ErrSchemaMismatch, table.File)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", table.File, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err := table.checkHeader(header); err != nil {
		return nil, err
	}

	var records []Record
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", table.File, line, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		records = append(records, project(table, row))
	}
	return records, nil
}
