package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/marketmind/backend/internal/domain"
)

// CSVSource reads a tabular file of historical products
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV-backed data source for path
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name identifies the source in provenance
func (s *CSVSource) Name() string {
	return domain.SourceCSV
}

// Path returns the file the source reads
func (s *CSVSource) Path() string {
	return s.path
}

// Load reads the whole file, maps its header and cleans the rows
func (s *CSVSource) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	headers, rows, err := parseCSV(b)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrSourceUnavailable, s.path, err)
	}
	if headers == nil {
		return nil, fmt.Errorf("%w: %s has no header row", domain.ErrSchemaMismatch, s.path)
	}

	return BuildRecords(headers, rows)
}

// parseCSV splits raw bytes into a header and data rows. Ragged rows are
// allowed; missing trailing fields read as empty.
func parseCSV(b []byte) ([]string, [][]string, error) {
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, rec)
	}
	return headers, rows, nil
}
