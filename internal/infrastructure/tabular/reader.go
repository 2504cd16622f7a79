// Package tabular implements the tabular I/O boundary of the scanner: record
// sources for CSV files and xlsx workbooks, and the atomic CSV result writer.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/aiscan/internal/domain/inventory"
)

// ErrMissingColumn is a structural input error: the file has no column the
// scanner can treat as the product name. It aborts the run before any record
// is processed, unlike per-row data problems.
var ErrMissingColumn = errors.New("required column not found")

// Columns carries explicit header names for the input file. Empty fields fall
// back to header discovery: "product name"/"product", a header containing
// both "vendor" and "name" (or plain "vendor"), "description", "status".
type Columns struct {
	Vendor      string `yaml:"vendor"`
	Product     string `yaml:"product"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

// columnIndex holds resolved positions in a header row. -1 means absent.
type columnIndex struct {
	vendor      int
	product     int
	description int
	status      int
}

// locateColumns resolves header positions, honoring explicit overrides before
// discovery. A missing product column is structural; every other column is
// optional.
func locateColumns(header []string, cols Columns) (columnIndex, error) {
	idx := columnIndex{vendor: -1, product: -1, description: -1, status: -1}

	match := func(cell, explicit string, discover func(string) bool) bool {
		if explicit != "" {
			return strings.EqualFold(cell, explicit)
		}
		return discover(cell)
	}

	for i, raw := range header {
		cell := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case idx.product < 0 && match(cell, cols.Product, func(c string) bool {
			return c == "product name" || c == "product"
		}):
			idx.product = i
		case idx.vendor < 0 && match(cell, cols.Vendor, func(c string) bool {
			return (strings.Contains(c, "vendor") && strings.Contains(c, "name")) || c == "vendor"
		}):
			idx.vendor = i
		case idx.description < 0 && match(cell, cols.Description, func(c string) bool {
			return c == "description"
		}):
			idx.description = i
		case idx.status < 0 && match(cell, cols.Status, func(c string) bool {
			return c == "status"
		}):
			idx.status = i
		}
	}

	if idx.product < 0 {
		name := cols.Product
		if name == "" {
			name = "product name"
		}
		return idx, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}

	return idx, nil
}

// cellAt returns the trimmed cell at position i, or "" when the row is short
// or the column is absent.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// CSVSource reads records from a delimited file with one header row. Every
// data row becomes a record, so the results table always matches the input
// row for row.
type CSVSource struct {
	path    string
	columns Columns
}

func NewCSVSource(path string, columns Columns) *CSVSource {
	return &CSVSource{path: path, columns: columns}
}

func (s *CSVSource) Load() ([]inventory.SoftwareRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("input file is empty: %s", s.path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// Spreadsheet exports often lead with a UTF-8 BOM.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx, err := locateColumns(header, s.columns)
	if err != nil {
		return nil, err
	}

	var records []inventory.SoftwareRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		records = append(records, inventory.SoftwareRecord{
			Vendor:      cellAt(row, idx.vendor),
			Product:     cellAt(row, idx.product),
			Description: cellAt(row, idx.description),
		})
	}

	return records, nil
}
