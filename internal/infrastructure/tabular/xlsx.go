package tabular

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/felixgeelhaar/aiscan/internal/domain/inventory"
)

// DefaultSheet is the worksheet scanned when none is named.
const DefaultSheet = "MASTER Spreadsheet"

// ErrSheetNotFound is a structural input error: an explicitly requested
// worksheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("worksheet not found")

// XLSXSource reads records from an xlsx workbook. It mirrors the inventory
// export conventions: the MASTER sheet by default, INACTIVE rows dropped, and
// literal "nan" cells (a pandas export artifact) scrubbed.
type XLSXSource struct {
	path      string
	sheet     string // explicit worksheet; empty means DefaultSheet or first
	allSheets bool
	columns   Columns
}

func NewXLSXSource(path, sheet string, allSheets bool, columns Columns) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet, allSheets: allSheets, columns: columns}
}

func (s *XLSXSource) Load() ([]inventory.SoftwareRecord, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	sheets, err := s.selectSheets(f)
	if err != nil {
		return nil, err
	}

	var records []inventory.SoftwareRecord
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		idx, err := locateColumns(rows[0], s.columns)
		if err != nil {
			if s.allSheets {
				// Workbooks carry auxiliary sheets without inventory
				// columns; skip them on a whole-workbook pass.
				continue
			}
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}

		for _, row := range rows[1:] {
			rec, ok := s.buildRecord(row, idx, sheet)
			if ok {
				records = append(records, rec)
			}
		}
	}

	return records, nil
}

func (s *XLSXSource) selectSheets(f *excelize.File) ([]string, error) {
	all := f.GetSheetList()
	if s.allSheets {
		return all, nil
	}

	want := s.sheet
	if want == "" {
		want = DefaultSheet
	}

	for _, name := range all {
		if name == want {
			return []string{name}, nil
		}
	}

	// The default sheet name is a convention, not a contract; fall back to
	// the first sheet when no sheet was explicitly requested.
	if s.sheet == "" && len(all) > 0 {
		return []string{all[0]}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, want)
}

// buildRecord converts a worksheet row, applying the export scrubbing rules.
// Rows without any identity or marked INACTIVE are dropped.
func (s *XLSXSource) buildRecord(row []string, idx columnIndex, sheet string) (inventory.SoftwareRecord, bool) {
	vendor := cellAt(row, idx.vendor)
	product := cellAt(row, idx.product)
	desc := cellAt(row, idx.description)
	status := strings.ToUpper(cellAt(row, idx.status))

	if strings.EqualFold(vendor, "nan") {
		vendor = ""
	}
	if strings.EqualFold(product, "nan") {
		product = ""
	}
	if strings.EqualFold(desc, "nan") {
		desc = ""
	}

	if vendor == "" && product == "" {
		return inventory.SoftwareRecord{}, false
	}
	if status == "INACTIVE" {
		return inventory.SoftwareRecord{}, false
	}

	return inventory.SoftwareRecord{
		Vendor:      vendor,
		Product:     product,
		Description: desc,
		Sheet:       sheet,
	}, true
}
