package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/aiscan/internal/domain/classify"
	"github.com/felixgeelhaar/aiscan/internal/domain/inventory"
)

// resultHeader is the results-table column order.
var resultHeader = []string{
	"vendor", "product", "description",
	"has_ai", "confidence", "reason",
	"needs_review", "truncated", "raw_error",
}

// Writer serializes reviewed records to a CSV results file. The write is
// all-or-nothing: rows go to a temp file in the destination directory which
// is renamed over the target only after a successful flush and sync, so a
// failed run never leaves a partial results file behind.
type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Path() string {
	return w.path
}

func (w *Writer) Write(records []classify.ReviewedRecord) (err error) {
	dir := filepath.Dir(w.path)

	tmp, err := os.CreateTemp(dir, ".aiscan-results-*.csv")
	if err != nil {
		return fmt.Errorf("create temp results file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()           //nolint:errcheck // already failing
			os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup
		}
	}()

	cw := csv.NewWriter(tmp)
	if err = cw.Write(resultHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err = cw.Write(resultRow(rec)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err = cw.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync results: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close results: %w", err)
	}

	if err = os.Rename(tmp.Name(), w.path); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("finalize results: %w", err)
	}

	return nil
}

// resultRow flattens a reviewed record, neutralizing cells a spreadsheet tool
// would execute as formulas.
func resultRow(rec classify.ReviewedRecord) []string {
	return []string{
		inventory.EscapeCell(rec.Record.Vendor),
		inventory.EscapeCell(rec.Record.Product),
		inventory.EscapeCell(rec.Record.Description),
		string(rec.Result.HasAI),
		string(rec.Result.Confidence),
		inventory.EscapeCell(rec.Result.Reason),
		yesNo(rec.NeedsReview),
		yesNo(rec.Truncated),
		inventory.EscapeCell(rec.Result.RawError),
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
