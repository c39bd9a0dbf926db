package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"
)

// utf8BOM makes spreadsheet applications detect UTF-8 in the exported CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultExportName returns the file name used when Export has no destination.
func DefaultExportName(now time.Time) string {
	return fmt.Sprintf("account_export_%s.csv", now.Format("20060102_150405"))
}

// Export writes every record to a CSV file at dest and returns its path.
// An empty dest picks a timestamped name in the export directory. The store
// itself is never modified.
func (s *Store) Export(dest string) (string, error) {
	records, err := s.load()
	if err != nil {
		return "", err
	}

	if dest == "" {
		dir := s.exportDir
		if dir == "" {
			dir = filepath.Dir(s.path)
		}
		dest = filepath.Join(dir, DefaultExportName(s.now().In(s.loc)))
	}
	if s.isLedgerFile(dest) {
		return "", fmt.Errorf("%w: export destination %s is the ledger itself", ErrInvalidInput, dest)
	}

	if err := s.fw.replace(dest, func(w io.Writer) error {
		return WriteCSV(w, records)
	}); err != nil {
		return "", err
	}
	s.logger.Debug("Exported records", "path", dest, "count", len(records))
	return dest, nil
}

// isLedgerFile reports whether path names the workbook or its lock file.
// Export replaces its destination by rename, so only the exact paths matter.
func (s *Store) isLedgerFile(path string) bool {
	target := canonicalPath(path)
	own := canonicalPath(s.path)
	return target == own || target == own+".lock"
}

// WriteCSV writes records as BOM-prefixed UTF-8 CSV with the workbook header.
func WriteCSV(w io.Writer, records []Record) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.ID),
			rec.Kind.Token(),
			rec.Amount.StringFixed(2),
			rec.Category,
			rec.OccurredAt.Format(TimeLayout),
			rec.Note,
			rec.CreatedAt.Format(TimeLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
