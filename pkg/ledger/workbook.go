package ledger

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single sheet holding the records.
const SheetName = "记账记录"

// TimeLayout is the textual encoding of Date and CreatedAt cells.
const TimeLayout = "2006-01-02 15:04:05"

// Columns is the fixed header row of the backing workbook and of CSV exports.
var Columns = []string{"ID", "Type", "Amount", "Category", "Date", "Note", "CreatedAt"}

const (
	colID = iota
	colType
	colAmount
	colCategory
	colDate
	colNote
	colCreatedAt
)

var columnWidths = []float64{8, 10, 12, 15, 20, 30, 20}

// encodeWorkbook renders records into w as an xlsx workbook.
func encodeWorkbook(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.ID,
			rec.Kind.Token(),
			rec.Amount.InexactFloat64(),
			rec.Category,
			rec.OccurredAt.Format(TimeLayout),
			rec.Note,
			rec.CreatedAt.Format(TimeLayout),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := formatSheet(f, len(records)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

// formatSheet applies the cosmetic header style, column widths, amount
// number format and a frozen first row.
func formatSheet(f *excelize.File, rows int) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E86AB"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if rows > 0 {
		amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
		if err != nil {
			return fmt.Errorf("failed to create amount style: %w", err)
		}
		last := fmt.Sprintf("C%d", rows+1)
		if err := f.SetCellStyle(SheetName, "C2", last, amountStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// decodeWorkbook parses every record row of the workbook in r.
func decodeWorkbook(r io.Reader, loc *time.Location) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", ErrCorruptData, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(SheetName)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found", ErrCorruptData, SheetName)
	}

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %w", ErrCorruptData, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: header row missing", ErrCorruptData)
	}
	if !slices.Equal(trimRow(rows[0]), Columns) {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrCorruptData, rows[0])
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		row = trimRow(row)
		if len(row) == 0 {
			continue
		}
		rec, err := parseRow(row, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrCorruptData, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// trimRow drops trailing empty cells.
func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}

func parseRow(row []string, loc *time.Location) (Record, error) {
	// Note may be the only empty cell, but never the last one.
	if len(row) != len(Columns) {
		return Record{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(row))
	}

	var rec Record
	id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
	if err != nil || id <= 0 {
		return Record{}, fmt.Errorf("invalid ID %q", row[colID])
	}
	rec.ID = id

	switch strings.TrimSpace(row[colType]) {
	case tokenExpense:
		rec.Kind = Expense
	case tokenIncome:
		rec.Kind = Income
	default:
		return Record{}, fmt.Errorf("invalid Type %q", row[colType])
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row[colAmount]))
	if err != nil {
		return Record{}, fmt.Errorf("invalid Amount %q", row[colAmount])
	}
	rec.Amount = amount

	rec.Category = row[colCategory]
	rec.Note = row[colNote]

	if rec.OccurredAt, err = parseCellTime(row[colDate], loc); err != nil {
		return Record{}, fmt.Errorf("invalid Date %q", row[colDate])
	}
	if rec.CreatedAt, err = parseCellTime(row[colCreatedAt], loc); err != nil {
		return Record{}, fmt.Errorf("invalid CreatedAt %q", row[colCreatedAt])
	}
	return rec, nil
}

// parseCellTime accepts the canonical text layout, and spreadsheet date
// serials left behind when a cell was edited by hand.
func parseCellTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(TimeLayout, s, loc); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(serial) || serial <= 0 {
		return time.Time{}, fmt.Errorf("unrecognized time %q", s)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	t = t.Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}
