package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
)

const dateLayout = "2006-01-02"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#2E86AB")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numericStyle = cellStyle.Align(lipgloss.Right)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newTable returns a bordered table whose columns listed in numeric are
// right-aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numericStyle
			default:
				return cellStyle
			}
		})
}

// RecordsTable renders entries with their positional index, the number
// accepted by delete.
func RecordsTable(entries []ledger.Entry, currency string) string {
	t := newTable([]string{"#", "ID", "Type", "Amount", "Category", "Date", "Note"}, 0, 1, 3)
	for _, e := range entries {
		t.Row(
			strconv.Itoa(e.Index),
			strconv.Itoa(e.ID),
			e.Kind.Token(),
			FormatAmount(e.Amount, currency),
			e.Category,
			e.OccurredAt.Format(ledger.TimeLayout),
			e.Note,
		)
	}
	return t.String()
}

// SummaryTable renders an aggregate.
func SummaryTable(s ledger.Summary, currency string) string {
	t := newTable([]string{"Item", "Value"}, 1)
	t.Row("Income", FormatAmount(s.TotalIncome, currency))
	t.Row("Expense", FormatAmount(s.TotalExpense, currency))
	t.Row("Balance", FormatAmount(s.Balance, currency))
	t.Row("Records", strconv.Itoa(s.RecordCount))
	return t.String()
}

// CategoryTable renders per-category totals with their share of the total.
func CategoryTable(totals []ledger.CategoryTotal, currency string) string {
	t := newTable([]string{"Category", "Total", "Count", "Share"}, 1, 2, 3)

	all := decimal.Zero
	for _, c := range totals {
		all = all.Add(c.Total)
	}
	for _, c := range totals {
		share := decimal.Zero
		if all.IsPositive() {
			share = c.Total.Div(all).Shift(2)
		}
		t.Row(c.Category, FormatAmount(c.Total, currency), strconv.Itoa(c.Count), share.StringFixed(1)+"%")
	}
	return t.String()
}

// DailyTable renders per-day income and expense.
func DailyTable(days []ledger.DailyTotal, currency string) string {
	t := newTable([]string{"Date", "Income", "Expense"}, 1, 2)
	for _, d := range days {
		t.Row(d.Date.Format(dateLayout), FormatAmount(d.Income, currency), FormatAmount(d.Expense, currency))
	}
	return t.String()
}

// HistoryTable renders recorded operations, newest first.
func HistoryTable(ops []db.Operation, currency string) string {
	t := newTable([]string{"When", "Operation", "Record", "Amount", "Records", "Detail"}, 2, 3, 4)
	for _, op := range ops {
		record, amount := "", ""
		if op.RecordID.Valid {
			record = strconv.FormatInt(op.RecordID.Int64, 10)
		}
		if op.Amount.Valid {
			amount = FormatAmount(op.Amount.Decimal, currency)
		}
		t.Row(
			op.PerformedAt.Local().Format(ledger.TimeLayout),
			string(op.Type),
			record,
			amount,
			strconv.Itoa(op.RecordCount),
			op.Detail,
		)
	}
	return t.String()
}
