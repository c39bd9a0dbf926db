// Package converter turns ledger records into Beancount transactions.
package converter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/beancount"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/category"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
)

// MonthLayout is the year-month key used to group transactions into files.
const MonthLayout = "2006-01"

// Converter converts ledger records to Beancount format.
type Converter struct {
	catalog      *category.Catalog
	currency     string
	assetAccount string
}

// NewConverter creates a new Converter.
func NewConverter(catalog *category.Catalog, currency, assetAccount string) *Converter {
	if catalog == nil {
		catalog = category.Default()
	}
	if currency == "" {
		currency = "CNY"
	}
	if assetAccount == "" {
		assetAccount = "Assets:Cash"
	}
	return &Converter{
		catalog:      catalog,
		currency:     strings.ToUpper(currency),
		assetAccount: assetAccount,
	}
}

// ConvertRecord converts a Record to a balanced two-posting transaction.
// An expense debits the category account and credits the asset account;
// income does the reverse.
func (c *Converter) ConvertRecord(rec ledger.Record) beancount.Transaction {
	categoryAccount := c.catalog.Account(rec.Kind, rec.Category)

	// Expense: category +, asset -. Income: category -, asset +.
	categoryAmount := rec.Amount
	if rec.Kind == ledger.Income {
		categoryAmount = rec.Amount.Neg()
	}

	return beancount.Transaction{
		Date:      rec.OccurredAt.Format("2006-01-02"),
		Narration: buildNarration(rec),
		Tags:      []string{rec.Kind.String()},
		Metadata: map[string]string{
			"kakeibo_id": strconv.Itoa(rec.ID),
			"time":       rec.OccurredAt.Format("15:04:05"),
		},
		Postings: []beancount.Posting{
			{
				Account:  categoryAccount,
				Amount:   categoryAmount,
				Currency: c.currency,
				Comment:  rec.Category,
			},
			{
				Account:  c.assetAccount,
				Amount:   categoryAmount.Neg(),
				Currency: c.currency,
			},
		},
	}
}

// ConvertByMonth converts records and groups the formatted transactions by
// the month they occurred in, keyed by MonthLayout. Within a month
// transactions are ordered by time, then by record ID.
func (c *Converter) ConvertByMonth(records []ledger.Record) map[string][]string {
	sorted := append([]ledger.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].OccurredAt.Equal(sorted[j].OccurredAt) {
			return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	months := make(map[string][]string)
	for _, rec := range sorted {
		month := rec.OccurredAt.Format(MonthLayout)
		months[month] = append(months[month], c.FormatTransaction(c.ConvertRecord(rec)))
	}
	return months
}

// FormatTransaction formats a Beancount transaction as a string.
func (c *Converter) FormatTransaction(txn beancount.Transaction) string {
	var sb strings.Builder

	// Transaction header
	sb.WriteString(txn.Date)
	sb.WriteString(" *")
	if txn.Payee != "" {
		sb.WriteString(fmt.Sprintf(" %s", quote(txn.Payee)))
	}
	sb.WriteString(fmt.Sprintf(" %s", quote(txn.Narration)))
	if len(txn.Tags) > 0 {
		sb.WriteString(" #")
		sb.WriteString(strings.Join(txn.Tags, " #"))
	}
	sb.WriteString("\n")

	keys := make([]string, 0, len(txn.Metadata))
	for k := range txn.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", k, quote(txn.Metadata[k])))
	}

	// Postings
	for _, posting := range txn.Postings {
		sb.WriteString("  ")
		sb.WriteString(posting.Account)

		// Right-align amount (typical Beancount style)
		amount := formatAmount(posting.Amount)
		spaces := max(2, 60-len(posting.Account)-len(amount))
		sb.WriteString(strings.Repeat(" ", spaces))
		sb.WriteString(fmt.Sprintf("%s %s", amount, posting.Currency))

		if posting.Comment != "" {
			sb.WriteString(fmt.Sprintf(" ; %s", posting.Comment))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// Helper functions

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	return `"` + s + `"`
}

func buildNarration(rec ledger.Record) string {
	if note := strings.TrimSpace(rec.Note); note != "" {
		return fmt.Sprintf("%s: %s", rec.Category, note)
	}
	return rec.Category
}
