// Package ledger provides the record store for household income and expense
// records kept in a single Excel workbook.
package ledger

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Kind is the direction of a record.
type Kind int

const (
	// Expense is money going out.
	Expense Kind = iota + 1
	// Income is money coming in.
	Income
)

// On-disk tokens for Kind. They must stay byte-identical for compatibility
// with existing workbooks.
const (
	tokenExpense = "支出"
	tokenIncome  = "收入"
)

// String returns the English name of the kind.
func (k Kind) String() string {
	switch k {
	case Expense:
		return "expense"
	case Income:
		return "income"
	default:
		return "unknown"
	}
}

// Token returns the token written to the Type column.
func (k Kind) Token() string {
	switch k {
	case Expense:
		return tokenExpense
	case Income:
		return tokenIncome
	default:
		return ""
	}
}

// Valid reports whether k is Expense or Income.
func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

// ParseKind parses an English name ("expense", "income") or an on-disk token.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", tokenExpense:
		return Expense, nil
	case "income", tokenIncome:
		return Income, nil
	default:
		return 0, fmt.Errorf("%w: unknown record type %q", ErrInvalidInput, s)
	}
}

// Record is one ledger entry.
type Record struct {
	ID         int
	Kind       Kind
	Amount     decimal.Decimal
	Category   string
	OccurredAt time.Time
	Note       string
	CreatedAt  time.Time
}

// AddRequest holds the caller-supplied fields of a new record.
type AddRequest struct {
	Kind       Kind
	Amount     decimal.Decimal
	Category   string
	OccurredAt time.Time
	Note       string
}

// Validate checks the request against the record schema.
func (r AddRequest) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown record kind %d", ErrInvalidInput, int(r.Kind))
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero, got %s", ErrInvalidInput, r.Amount)
	}
	if !decimal.NewFromFloat(r.Amount.InexactFloat64()).Equal(r.Amount) {
		return fmt.Errorf("%w: amount %s has more digits than a numeric cell can hold", ErrInvalidInput, r.Amount)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if err := validateCellText("category", r.Category); err != nil {
		return err
	}
	if err := validateCellText("note", r.Note); err != nil {
		return err
	}
	if r.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred-at time is required", ErrInvalidInput)
	}
	return nil
}

// validateCellText rejects text a workbook cell would not store verbatim:
// text over the cell length limit, invalid UTF-8 and runes XML cannot hold.
func validateCellText(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidInput, field)
	}
	if n := utf8.RuneCountInString(s); n > excelize.TotalCellChars {
		return fmt.Errorf("%w: %s has %d characters, limit is %d", ErrInvalidInput, field, n, excelize.TotalCellChars)
	}
	for _, r := range s {
		if !xmlChar(r) {
			return fmt.Errorf("%w: %s contains unsupported character %U", ErrInvalidInput, field, r)
		}
	}
	return nil
}

// xmlChar reports whether r is in the XML 1.0 Char production.
func xmlChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// Range is an inclusive window of calendar dates. A zero From or To leaves
// that side unbounded.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the calendar date of t falls inside the range.
// Bounds and t are compared by their wall-clock dates, each in its own location.
func (r Range) Contains(t time.Time) bool {
	day := civilDate(t)
	if !r.From.IsZero() && day.Before(civilDate(r.From)) {
		return false
	}
	if !r.To.IsZero() && day.After(civilDate(r.To)) {
		return false
	}
	return true
}

// civilDate drops the time of day and the zone, keeping the wall-clock date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
