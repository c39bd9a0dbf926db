package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the result of Aggregate.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	RecordCount  int
}

// Aggregate sums income and expense over the records whose OccurredAt date
// falls in r. An empty result is all zeros, not an error.
func (s *Store) Aggregate(r Range) (Summary, error) {
	records, err := s.load()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, rec := range records {
		if !r.Contains(rec.OccurredAt) {
			continue
		}
		sum.RecordCount++
		switch rec.Kind {
		case Income:
			sum.TotalIncome = sum.TotalIncome.Add(rec.Amount)
		case Expense:
			sum.TotalExpense = sum.TotalExpense.Add(rec.Amount)
		}
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpense)
	return sum, nil
}

// Filter selects records for Query. Zero fields match everything.
type Filter struct {
	Kind     Kind
	Category string
	Range    Range
}

func (f Filter) match(rec Record) bool {
	if f.Kind != 0 && rec.Kind != f.Kind {
		return false
	}
	if f.Category != "" && rec.Category != f.Category {
		return false
	}
	return f.Range.Contains(rec.OccurredAt)
}

// SortOrder orders the result of Query.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortDateDesc
	SortDateAsc
	SortAmountDesc
	SortAmountAsc
)

// Entry is a record together with its position in ListAll order, which is
// the index Delete expects.
type Entry struct {
	Index int
	Record
}

// Query returns the records matching f in the requested order.
func (s *Store) Query(f Filter, order SortOrder) ([]Entry, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if f.match(rec) {
			entries = append(entries, Entry{Index: i, Record: rec})
		}
	}

	var compare func(a, b Entry) int
	switch order {
	case SortDateDesc:
		compare = func(a, b Entry) int { return b.OccurredAt.Compare(a.OccurredAt) }
	case SortDateAsc:
		compare = func(a, b Entry) int { return a.OccurredAt.Compare(b.OccurredAt) }
	case SortAmountDesc:
		compare = func(a, b Entry) int { return b.Amount.Cmp(a.Amount) }
	case SortAmountAsc:
		compare = func(a, b Entry) int { return a.Amount.Cmp(b.Amount) }
	}
	if compare != nil {
		slices.SortStableFunc(entries, compare)
	}
	return entries, nil
}

// CategoryTotal is the sum of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// CategoryTotals sums records of kind per category within r, largest first.
func (s *Store) CategoryTotals(kind Kind, r Range) ([]CategoryTotal, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*CategoryTotal)
	for _, rec := range records {
		if rec.Kind != kind || !r.Contains(rec.OccurredAt) {
			continue
		}
		ct, ok := byName[rec.Category]
		if !ok {
			ct = &CategoryTotal{Category: rec.Category, Total: decimal.Zero}
			byName[rec.Category] = ct
		}
		ct.Total = ct.Total.Add(rec.Amount)
		ct.Count++
	}

	totals := make([]CategoryTotal, 0, len(byName))
	for _, ct := range byName {
		totals = append(totals, *ct)
	}
	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return totals, nil
}

// DailyTotal holds the income and expense of one calendar day.
type DailyTotal struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// DailyTotals sums income and expense per day within r, oldest day first.
func (s *Store) DailyTotals(r Range) ([]DailyTotal, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*DailyTotal)
	for _, rec := range records {
		if !r.Contains(rec.OccurredAt) {
			continue
		}
		y, m, d := rec.OccurredAt.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
		dt, ok := byDay[day]
		if !ok {
			dt = &DailyTotal{Date: day, Income: decimal.Zero, Expense: decimal.Zero}
			byDay[day] = dt
		}
		switch rec.Kind {
		case Income:
			dt.Income = dt.Income.Add(rec.Amount)
		case Expense:
			dt.Expense = dt.Expense.Add(rec.Amount)
		}
	}

	days := make([]DailyTotal, 0, len(byDay))
	for _, dt := range byDay {
		days = append(days, *dt)
	}
	slices.SortFunc(days, func(a, b DailyTotal) int { return a.Date.Compare(b.Date) })
	return days, nil
}
