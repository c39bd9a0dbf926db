// Package beancount provides repository pattern for Beancount file operations.
package beancount

import "github.com/shopspring/decimal"

// Transaction represents a Beancount transaction.
type Transaction struct {
	Date      string            // YYYY-MM-DD
	Narration string            // Transaction description
	Payee     string            // Payee name (optional)
	Tags      []string          // Tags (e.g., ["expense"])
	Metadata  map[string]string // Metadata key-value pairs, written sorted by key
	Postings  []Posting         // Transaction postings
}

// Posting represents a posting in a Beancount transaction.
type Posting struct {
	Account  string          // Account name (e.g., "Assets:Cash")
	Amount   decimal.Decimal // Positive for debit, negative for credit
	Currency string          // Currency code (e.g., "CNY")
	Comment  string          // Posting comment (optional)
}

// Balanced reports whether the postings of txn sum to zero.
func (txn Transaction) Balanced() bool {
	sum := decimal.Zero
	for _, p := range txn.Postings {
		sum = sum.Add(p.Amount)
	}
	return sum.IsZero()
}
