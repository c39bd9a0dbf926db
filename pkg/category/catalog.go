// Package category provides the catalogue of expense and income categories
// offered to users, with the Beancount account each one maps to.
package category

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
	"gopkg.in/yaml.v3"
)

// Entry represents one category and its Beancount account.
type Entry struct {
	Name      string `yaml:"name"`
	Beancount string `yaml:"beancount"`
}

// File represents the complete categories YAML document.
type File struct {
	Expense []Entry `yaml:"expense"`
	Income  []Entry `yaml:"income"`
}

// Catalog answers category lookups for both kinds.
type Catalog struct {
	expense  []Entry
	income   []Entry
	accounts map[ledger.Kind]map[string]string
}

// Default returns the built-in catalogue.
func Default() *Catalog {
	return New(File{
		Expense: []Entry{
			{Name: "餐饮", Beancount: "Expenses:Food"},
			{Name: "交通", Beancount: "Expenses:Transport"},
			{Name: "购物", Beancount: "Expenses:Shopping"},
			{Name: "住房", Beancount: "Expenses:Housing"},
			{Name: "医疗", Beancount: "Expenses:Medical"},
			{Name: "娱乐", Beancount: "Expenses:Entertainment"},
			{Name: "教育", Beancount: "Expenses:Education"},
			{Name: "其他", Beancount: "Expenses:Other"},
		},
		Income: []Entry{
			{Name: "工资", Beancount: "Income:Salary"},
			{Name: "投资", Beancount: "Income:Investment"},
			{Name: "奖金", Beancount: "Income:Bonus"},
			{Name: "其他收入", Beancount: "Income:Other"},
		},
	})
}

// Load reads a catalogue from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for _, e := range append(append([]Entry{}, file.Expense...), file.Income...) {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("category with empty name in %s", path)
		}
	}

	return New(file), nil
}

// New builds a Catalog from a parsed file.
func New(file File) *Catalog {
	c := &Catalog{
		expense: file.Expense,
		income:  file.Income,
		accounts: map[ledger.Kind]map[string]string{
			ledger.Expense: make(map[string]string),
			ledger.Income:  make(map[string]string),
		},
	}
	for _, e := range file.Expense {
		c.accounts[ledger.Expense][e.Name] = e.Beancount
	}
	for _, e := range file.Income {
		c.accounts[ledger.Income][e.Name] = e.Beancount
	}
	return c
}

// Names returns the category names for kind in catalogue order.
func (c *Catalog) Names(kind ledger.Kind) []string {
	var entries []Entry
	switch kind {
	case ledger.Expense:
		entries = c.expense
	case ledger.Income:
		entries = c.income
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Has reports whether name is a catalogued category of kind.
func (c *Catalog) Has(kind ledger.Kind, name string) bool {
	_, ok := c.accounts[kind][name]
	return ok
}

// Account returns the Beancount account for a category.
// Unknown categories and categories without an account fall back to
// Expenses:Uncategorized:<Name> or Income:Uncategorized:<Name>.
func (c *Catalog) Account(kind ledger.Kind, name string) string {
	if account := c.accounts[kind][name]; account != "" {
		return account
	}
	root := "Expenses"
	if kind == ledger.Income {
		root = "Income"
	}
	return fmt.Sprintf("%s:Uncategorized:%s", root, sanitizeAccountName(name))
}

// sanitizeAccountName turns a free-form label into a valid Beancount account
// component: it must start with an uppercase letter or a digit and contain
// only letters, digits and hyphens.
func sanitizeAccountName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r) || r == '_':
			b.WriteRune('-')
		default:
			// Other runes are hex-encoded so distinct labels stay distinct.
			fmt.Fprintf(&b, "U%04X", r)
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
