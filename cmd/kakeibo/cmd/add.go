package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/report"
	"github.com/spf13/cobra"
)

var (
	addType     string
	addAmount   string
	addCategory string
	addDate     string
	addTime     string
	addNote     string
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an income or expense record",
	Long: `Append a record to the ledger. The record gets the next free ID.
Date and time default to now in the configured time zone.

Example:
  kakeibo add --type expense --amount 12.50 --category 餐饮 --note lunch
  kakeibo add --type income --amount 5000 --category 工资 --date 2024-01-25`,
	Args: cobra.NoArgs,
	Run:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addType, "type", "", "Record type: expense or income (required)")
	addCmd.Flags().StringVar(&addAmount, "amount", "", "Amount, greater than zero (required)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category (required)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Date (YYYY-MM-DD), defaults to today")
	addCmd.Flags().StringVar(&addTime, "time", "", "Time (HH:MM), defaults to now")
	addCmd.Flags().StringVar(&addNote, "note", "", "Free-form note")

	addCmd.MarkFlagRequired("type")
	addCmd.MarkFlagRequired("amount")
	addCmd.MarkFlagRequired("category")
}

func runAdd(cmd *cobra.Command, args []string) {
	a := loadApp()

	kind, err := ledger.ParseKind(addType)
	exitOnError(err, "invalid --type")

	amount, err := decimal.NewFromString(strings.TrimSpace(addAmount))
	exitOnError(err, "invalid --amount")

	occurredAt, err := parseOccurredAt(addDate, addTime, time.Now().In(a.loc))
	exitOnError(err, "invalid record time")

	category := strings.TrimSpace(addCategory)
	if category != "" && !a.catalog.Has(kind, category) {
		slog.Warn("Category is not in the catalogue", "kind", kind, "category", category,
			"known", strings.Join(a.catalog.Names(kind), ","))
	}

	rec, err := a.store.Add(ledger.AddRequest{
		Kind:       kind,
		Amount:     amount,
		Category:   category,
		OccurredAt: occurredAt,
		Note:       addNote,
	})
	exitOnError(err, "failed to add record")

	a.recordHistory(db.Operation{
		Type:     db.OpAdd,
		RecordID: sql.NullInt64{Int64: int64(rec.ID), Valid: true},
		Amount:   decimal.NewNullDecimal(rec.Amount),
		Detail:   fmt.Sprintf("%s %s", rec.Kind, rec.Category),
	})

	fmt.Printf("Added record %d: %s %s %s (%s)\n",
		rec.ID, rec.Kind.Token(), report.FormatAmount(rec.Amount, a.cfg.Ledger.Currency),
		rec.Category, rec.OccurredAt.Format(ledger.TimeLayout))
}
