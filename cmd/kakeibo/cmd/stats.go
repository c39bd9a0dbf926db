package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/report"
	"github.com/spf13/cobra"
)

var (
	statsFrom string
	statsTo   string
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display ledger statistics",
	Long: `Display statistics for a date range (inclusive, both bounds optional).

Shows:
- Total income, total expense and balance
- Expense and income totals per category
- Daily totals
- Operation history counts

Example:
  kakeibo stats
  kakeibo stats --from 2024-01-01 --to 2024-01-31`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "Start date (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "End date (YYYY-MM-DD)")
}

func runStats(cmd *cobra.Command, args []string) {
	a := loadApp()
	currency := a.cfg.Ledger.Currency

	r, err := a.parseRange(statsFrom, statsTo)
	exitOnError(err, "invalid date range")

	summary, err := a.store.Aggregate(r)
	exitOnError(err, "failed to aggregate records")

	fmt.Println("\n=== Summary ===")
	fmt.Println(report.SummaryTable(summary, currency))

	for _, kind := range []ledger.Kind{ledger.Expense, ledger.Income} {
		totals, err := a.store.CategoryTotals(kind, r)
		exitOnError(err, "failed to compute category totals")
		if len(totals) == 0 {
			continue
		}
		fmt.Printf("\n=== %s by category ===\n", kind.Token())
		fmt.Println(report.CategoryTable(totals, currency))
	}

	days, err := a.store.DailyTotals(r)
	exitOnError(err, "failed to compute daily totals")
	if len(days) > 0 {
		fmt.Println("\n=== Daily ===")
		fmt.Println(report.DailyTable(days, currency))
	}

	printHistoryStats(a)
	fmt.Println()

	slog.Info("Statistics displayed successfully")
}

func printHistoryStats(a *app) {
	dbPath := a.pathResolver.GetDatabasePath()
	if !a.pathResolver.FileExists(dbPath) {
		return
	}

	conn, err := db.Open(dbPath)
	if err != nil {
		slog.Warn("Failed to open history database", "path", dbPath, "error", err)
		return
	}
	defer conn.Close()

	stats, err := db.NewHistory(conn).Stats()
	if err != nil {
		slog.Warn("Failed to read history statistics", "error", err)
		return
	}

	fmt.Println("\n=== History ===")
	fmt.Printf("Total operations: %d\n", stats.Total)
	for _, op := range []db.OperationType{db.OpInit, db.OpAdd, db.OpDelete, db.OpClear, db.OpExport} {
		if n := stats.ByOperation[op]; n > 0 {
			fmt.Printf("  %-8s %d\n", op, n)
		}
	}
	if stats.Total > 0 {
		fmt.Printf("First operation:  %s\n", stats.First.In(a.loc).Format(ledger.TimeLayout))
		fmt.Printf("Last operation:   %s\n", stats.Last.In(a.loc).Format(ledger.TimeLayout))
	}
}
