package cmd

import (
	"fmt"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/report"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent ledger operations",
	Long: `Show the operations recorded against the ledger, newest first.

Example:
  kakeibo history --limit 50`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of operations to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) {
	a := loadApp()

	conn, err := db.Open(a.pathResolver.GetDatabasePath())
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewHistory(conn)

	ops, err := history.Recent(historyLimit)
	exitOnError(err, "failed to read history")

	if len(ops) == 0 {
		fmt.Println("No operations recorded.")
		return
	}

	fmt.Println(report.HistoryTable(ops, a.cfg.Ledger.Currency))

	lastExport, err := history.GetMetadata(db.MetaLastExportPath)
	exitOnError(err, "failed to read metadata")
	if lastExport != "" {
		fmt.Printf("Last export: %s\n", lastExport)
	}
}
