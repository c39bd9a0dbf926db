package cmd

import (
	"fmt"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/spf13/cobra"
)

var clearYes bool

// clearCmd represents the clear command.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record",
	Long: `Remove all records, keeping an empty workbook with its header row.

Example:
  kakeibo clear --yes`,
	Args: cobra.NoArgs,
	Run:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deleting every record")
}

func runClear(cmd *cobra.Command, args []string) {
	if !clearYes {
		exitOnError(fmt.Errorf("refusing to clear without --yes"), "not confirmed")
	}

	a := loadApp()

	records, err := a.store.ListAll()
	exitOnError(err, "failed to read ledger")

	exitOnError(a.store.ClearAll(), "failed to clear ledger")

	a.recordHistory(db.Operation{
		Type:   db.OpClear,
		Detail: fmt.Sprintf("%d record(s) removed", len(records)),
	})

	fmt.Printf("Cleared %d record(s)\n", len(records))
}
