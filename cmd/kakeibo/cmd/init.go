package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/spf13/cobra"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the ledger workbook",
	Long: `Create an empty ledger workbook with its header row.
Running init against an existing workbook leaves it untouched.

Example:
  kakeibo init`,
	Args: cobra.NoArgs,
	Run:  runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	a := loadApp()

	existed := a.pathResolver.FileExists(a.store.Path())
	exitOnError(a.store.Initialize(), "failed to initialize ledger")

	if existed {
		fmt.Printf("Ledger already exists: %s\n", a.store.Path())
		return
	}

	a.recordHistory(db.Operation{Type: db.OpInit, Detail: a.store.Path()})

	fmt.Printf("Created ledger: %s\n", a.store.Path())
	fmt.Printf("History:        %s\n", a.pathResolver.GetDatabasePath())
	slog.Info("Ledger initialized", "path", a.store.Path())
}
