package cmd

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
	"github.com/spf13/cobra"
)

var deleteID int

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:   "delete [index]",
	Short: "Delete a record",
	Long: `Delete a record by its position (the # column of list) or by --id.
Remaining records are renumbered 1..N.

Example:
  kakeibo delete 0
  kakeibo delete --id 12`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDelete,
}

func init() {
	deleteCmd.Flags().IntVar(&deleteID, "id", 0, "Delete the record with this ID")
}

func runDelete(cmd *cobra.Command, args []string) {
	if (len(args) == 1) == (deleteID != 0) {
		exitOnError(fmt.Errorf("give either an index argument or --id"), "invalid arguments")
	}

	a := loadApp()

	records, err := a.store.ListAll()
	exitOnError(err, "failed to read ledger")

	var target ledger.Record
	if deleteID != 0 {
		exitOnError(a.store.DeleteByID(deleteID), "failed to delete record")
		for _, rec := range records {
			if rec.ID == deleteID {
				target = rec
			}
		}
	} else {
		index, err := strconv.Atoi(args[0])
		exitOnError(err, "invalid index")
		exitOnError(a.store.Delete(index), "failed to delete record")
		if index >= 0 && index < len(records) {
			target = records[index]
		}
	}

	a.recordHistory(db.Operation{
		Type:     db.OpDelete,
		RecordID: sql.NullInt64{Int64: int64(target.ID), Valid: target.ID != 0},
		Amount:   decimal.NullDecimal{Decimal: target.Amount, Valid: target.ID != 0},
		Detail:   fmt.Sprintf("%s %s", target.Kind, target.Category),
	})

	fmt.Printf("Deleted record %d (%s %s)\n", target.ID, target.Kind.Token(), target.Category)
}
