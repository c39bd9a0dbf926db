package cmd

import (
	"fmt"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/report"
	"github.com/spf13/cobra"
)

var (
	listType     string
	listCategory string
	listFrom     string
	listTo       string
	listSort     string
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	Long: `List ledger records. The # column is the position accepted by delete.

Example:
  kakeibo list
  kakeibo list --type expense --from 2024-01-01 --to 2024-01-31 --sort amount-desc`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Only show expense or income records")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show this category")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Start date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "End date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort order: date-desc, date-asc, amount-desc, amount-asc")
}

func runList(cmd *cobra.Command, args []string) {
	a := loadApp()

	var filter ledger.Filter
	var err error
	if listType != "" {
		filter.Kind, err = ledger.ParseKind(listType)
		exitOnError(err, "invalid --type")
	}
	filter.Category = listCategory
	filter.Range, err = a.parseRange(listFrom, listTo)
	exitOnError(err, "invalid date range")

	order, err := parseSort(listSort)
	exitOnError(err, "invalid --sort")

	entries, err := a.store.Query(filter, order)
	exitOnError(err, "failed to list records")

	if len(entries) == 0 {
		fmt.Println("No records.")
		return
	}

	fmt.Println(report.RecordsTable(entries, a.cfg.Ledger.Currency))
	fmt.Printf("%d record(s)\n", len(entries))
}
