package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/beancount"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/converter"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/pathutil"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFormat string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to CSV or Beancount",
	Long: `Export every record.

csv:       one UTF-8 CSV file with a BOM, readable by spreadsheet applications.
           --output is the file path (default: account_export_<timestamp>.csv
           in the export directory).
beancount: one file per month under <root>/<year>/<year>-<month>.beancount.
           --output overrides the Beancount root directory.

Example:
  kakeibo export
  kakeibo export --output ./january.csv
  kakeibo export --format beancount`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (csv) or root directory (beancount)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format: csv or beancount")
}

func runExport(cmd *cobra.Command, args []string) {
	a := loadApp()

	var dest string
	switch exportFormat {
	case "csv":
		path, err := a.store.Export(exportOutput)
		exitOnError(err, "failed to export records")
		dest = path
		fmt.Printf("Exported to %s\n", path)
	case "beancount":
		dest = exportBeancount(a)
	default:
		exitOnError(fmt.Errorf("unknown format %q (use csv or beancount)", exportFormat), "invalid --format")
	}

	a.recordHistory(db.Operation{
		Type:   db.OpExport,
		Detail: dest,
	})
}

func exportBeancount(a *app) string {
	if err := a.cfg.Validate([]string{"beancount", "assetAccount"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := a.pathResolver
	if exportOutput != "" {
		pathResolver = pathutil.New(pathutil.Config{
			DataDir:       a.cfg.Ledger.DataDir,
			BeancountRoot: exportOutput,
		})
	}

	records, err := a.store.ListAll()
	exitOnError(err, "failed to read ledger")

	conv := converter.NewConverter(a.catalog, a.cfg.Ledger.Currency, a.cfg.Beancount.AssetAccount)
	repo := beancount.NewFileSystemRepository(pathResolver)

	months := conv.ConvertByMonth(records)
	keys := make([]string, 0, len(months))
	for month := range months {
		keys = append(keys, month)
	}
	sort.Strings(keys)

	for _, month := range keys {
		slog.Debug("Writing month file", "month", month, "transactions", len(months[month]))
		exitOnError(repo.WriteMonthFile(month, months[month]), "failed to write Beancount file")
		path, _ := pathResolver.GetMonthFilePath(month)
		fmt.Printf("  %s (%d transactions)\n", path, len(months[month]))
	}

	root := pathResolver.GetBeancountRoot()
	fmt.Printf("Exported %d record(s) in %d month file(s) to %s\n", len(records), len(keys), root)
	return root
}
