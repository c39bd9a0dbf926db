package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/report"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the summary whenever the ledger changes",
	Long: `Watch the ledger workbook and print the overall summary each time it is
changed, by this tool or any other process. Stop with Ctrl-C.

Example:
  kakeibo watch`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Wait this long for changes to settle")
}

func runWatch(cmd *cobra.Command, args []string) {
	a := loadApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printSummary := func() {
		summary, err := a.store.Aggregate(ledger.Range{})
		if err != nil {
			slog.Warn("Failed to read ledger", "error", err)
			return
		}
		fmt.Printf("\n[%s]\n", time.Now().In(a.loc).Format(ledger.TimeLayout))
		fmt.Println(report.SummaryTable(summary, a.cfg.Ledger.Currency))
	}

	printSummary()
	slog.Info("Watching ledger", "path", a.store.Path())

	err := a.store.Watch(ctx, watchDebounce, printSummary)
	exitOnError(err, "failed to watch ledger")

	slog.Info("Stopped watching")
}
