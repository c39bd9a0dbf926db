package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/category"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/config"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/db"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/ledger"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/pathutil"
)

const dateLayout = "2006-01-02"

// app holds the components every command works with.
type app struct {
	cfg          *config.Config
	pathResolver *pathutil.PathResolver
	store        *ledger.Store
	catalog      *category.Catalog
	loc          *time.Location
}

// loadApp loads configuration and builds the store, exiting on failure.
func loadApp() *app {
	slog.Debug("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate(
		[]string{"ledger", "dataDir"},
		[]string{"ledger", "file"},
		[]string{"ledger", "currency"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	loc, err := cfg.Location()
	exitOnError(err, "invalid configuration")

	pathResolver := pathutil.New(pathutil.Config{
		DataDir:       cfg.Ledger.DataDir,
		LedgerFile:    cfg.Ledger.File,
		DatabasePath:  cfg.Ledger.DBPath,
		ExportDir:     cfg.Ledger.ExportDir,
		BeancountRoot: cfg.Beancount.Root,
	})

	catalog := category.Default()
	if cfg.Ledger.CategoriesFile != "" {
		slog.Debug("Loading categories", "path", cfg.Ledger.CategoriesFile)
		catalog, err = category.Load(cfg.Ledger.CategoriesFile)
		exitOnError(err, "failed to load categories")
	}

	store := ledger.NewStore(pathResolver.GetLedgerPath(),
		ledger.WithLocation(loc),
		ledger.WithLogger(slog.Default()),
		ledger.WithExportDir(pathResolver.GetExportDir()),
	)

	return &app{
		cfg:          cfg,
		pathResolver: pathResolver,
		store:        store,
		catalog:      catalog,
		loc:          loc,
	}
}

// recordHistory appends op to the operation history, filling in the current
// record count. The ledger change has already been committed, so failures
// are logged rather than returned.
func (a *app) recordHistory(op db.Operation) {
	dbPath := a.pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	if err != nil {
		slog.Warn("Failed to open history database", "path", dbPath, "error", err)
		return
	}
	defer conn.Close()

	if records, err := a.store.ListAll(); err == nil {
		op.RecordCount = len(records)
	}

	history := db.NewHistory(conn)
	recorded, err := history.Record(op)
	if err != nil {
		slog.Warn("Failed to record operation", "operation", op.Type, "error", err)
		return
	}
	slog.Debug("Recorded operation", "operation", recorded.Type, "op_id", recorded.OpID)

	if op.Type == db.OpExport && op.Detail != "" {
		if err := history.SetMetadata(db.MetaLastExportPath, op.Detail); err != nil {
			slog.Warn("Failed to store last export path", "error", err)
		}
	}
}

// parseRange parses optional YYYY-MM-DD bounds in the ledger's location.
func (a *app) parseRange(from, to string) (ledger.Range, error) {
	var r ledger.Range
	var err error
	if from != "" {
		if r.From, err = time.ParseInLocation(dateLayout, from, a.loc); err != nil {
			return r, fmt.Errorf("invalid --from date %q (expected YYYY-MM-DD): %w", from, err)
		}
	}
	if to != "" {
		if r.To, err = time.ParseInLocation(dateLayout, to, a.loc); err != nil {
			return r, fmt.Errorf("invalid --to date %q (expected YYYY-MM-DD): %w", to, err)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return r, nil
}

// parseSort maps a --sort flag value to a SortOrder.
func parseSort(s string) (ledger.SortOrder, error) {
	switch strings.ToLower(s) {
	case "":
		return ledger.SortNone, nil
	case "date-desc":
		return ledger.SortDateDesc, nil
	case "date-asc":
		return ledger.SortDateAsc, nil
	case "amount-desc":
		return ledger.SortAmountDesc, nil
	case "amount-asc":
		return ledger.SortAmountAsc, nil
	default:
		return ledger.SortNone, fmt.Errorf("unknown sort order %q (use date-desc, date-asc, amount-desc or amount-asc)", s)
	}
}

// parseOccurredAt combines optional --date and --time flags; missing parts
// come from now.
func parseOccurredAt(date, clock string, now time.Time) (time.Time, error) {
	y, m, d := now.Date()
	hour, minute, sec := now.Clock()

	if date != "" {
		t, err := time.ParseInLocation(dateLayout, date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", date, err)
		}
		y, m, d = t.Date()
	}
	if clock != "" {
		t, err := time.ParseInLocation("15:04", clock, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --time %q (expected HH:MM): %w", clock, err)
		}
		hour, minute, sec = t.Hour(), t.Minute(), 0
	}

	return time.Date(y, m, d, hour, minute, sec, 0, now.Location()), nil
}
