// Package pathutil provides centralized path management for the ledger workbook,
// history database, exports and Beancount files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver manages paths for the ledger and everything derived from it.
type PathResolver struct {
	dataDir       string
	ledgerFile    string
	databasePath  string
	exportDir     string
	beancountRoot string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataDir is the directory holding the ledger workbook (e.g., ./data)
	DataDir string
	// LedgerFile is the workbook file name, or an absolute path
	LedgerFile string
	// DatabasePath is the path to the SQLite operation history
	DatabasePath string
	// ExportDir is where CSV exports go when no destination is given
	ExportDir string
	// BeancountRoot is the root directory for exported Beancount files
	BeancountRoot string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {DataDir}/.history/history.db
// If ExportDir is empty, it defaults to {DataDir}
// If BeancountRoot is empty, it defaults to {DataDir}/beancount
func New(config Config) *PathResolver {
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	ledgerFile := config.LedgerFile
	if ledgerFile == "" {
		ledgerFile = "account_records.xlsx"
	}
	if !filepath.IsAbs(ledgerFile) {
		ledgerFile = filepath.Join(dataDir, ledgerFile)
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, ".history", "history.db")
	}

	exportDir := config.ExportDir
	if exportDir == "" {
		exportDir = dataDir
	}

	beancountRoot := config.BeancountRoot
	if beancountRoot == "" {
		beancountRoot = filepath.Join(dataDir, "beancount")
	}

	return &PathResolver{
		dataDir:       dataDir,
		ledgerFile:    ledgerFile,
		databasePath:  dbPath,
		exportDir:     exportDir,
		beancountRoot: beancountRoot,
	}
}

// GetDataDir returns the data directory.
func (p *PathResolver) GetDataDir() string {
	return p.dataDir
}

// GetLedgerPath returns the workbook path.
func (p *PathResolver) GetLedgerPath() string {
	return p.ledgerFile
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetExportDir returns the export directory.
func (p *PathResolver) GetExportDir() string {
	return p.exportDir
}

// GetBeancountRoot returns the Beancount root directory.
func (p *PathResolver) GetBeancountRoot() string {
	return p.beancountRoot
}

// GetYearDir returns the Beancount directory path for a year.
// Example: data/beancount/2024
func (p *PathResolver) GetYearDir(year string) string {
	return filepath.Join(p.beancountRoot, year)
}

// GetMonthFilePath returns the Beancount file path for a month.
// yearMonth should be in YYYY-MM format.
// Example: data/beancount/2024/2024-01.beancount
func (p *PathResolver) GetMonthFilePath(yearMonth string) (string, error) {
	parts := strings.Split(yearMonth, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid year-month format: %s. Expected YYYY-MM", yearMonth)
	}

	year := parts[0]
	yearDir := p.GetYearDir(year)
	filename := fmt.Sprintf("%s.beancount", yearMonth)

	return filepath.Join(yearDir, filename), nil
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// IsDir checks if a path is a directory.
func (p *PathResolver) IsDir(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
