package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"KAKEIBO_DATA_DIR", "KAKEIBO_FILE", "KAKEIBO_DB_PATH", "KAKEIBO_EXPORT_DIR",
	"KAKEIBO_CATEGORIES", "KAKEIBO_CURRENCY", "KAKEIBO_TIMEZONE",
	"KAKEIBO_BEANCOUNT_ROOT", "KAKEIBO_BEANCOUNT_ASSET", "DEBUG",
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ledger.DataDir != "./data" {
		t.Errorf("DataDir = %q, expected ./data", cfg.Ledger.DataDir)
	}
	if cfg.Ledger.File != "account_records.xlsx" {
		t.Errorf("File = %q, expected account_records.xlsx", cfg.Ledger.File)
	}
	if cfg.Ledger.Currency != "CNY" {
		t.Errorf("Currency = %q, expected CNY", cfg.Ledger.Currency)
	}
	if cfg.Beancount.Root != filepath.Join("./data", "beancount") {
		t.Errorf("Beancount.Root = %q", cfg.Beancount.Root)
	}
	if cfg.Beancount.AssetAccount != "Assets:Cash" {
		t.Errorf("Beancount.AssetAccount = %q", cfg.Beancount.AssetAccount)
	}
	if cfg.Debug {
		t.Error("Debug = true, expected false")
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v, expected time.Local", loc, err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	content := strings.Join([]string{
		"KAKEIBO_DATA_DIR=/srv/kakeibo",
		"KAKEIBO_CURRENCY=jpy",
		"KAKEIBO_TIMEZONE=Asia/Tokyo",
		"DEBUG=true",
	}, "\n")
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ledger.DataDir != "/srv/kakeibo" {
		t.Errorf("DataDir = %q", cfg.Ledger.DataDir)
	}
	if cfg.Ledger.Currency != "JPY" {
		t.Errorf("Currency = %q, expected JPY", cfg.Ledger.Currency)
	}
	if cfg.Beancount.Root != "/srv/kakeibo/beancount" {
		t.Errorf("Beancount.Root = %q", cfg.Beancount.Root)
	}
	if !cfg.Debug {
		t.Error("Debug = false, expected true")
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Tokyo" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() with missing explicit file: expected error")
	}

	t.Setenv("KAKEIBO_TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Error("Load() with invalid timezone: expected error")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Ledger: LedgerConfig{DataDir: "./data", File: "a.xlsx"}}

	tests := []struct {
		name     string
		required [][]string
		wantErr  bool
	}{
		{"present", [][]string{{"ledger", "dataDir"}, {"ledger", "file"}}, false},
		{"missing db path", [][]string{{"ledger", "dbPath"}}, true},
		{"missing beancount root", [][]string{{"beancount", "root"}}, true},
		{"short path ignored", [][]string{{"ledger"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cfg.Validate(tt.required...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	err := cfg.Validate([]string{"ledger", "dbPath"})
	if err == nil || !strings.Contains(err.Error(), "ledger.dbPath") {
		t.Errorf("Validate() error = %v, expected it to name ledger.dbPath", err)
	}
}
