package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	p := New(Config{DataDir: "ledger"})

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"data dir", p.GetDataDir(), "ledger"},
		{"ledger path", p.GetLedgerPath(), filepath.Join("ledger", "account_records.xlsx")},
		{"database", p.GetDatabasePath(), filepath.Join("ledger", ".history", "history.db")},
		{"export dir", p.GetExportDir(), "ledger"},
		{"beancount root", p.GetBeancountRoot(), filepath.Join("ledger", "beancount")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, expected %q", tt.got, tt.expected)
			}
		})
	}
}

func TestNewOverrides(t *testing.T) {
	p := New(Config{
		DataDir:       "data",
		LedgerFile:    "/abs/book.xlsx",
		DatabasePath:  "/var/lib/kakeibo.db",
		ExportDir:     "/tmp/exports",
		BeancountRoot: "/srv/bean",
	})

	if p.GetLedgerPath() != "/abs/book.xlsx" {
		t.Errorf("GetLedgerPath() = %q", p.GetLedgerPath())
	}
	if p.GetDatabasePath() != "/var/lib/kakeibo.db" {
		t.Errorf("GetDatabasePath() = %q", p.GetDatabasePath())
	}
	if p.GetExportDir() != "/tmp/exports" {
		t.Errorf("GetExportDir() = %q", p.GetExportDir())
	}
	if p.GetYearDir("2024") != "/srv/bean/2024" {
		t.Errorf("GetYearDir() = %q", p.GetYearDir("2024"))
	}
}

func TestGetMonthFilePath(t *testing.T) {
	p := New(Config{BeancountRoot: "/bean"})

	tests := []struct {
		yearMonth string
		expected  string
		wantErr   bool
	}{
		{"2024-01", "/bean/2024/2024-01.beancount", false},
		{"2024-1", "", true},
		{"202401", "", true},
		{"24-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.yearMonth, func(t *testing.T) {
			got, err := p.GetMonthFilePath(tt.yearMonth)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetMonthFilePath(%q) error = %v, wantErr %v", tt.yearMonth, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("GetMonthFilePath(%q) = %q, expected %q", tt.yearMonth, got, tt.expected)
			}
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	p := New(Config{DataDir: dir})
	file := filepath.Join(dir, "a", "b", "c.txt")

	if err := p.EnsureParentDir(file); err != nil {
		t.Fatalf("EnsureParentDir() error = %v", err)
	}
	if !p.IsDir(filepath.Dir(file)) {
		t.Error("parent directory was not created")
	}
	if p.FileExists(file) {
		t.Error("FileExists() = true for a file that was never written")
	}
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !p.FileExists(file) {
		t.Error("FileExists() = false after writing the file")
	}
}
