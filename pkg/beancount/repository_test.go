package beancount

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/kakeibo/pkg/pathutil"
)

func newTestRepository(t *testing.T) (*FileSystemRepository, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "beancount")
	repo := NewFileSystemRepository(pathutil.New(pathutil.Config{BeancountRoot: root}))
	repo.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return repo, root
}

func TestWriteMonthFile(t *testing.T) {
	repo, root := newTestRepository(t)

	if repo.MonthFileExists("2024-01") {
		t.Fatal("MonthFileExists() = true before writing")
	}

	txns := []string{"2024-01-02 * \"a\"\n", "2024-01-03 * \"b\""}
	if err := repo.WriteMonthFile("2024-01", txns); err != nil {
		t.Fatalf("WriteMonthFile() error = %v", err)
	}

	content, err := repo.ReadMonthFile("2024-01")
	if err != nil {
		t.Fatalf("ReadMonthFile() error = %v", err)
	}
	expected := "; Beancount file for 2024-01\n; Generated at 2024-03-01T10:00:00Z\n\n" +
		"2024-01-02 * \"a\"\n\n" +
		"2024-01-03 * \"b\"\n\n"
	if content != expected {
		t.Errorf("ReadMonthFile() = %q, expected %q", content, expected)
	}

	// A second write replaces rather than appends.
	if err := repo.WriteMonthFile("2024-01", txns[:1]); err != nil {
		t.Fatalf("WriteMonthFile() error = %v", err)
	}
	content, _ = repo.ReadMonthFile("2024-01")
	if strings.Contains(content, "\"b\"") {
		t.Errorf("rewritten month still contains the old transaction:\n%s", content)
	}

	entries, err := os.ReadDir(filepath.Join(root, "2024"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("year directory has %d entries, expected only the month file", len(entries))
	}
}

func TestWriteMonthFileInvalidMonth(t *testing.T) {
	repo, _ := newTestRepository(t)

	if err := repo.WriteMonthFile("2024-1", nil); err == nil {
		t.Error("WriteMonthFile() with a malformed month: expected error")
	}
}

func TestReadMonthFileMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	content, err := repo.ReadMonthFile("2023-12")
	if err != nil {
		t.Fatalf("ReadMonthFile() error = %v", err)
	}
	if content != "" {
		t.Errorf("ReadMonthFile() = %q, expected empty", content)
	}
}

func TestGetMonthFilesInYear(t *testing.T) {
	repo, root := newTestRepository(t)

	months, err := repo.GetMonthFilesInYear("2024")
	if err != nil {
		t.Fatalf("GetMonthFilesInYear() error = %v", err)
	}
	if len(months) != 0 {
		t.Errorf("GetMonthFilesInYear() = %v before any write", months)
	}

	for _, m := range []string{"2024-03", "2024-01"} {
		if err := repo.WriteMonthFile(m, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "2024", "notes.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	months, err = repo.GetMonthFilesInYear("2024")
	if err != nil {
		t.Fatalf("GetMonthFilesInYear() error = %v", err)
	}
	if strings.Join(months, ",") != "2024-01,2024-03" {
		t.Errorf("GetMonthFilesInYear() = %v, expected [2024-01 2024-03]", months)
	}
}

func TestBalanced(t *testing.T) {
	d := decimal.RequireFromString
	tests := []struct {
		name     string
		postings []Posting
		expected bool
	}{
		{"empty", nil, true},
		{"balanced", []Posting{{Amount: d("12.50")}, {Amount: d("-12.5")}}, true},
		{"unbalanced", []Posting{{Amount: d("12.50")}, {Amount: d("-12.49")}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Transaction{Postings: tt.postings}).Balanced(); got != tt.expected {
				t.Errorf("Balanced() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
