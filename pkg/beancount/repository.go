package beancount

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/kakeibo/pkg/pathutil"
)

// Repository defines the interface for Beancount file operations.
type Repository interface {
	// WriteMonthFile replaces a monthly file with the given transactions
	WriteMonthFile(yearMonth string, transactions []string) error

	// ReadMonthFile reads the content of a monthly file
	ReadMonthFile(yearMonth string) (string, error)

	// MonthFileExists checks if a monthly file exists
	MonthFileExists(yearMonth string) bool

	// GetMonthFilesInYear gets all monthly files in a year
	GetMonthFilesInYear(year string) ([]string, error)
}

// FileSystemRepository is a file system implementation of Repository.
type FileSystemRepository struct {
	pathResolver *pathutil.PathResolver
	now          func() time.Time
}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository(pathResolver *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{
		pathResolver: pathResolver,
		now:          time.Now,
	}
}

// WriteMonthFile writes a header followed by the transactions, each separated
// by a blank line. The file is written to a temporary sibling and renamed
// into place, so readers never see a partial month.
func (r *FileSystemRepository) WriteMonthFile(yearMonth string, transactions []string) error {
	filePath, err := r.pathResolver.GetMonthFilePath(yearMonth)
	if err != nil {
		return fmt.Errorf("failed to get month file path: %w", err)
	}

	if err := r.pathResolver.EnsureParentDir(filePath); err != nil {
		return fmt.Errorf("failed to ensure parent directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(r.generateFileHeader(yearMonth))
	for _, txn := range transactions {
		sb.WriteString(txn)
		if !strings.HasSuffix(txn, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filePath, err)
	}

	return nil
}

// ReadMonthFile reads the content of a monthly file.
// Returns empty string if file doesn't exist.
func (r *FileSystemRepository) ReadMonthFile(yearMonth string) (string, error) {
	filePath, err := r.pathResolver.GetMonthFilePath(yearMonth)
	if err != nil {
		return "", fmt.Errorf("failed to get month file path: %w", err)
	}

	if !r.pathResolver.FileExists(filePath) {
		return "", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return string(data), nil
}

// MonthFileExists checks if a monthly file exists.
func (r *FileSystemRepository) MonthFileExists(yearMonth string) bool {
	filePath, err := r.pathResolver.GetMonthFilePath(yearMonth)
	if err != nil {
		return false
	}

	return r.pathResolver.FileExists(filePath)
}

// GetMonthFilesInYear gets all monthly files in a year, sorted.
// Returns a slice of year-month strings (e.g., ["2024-01", "2024-02"]).
func (r *FileSystemRepository) GetMonthFilesInYear(year string) ([]string, error) {
	yearDir := r.pathResolver.GetYearDir(year)
	if !r.pathResolver.IsDir(yearDir) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(yearDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read year directory: %w", err)
	}

	monthFiles := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if filepath.Ext(name) == ".beancount" && !strings.HasPrefix(name, ".") {
			monthFiles = append(monthFiles, strings.TrimSuffix(name, ".beancount"))
		}
	}
	sort.Strings(monthFiles)

	return monthFiles, nil
}

// generateFileHeader generates a header comment for a monthly file.
func (r *FileSystemRepository) generateFileHeader(yearMonth string) string {
	now := r.now().Format(time.RFC3339)
	return fmt.Sprintf("; Beancount file for %s\n; Generated at %s\n\n", yearMonth, now)
}
