package ledger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// fileWriter replaces files atomically. The hooks exist so tests can inject
// failures at each step.
type fileWriter struct {
	createTemp func(dir, pattern string) (*os.File, error)
	rename     func(oldpath, newpath string) error
}

func defaultFileWriter() fileWriter {
	return fileWriter{
		createTemp: os.CreateTemp,
		rename:     os.Rename,
	}
}

// replace writes the output of encode to a temp file next to path, syncs it
// and renames it over path. On any failure path is left untouched.
func (fw fileWriter) replace(path string, encode func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %w", ErrStorage, dir, err)
	}

	tmp, err := fw.createTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", ErrStorage, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := encode(tmp); err != nil {
		return fmt.Errorf("%w: failed to write temp file: %w", ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync temp file: %w", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file: %w", ErrStorage, err)
	}
	if err := fw.rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: failed to rename temp file: %w", ErrStorage, err)
	}
	return nil
}
