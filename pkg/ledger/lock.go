package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// pathLocks serializes mutations within one process, keyed by canonical path.
var pathLocks sync.Map // map[string]*sync.Mutex

func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// lockPath takes the in-process mutex for path and then an advisory lock on
// "<path>.lock" so that other processes are serialized too. The returned
// function releases both.
func lockPath(path string) (func(), error) {
	key := canonicalPath(path)
	v, _ := pathLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	if err := os.MkdirAll(filepath.Dir(key), 0755); err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("%w: failed to create directory: %w", ErrStorage, err)
	}
	fl := flock.New(key + ".lock")
	if err := fl.Lock(); err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("%w: failed to lock %s: %w", ErrStorage, key, err)
	}

	return func() {
		_ = fl.Unlock()
		mu.Unlock()
	}, nil
}
