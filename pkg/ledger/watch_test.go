package ledger

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestWatchReportsChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTestStore(t)
	require.NoError(t, s.Initialize())

	var changes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	var g errgroup.Group
	g.Go(func() error {
		return s.Watch(ctx, 20*time.Millisecond, func() { changes.Add(1) })
	})

	// The watcher registers asynchronously, so keep mutating until it notices.
	require.Eventually(t, func() bool {
		if _, err := s.Add(expense("1", "餐饮", day(2024, 1, 1))); err != nil {
			return false
		}
		return changes.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, g.Wait())
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTestStore(t)
	require.NoError(t, s.Initialize())

	var changes atomic.Int32
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		return s.Watch(ctx, 10*time.Millisecond, func() { changes.Add(1) })
	})

	other := filepath.Join(filepath.Dir(s.Path()), "notes.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
		time.Sleep(20 * time.Millisecond)
	}

	require.NoError(t, g.Wait())
	require.Zero(t, changes.Load())
}
