package derivegen

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRelevant(t *testing.T) {
	w := NewWatcher(nil, "", nil)

	assert.True(t, w.relevant(fsnotify.Event{Name: "pkg/command.go", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "pkg/command.go", Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "pkg/command_derive.go", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "pkg/notes.txt", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "pkg/command.go", Op: fsnotify.Chmod}))
}

func TestWatcherRegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w := NewWatcher([]string{dir}, DefaultSuffix, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	src := filepath.Join(dir, "command.go")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(src, []byte("package sample\n"), 0644)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcherRunsOneRegenerationAtATime(t *testing.T) {
	var active, peak, calls atomic.Int32
	started := make(chan struct{}, 2)

	w := NewWatcher(nil, "", func(ctx context.Context) error {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		calls.Add(1)
		started <- struct{}{}
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	w.SetDebounce(time.Millisecond)
	defer w.stopTimer()

	ctx := context.Background()
	w.schedule(ctx)
	<-started
	w.schedule(ctx)

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return active.Load() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), peak.Load())
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "absent")}, "", func(context.Context) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}
