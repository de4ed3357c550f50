package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	headers := filepath.Join(dir, "headers")
	w, err := New([]string{headers, ""}, nil)
	require.NoError(t, err)
	defer func() { _ = w.watcher.Close() }()

	assert.Equal(t, []string{dir}, w.dirs)
	assert.True(t, w.relevant(fsnotify.Event{Name: headers, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: headers, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: headers, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other"), Op: fsnotify.Write}))
}

func TestRun_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	headers := filepath.Join(dir, "headers")
	require.NoError(t, os.WriteFile(headers, []byte("a.h\n"), 0o600))

	changed := make(chan string, 4)
	w, err := New([]string{headers}, func(_ context.Context, name string) { changed <- name })
	require.NoError(t, err)
	w.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Keep writing until the watcher is registered and reports the change.
	var got string
	require.Eventually(t, func() bool {
		_ = os.WriteFile(headers, []byte("a.h\nb.h\n"), 0o600)
		select {
		case got = <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, headers, got)

	cancel()
	require.NoError(t, <-done)
}
