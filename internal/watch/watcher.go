// Package watch reruns a callback when any of a fixed set of input files
// changes. Reruns are debounced and never overlap.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/ffbuild/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one rerun.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors files and triggers OnChange.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	watcher  *fsnotify.Watcher
	Debounce time.Duration
	OnChange func(ctx context.Context, changed string)
}

// New creates a Watcher for paths. The containing directories are watched
// since editors commonly replace files by rename.
func New(paths []string, onChange func(ctx context.Context, changed string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		watcher:  fw,
		Debounce: DefaultDebounce,
		OnChange: onChange,
	}
	seen := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve watch path %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Run watches until ctx is done. OnChange runs on the calling goroutine, so
// one rerun finishes before the next starts.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		slog.Info("Watching for changes", logfields.Path(dir))
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Input change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			pending = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.Debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			if w.OnChange != nil {
				w.OnChange(ctx, pending)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if _, ok := w.files[abs]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
