package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cdr.dev/slog"
	"github.com/fsnotify/fsnotify"

	"github.com/JuanLara18/study-notes/internal/log"
)

// DebounceDelay groups bursts of file events into one change.
const DebounceDelay = 300 * time.Millisecond

// Watcher reports changes under a directory tree, debounced.
type Watcher struct {
	fw     *fsnotify.Watcher
	root   string
	delay  time.Duration
	events chan string

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	last          string

	closeMu sync.RWMutex
	closed  bool
}

// NewWatcher watches root and every directory below it. Extra files (such as
// the site configuration) can be added with Add.
func NewWatcher(root string, delay time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if delay <= 0 {
		delay = DebounceDelay
	}
	w := &Watcher{
		fw:     fw,
		root:   root,
		delay:  delay,
		events: make(chan string, 1),
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Add watches one more path.
func (w *Watcher) Add(path string) error {
	return w.fw.Add(path)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

// Events returns the debounced change channel; each value is the last path
// that changed in the burst.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Run processes file system events until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						log.Warn(ctx, "watch new directory", slog.F("path", event.Name), slog.F("err", err))
					}
				}
			}
			log.Debug(ctx, "file changed", slog.F("path", event.Name), slog.F("op", event.Op.String()))
			w.schedule(event.Name)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Error(ctx, "watcher error", slog.F("err", err))
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	w.last = path
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.delay, func() {
		w.closeMu.RLock()
		defer w.closeMu.RUnlock()
		if w.closed {
			return
		}

		w.debounceMu.Lock()
		last := w.last
		w.debounceMu.Unlock()

		select {
		case w.events <- last:
		default:
			// a change is already pending
		}
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceMu.Unlock()

	close(w.events)
	return w.fw.Close()
}

// Watch runs w and, for every change, calls s.OnChange and tells the
// browsers to reload. It returns when ctx is done.
func (s *Server) Watch(ctx context.Context, w *Watcher) {
	go w.Run(ctx)
	for path := range w.Events() {
		log.Info(s.ctx, "content changed", slog.F("path", path))
		if s.OnChange != nil {
			if err := s.OnChange(ctx); err != nil {
				log.Error(s.ctx, "rebuild failed", slog.F("err", err))
			}
		}
		s.Broadcast(Message{Type: TypeReload})
	}
}
