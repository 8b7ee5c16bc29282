// Package watcher monitors the cases directory for document changes and
// triggers collection reloads once writes settle.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettleDelay is how long a file must stay unchanged before a
// change event fires. Editors and the atomic document writer both produce
// bursts of filesystem events for a single logical save.
const DefaultSettleDelay = 500 * time.Millisecond

// ChangeHandler is invoked after document changes settle. The paths slice
// holds every document that changed in the burst.
type ChangeHandler func(ctx context.Context, paths []string)

// Watcher debounces filesystem events over a single directory of .tex
// documents.
type Watcher struct {
	dir         string
	settleDelay time.Duration
	handler     ChangeHandler
	logger      *slog.Logger
	fsw         *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a watcher over dir. The directory is created if absent so
// the watch can be established before the first document exists.
func New(dir string, settleDelay time.Duration, handler ChangeHandler, logger *slog.Logger) (*Watcher, error) {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:         dir,
		settleDelay: settleDelay,
		handler:     handler,
		logger:      logger,
		fsw:         fsw,
		pending:     make(map[string]struct{}),
	}, nil
}

// Run processes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.logger.Info("watching for document changes", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".tex") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[filepath.Clean(event.Name)] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settleDelay, func() { w.flush(ctx) })
}

// flush hands the settled burst to the handler.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	clear(w.pending)
	w.timer = nil
	w.mu.Unlock()

	if len(paths) == 0 || ctx.Err() != nil {
		return
	}
	w.logger.Debug("document changes settled", "count", len(paths))
	w.handler(ctx, paths)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
