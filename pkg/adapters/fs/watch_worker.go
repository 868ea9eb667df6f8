package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/mythos/internal/debounce"
	"github.com/aretw0/mythos/pkg/core"
)

type watchWorker struct {
	*worker.BaseWorker
	backend *Backend
	pattern string
	events  chan<- core.Event
	watcher *fsnotify.Watcher
	pending *debounce.Debouncer
	cancel  context.CancelFunc

	// known tracks keys present on disk, so a rename over an existing file
	// is reported as a modification rather than a creation.
	knownMu sync.Mutex
	known   map[string]bool
}

func newWatchWorker(b *Backend, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		backend:    b,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	keys, err := w.backend.Keys(ctx)
	if err != nil {
		return err
	}
	w.known = make(map[string]bool, len(keys))
	for _, k := range keys {
		w.known[k] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.backend.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.backend.Path, err)
	}

	w.watcher = watcher
	w.pending = debounce.New(w.backend.config.WatchDebounce)
	w.backend.addWatcher(1)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.backend.Path,
			"pattern":           w.pattern,
		}
	})
}

// processFilesystemEvent maps a file event to a key event and debounces it.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	if filepath.Dir(event.Name) != filepath.Clean(w.backend.Path) {
		return false
	}
	key, ok := KeyFromFileName(filepath.Base(event.Name))
	if !ok {
		return false
	}
	if w.pattern != "" {
		if match, err := doublestar.Match(w.pattern, key); err != nil || !match {
			return false
		}
	}

	eType := w.mapEventType(key, event)
	if eType == "" {
		return false
	}

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		Key:       key,
		Timestamp: time.Now().Unix(),
	})
	return true
}

func (w *watchWorker) mapEventType(key string, event fsnotify.Event) core.EventType {
	w.knownMu.Lock()
	defer w.knownMu.Unlock()

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.known, key)
		return core.EventDelete
	case event.Has(fsnotify.Create):
		if w.known[key] {
			return core.EventModify
		}
		w.known[key] = true
		return core.EventCreate
	case event.Has(fsnotify.Write):
		w.known[key] = true
		return core.EventModify
	}
	return ""
}

// sendEvent delivers the event after the quiet period. A burst on one key
// keeps only its last event.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.pending.Add(event.Key, func() {
		defer func() {
			// The events channel may be closed while shutting down.
			_ = recover()
		}()
		w.backend.recordEvent(time.Unix(event.Timestamp, 0))
		select {
		case w.events <- event:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) handleWatcherError(err error) {
	if w.backend.config.Logger != nil {
		w.backend.config.Logger.Error("fsnotify error", "error", err)
	}
	if w.backend.config.ErrorHandler != nil {
		w.backend.config.ErrorHandler(err)
	}
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			logger := w.backend.config.Logger
			if logger == nil {
				return
			}
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.backend.addWatcher(-1)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// No event may be delivered after run returns.
	w.pending.StopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if w.backend.config.Logger != nil {
				w.backend.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
