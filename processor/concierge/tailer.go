package concierge

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// StoreTailer signals when a metadata store file may have new entries.
// It watches the file's directory with fsnotify and debounces bursts of
// writes. A fallback ticker fires regardless of notifications, so the
// tailer still works on filesystems where fsnotify is unreliable.
type StoreTailer struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	fallback time.Duration

	pendingMu sync.Mutex
	pending   bool

	changes chan struct{}
}

// NewStoreTailer creates a tailer for the store file at path.
func NewStoreTailer(path string, debounce, fallback time.Duration, logger *slog.Logger) (*StoreTailer, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if fallback <= 0 {
		fallback = 3 * time.Second
	}

	return &StoreTailer{
		path:     path,
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		fallback: fallback,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changes returns the channel signaled when the store may have changed.
func (t *StoreTailer) Changes() <-chan struct{} {
	return t.changes
}

// Start begins watching the store file's directory.
func (t *StoreTailer) Start(ctx context.Context) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := t.watcher.Add(dir); err != nil {
		return err
	}

	go t.processEvents(ctx)

	t.logger.Debug("Store tailer started",
		"path", t.path,
		"debounce", t.debounce,
		"fallback", t.fallback)
	return nil
}

// Stop stops the tailer. The changes channel is closed by processEvents
// when it exits.
func (t *StoreTailer) Stop() error {
	return t.watcher.Close()
}

// processEvents handles fsnotify events with debouncing.
func (t *StoreTailer) processEvents(ctx context.Context) {
	defer close(t.changes)

	debounce := time.NewTicker(t.debounce)
	defer debounce.Stop()
	fallback := time.NewTicker(t.fallback)
	defer fallback.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.handleFSEvent(event)

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Error("Tailer watch error", "error", err)

		case <-debounce.C:
			t.pendingMu.Lock()
			fire := t.pending
			t.pending = false
			t.pendingMu.Unlock()
			if fire {
				t.signal()
			}

		case <-fallback.C:
			// Poll even without notifications.
			t.signal()
		}
	}
}

// handleFSEvent marks the store as pending when the watched file changes.
// The store writes via a temp file and rename, so Create counts too.
func (t *StoreTailer) handleFSEvent(event fsnotify.Event) {
	if event.Name != t.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	t.pendingMu.Lock()
	t.pending = true
	t.pendingMu.Unlock()
}

// signal notifies without blocking; a signal already in flight covers
// this change as well.
func (t *StoreTailer) signal() {
	select {
	case t.changes <- struct{}{}:
	default:
	}
}
