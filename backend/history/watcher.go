package history

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"multiplatform-example/backend/bridge"
)

const debounceDelay = 200 * time.Millisecond

// Reporter forwards drained entries to the UI
type Reporter interface {
	ReportHistory(ctx context.Context, entry bridge.HistoryEntry) error
}

// Watcher drains the inbox into a Reporter whenever the signal file changes
type Watcher struct {
	service    *Service
	reporter   Reporter
	signalPath string
	logger     *slog.Logger

	mu     sync.Mutex
	lastID int64
}

// NewWatcher creates a watcher for the signal file at signalPath
func NewWatcher(service *Service, reporter Reporter, signalPath string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		service:    service,
		reporter:   reporter,
		signalPath: signalPath,
		logger:     logger,
	}
}

// Drain reports every entry newer than the last reported one. It stops at
// the first failed report so the entry is retried on the next drain.
func (w *Watcher) Drain(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.service.Since(w.lastID)
	if err != nil {
		return 0, err
	}

	for i, e := range entries {
		if err := w.reporter.ReportHistory(ctx, e.Entry); err != nil {
			return i, fmt.Errorf("report history entry %d: %w", e.ID, err)
		}
		w.lastID = e.ID
	}
	return len(entries), nil
}

// Run drains once, then watches the signal file's directory until ctx is
// done
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	// the signal file may not exist yet, so watch its directory
	if err := fsWatcher.Add(filepath.Dir(w.signalPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.signalPath), err)
	}

	w.drainAndLog(ctx)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.signalPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce = time.After(debounceDelay)
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("History watcher error", "error", err)

		case <-debounce:
			debounce = nil
			w.drainAndLog(ctx)
		}
	}
}

func (w *Watcher) drainAndLog(ctx context.Context) {
	n, err := w.Drain(ctx)
	if err != nil {
		w.logger.Warn("Failed to drain history inbox", "reported", n, "error", err)
		return
	}
	if n > 0 {
		w.logger.Debug("Drained history inbox", "reported", n)
	}
}
