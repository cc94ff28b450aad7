package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

const (
	defaultDebounce   = 500 * time.Millisecond
	minimumFlushEvery = 50 * time.Millisecond
)

// WatcherConfig controls which files a Watcher repairs.
type WatcherConfig struct {
	Root      string
	Pattern   string
	Recursive bool
	// Debounce is how long a path must stay quiet before it is repaired.
	Debounce time.Duration
}

// WatchEvent reports the repair of one file.
type WatchEvent struct {
	Path    string
	Changes []string
	Diffs   []interfaces.LineDiff
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger used for watch activity.
func WithWatcherLogger(logger interfaces.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logging.Ensure(logger)
	}
}

// OnRepair registers a callback invoked after a file is rewritten.
func OnRepair(fn func(WatchEvent)) WatcherOption {
	return func(w *Watcher) {
		w.onRepair = fn
	}
}

// Watcher repairs markdown files in place as they are written.
type Watcher struct {
	cfg      WatcherConfig
	logger   interfaces.Logger
	onRepair func(WatchEvent)

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewWatcher builds a Watcher for cfg.Root.
func NewWatcher(cfg WatcherConfig, opts ...WatcherOption) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = defaultPattern
	}
	w := &Watcher{
		cfg:     cfg,
		logger:  logging.NoOp(),
		pending: map[string]time.Time{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run watches the root until ctx is cancelled. It returns nil on
// cancellation and an error when the watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("markdown watch: %w", err)
	}
	defer notify.Close()

	if err := w.addTree(notify, w.cfg.Root); err != nil {
		return err
	}
	w.logger.Info("markdown.watch.started", "root", w.cfg.Root, "pattern", w.cfg.Pattern)

	ticker := time.NewTicker(max(w.cfg.Debounce/4, minimumFlushEvery))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("markdown.watch.stopped", "root", w.cfg.Root)
			return nil
		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}
			w.handleEvent(notify, event)
		case err, ok := <-notify.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("markdown.watch.error", "error", err)
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) addTree(notify *fsnotify.Watcher, root string) error {
	if !w.cfg.Recursive {
		if err := notify.Add(root); err != nil {
			return fmt.Errorf("markdown watch %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := notify.Add(p); err != nil {
			return fmt.Errorf("markdown watch %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(notify *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if event.Has(fsnotify.Create) && w.cfg.Recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(notify, event.Name); err != nil {
				w.logger.Warn("markdown.watch.add_failed", "path", event.Name, "error", err)
			}
			return
		}
	}
	if !w.matches(event.Name) {
		return
	}
	w.mark(event.Name, time.Now())
}

func (w *Watcher) matches(p string) bool {
	rel, err := filepath.Rel(w.cfg.Root, p)
	if err != nil {
		rel = p
	}
	return matchGlob(w.cfg.Pattern, filepath.ToSlash(rel))
}

func (w *Watcher) mark(p string, at time.Time) {
	w.mu.Lock()
	w.pending[p] = at
	w.mu.Unlock()
}

// flush repairs every pending path that has been quiet for the debounce
// window as of now.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	var ready []string
	for p, seen := range w.pending {
		if now.Sub(seen) >= w.cfg.Debounce {
			ready = append(ready, p)
			delete(w.pending, p)
		}
	}
	w.mu.Unlock()

	for _, p := range ready {
		if _, err := w.RepairFile(p); err != nil {
			w.logger.Error("markdown.watch.repair_failed", "path", p, "error", err)
		}
	}
}

// RepairFile repairs one file in place. It returns nil without error when
// the file is already clean or no longer exists.
func (w *Watcher) RepairFile(p string) (*WatchEvent, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	repair := RepairDocument(data)
	if !repair.Changed() {
		return nil, nil
	}
	if err := os.WriteFile(p, repair.Fixed, info.Mode().Perm()); err != nil {
		return nil, err
	}

	event := WatchEvent{Path: p, Changes: repair.Changes, Diffs: repair.Diffs}
	logging.WithDocumentContext(w.logger, p, "watch").Info("markdown.watch.repaired", "changes", len(repair.Changes))
	if w.onRepair != nil {
		w.onRepair(event)
	}
	return &event, nil
}
