package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/proplens/pkg/parser"
	"github.com/gnana997/proplens/pkg/semantic"
)

// defaultDebounce groups rapid write events for the same file so a save
// storm re-extracts once.
const defaultDebounce = 200 * time.Millisecond

// Watcher keeps the declaration index current while files change on disk.
// Writes and creates re-extract the file after a debounce window; removes
// and renames retract it.
type Watcher struct {
	watcher  *fsnotify.Watcher
	pm       *parser.ParserManager
	index    *Index
	logger   *slog.Logger
	debounce time.Duration

	timers   map[string]*time.Timer
	timersMu sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the given index. Debounce <= 0 uses
// the default window.
func NewWatcher(pm *parser.ParserManager, index *Index, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Watcher{
		watcher:  fsw,
		pm:       pm,
		index:    index,
		logger:   logger,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		stopChan: make(chan struct{}),
	}, nil
}

// Start watches root and its subdirectories and begins processing events.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("setup watches: %w", err)
	}

	w.logger.Info("workspace watcher started", "root", root)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.timersMu.Lock()
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timersMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("workspace watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories must be added to the watch set.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !shouldIgnoreDir(path) {
				if err := w.watcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if parser.DetectLanguage(path) == parser.LanguageUnknown {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create:
		w.scheduleReindex(path)

	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		w.index.RemoveFile(path)
	}
}

// scheduleReindex resets the file's debounce timer; only the last event in
// the window triggers extraction.
func (w *Watcher) scheduleReindex(path string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.reindex(path)

		w.timersMu.Lock()
		delete(w.timers, path)
		w.timersMu.Unlock()
	})
}

func (w *Watcher) reindex(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read changed file", "file", path, "error", err)
		return
	}
	decls, err := semantic.ExtractDecls(w.pm, path, content)
	if err != nil {
		w.logger.Warn("failed to extract changed file", "file", path, "error", err)
		return
	}
	w.index.AddFile(decls)

	w.logger.Debug("file reindexed",
		"file", path,
		"components", len(decls.Components),
		"factories", len(decls.Factories))
}

// PendingReindexes reports how many files are waiting out their debounce.
func (w *Watcher) PendingReindexes() int {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	return len(w.timers)
}

func shouldIgnoreDir(path string) bool {
	switch filepath.Base(path) {
	case "node_modules", ".git", "dist", "build", ".next", "coverage", "out":
		return true
	}
	return false
}
