package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"songbox/logger"

	"github.com/fsnotify/fsnotify"
)

// Janitor removes staged upload files that were left behind, e.g. after a
// crash mid-request or a failed upload whose cleanup never ran. It watches
// the staging directory and sweeps on a timer; any file older than the
// grace period is deleted.
type Janitor struct {
	dir   string
	grace time.Duration
	sweep time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewJanitor creates a janitor for the given staging directory. Files
// survive at least grace before being swept.
func NewJanitor(dir string, grace time.Duration) *Janitor {
	return &Janitor{
		dir:   dir,
		grace: grace,
		sweep: grace / 2,
		seen:  make(map[string]time.Time),
	}
}

// Run watches the staging directory until ctx is cancelled. Best effort
// throughout: watcher or removal errors are logged and the janitor keeps
// going.
func (j *Janitor) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("Failed to create staging watcher", logger.ErrorField(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(j.dir); err != nil {
		logger.Error("Failed to watch staging directory",
			logger.String("dir", j.dir),
			logger.ErrorField(err))
		return
	}

	// Pick up files that predate the watcher.
	j.scanExisting()

	ticker := time.NewTicker(j.sweep)
	defer ticker.Stop()

	logger.Info("Staging janitor started",
		logger.String("dir", j.dir),
		logger.Duration("grace", j.grace))

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			j.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Staging watcher error", logger.ErrorField(err))
		case <-ticker.C:
			j.sweepStale()
		}
	}
}

func (j *Janitor) handleEvent(event fsnotify.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch {
	case event.Has(fsnotify.Create):
		j.seen[event.Name] = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(j.seen, event.Name)
	}
}

func (j *Janitor) scanExisting() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		logger.Warn("Failed to scan staging directory", logger.ErrorField(err))
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		staged := time.Now()
		if info, err := entry.Info(); err == nil {
			staged = info.ModTime()
		}
		j.seen[path] = staged
	}
}

func (j *Janitor) sweepStale() {
	j.mu.Lock()
	var stale []string
	for path, staged := range j.seen {
		if time.Since(staged) >= j.grace {
			stale = append(stale, path)
		}
	}
	j.mu.Unlock()

	for _, path := range stale {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to sweep staged file",
				logger.String("path", path),
				logger.ErrorField(err))
			continue
		}
		if err == nil {
			logger.Info("Swept orphaned staged file", logger.String("path", path))
		}
		j.mu.Lock()
		delete(j.seen, path)
		j.mu.Unlock()
	}
}
