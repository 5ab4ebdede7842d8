package game

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func(string) // called with path that changed
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done. It primes the mtime cache first so files
// that already exist do not fire on the first tick.
func (w *FileWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.Scan(true)
	for {
		select {
		case <-ticker.C:
			w.Scan(false)
		case <-ctx.Done():
			return nil
		}
	}
}

// Scan checks mtimes and invokes onChange for files that changed since the
// last scan. A file that appears after priming counts as a change.
func (w *FileWatcher) Scan(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// if file missing, keep going
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime {
			continue
		}
		if !ok || mt.After(last) {
			if w.onChange != nil {
				w.onChange(p)
			}
		}
	}
}

// Reloader ties a Loader to a FileWatcher: on change the cache is dropped,
// the document re-resolved and handed to apply. A document that fails to
// resolve or that apply rejects is logged and the previous one stays live.
type Reloader struct {
	loader *Loader
	apply  func(Config) error
	log    *slog.Logger
}

// NewReloader builds a reloader. A nil logger falls back to slog.Default().
func NewReloader(loader *Loader, apply func(Config) error, log *slog.Logger) *Reloader {
	if log == nil {
		log = slog.Default()
	}
	return &Reloader{loader: loader, apply: apply, log: log}
}

// Reload re-reads the document and applies it.
func (r *Reloader) Reload(path string) error {
	r.loader.Invalidate()
	_, cfg, err := r.loader.Resolve()
	if err != nil {
		r.log.Warn("config reload rejected", slog.String("path", path), slog.Any("error", err))
		return err
	}
	if err := r.apply(cfg); err != nil {
		r.log.Warn("config apply rejected", slog.String("path", path), slog.Any("error", err))
		return err
	}
	r.log.Info("config reloaded", slog.String("path", path), slog.Int("stages", len(cfg.Stages)))
	return nil
}

// Watcher returns a FileWatcher on the loader's override file.
func (r *Reloader) Watcher(interval time.Duration) *FileWatcher {
	return NewFileWatcher([]string{r.loader.Path()}, interval, func(p string) { _ = r.Reload(p) })
}
