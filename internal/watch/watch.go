// Package watch reports changed source files, coalescing bursts of writes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

type Watcher struct {
	watcher    *fsnotify.Watcher
	logger     *zap.Logger
	extensions []string
	files      map[string]bool // explicitly watched files
	Debounce   time.Duration
}

// New creates a Watcher for files with one of extensions.
func New(logger *zap.Logger, extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		watcher:    w,
		logger:     logger,
		extensions: extensions,
		files:      make(map[string]bool),
		Debounce:   DefaultDebounce,
	}, nil
}

// Add watches paths. Directories are watched recursively. A file is
// watched through its parent directory and reported whatever its extension.
func (w *Watcher) Add(paths ...string) error {
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				if p == abs {
					w.files[p] = true
					return w.watcher.Add(filepath.Dir(p))
				}
				return nil
			}
			if p != abs && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.watcher.Add(p)
		})
		if err != nil {
			return fmt.Errorf("error adding %s to watcher: %w", path, err)
		}
	}
	return nil
}

// Run calls fn with the files changed after each quiet period, until ctx is
// done or the watcher is closed. fn runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, fn func(paths []string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			pending[event.Name] = struct{}{}
			timer.Reset(w.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			fn(paths)
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if w.files[event.Name] {
		return true
	}
	for _, ext := range w.extensions {
		if strings.HasSuffix(event.Name, ext) {
			return true
		}
	}
	return false
}
