// Package watcher reports changes to files below a root so they can be
// revised again while headerstamp keeps running.
package watcher

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietPeriod is how long a file must stay untouched before its events are emitted.
const DefaultQuietPeriod = 200 * time.Millisecond

// IgnoreChecker is used by the watcher to check if a path should be ignored.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnoreFile(absolutePath string) bool
}

// Watcher turns fsnotify events below a root into debounced batches.
type Watcher struct {
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	ignore    IgnoreChecker
	root      string
	recursive bool
	logger    *slog.Logger
}

// NewWatcher watches root. With recursive set, every non-ignored
// subdirectory is watched too, including ones created later.
func NewWatcher(root string, recursive bool, ignore IgnoreChecker, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:        fsWatcher,
		debouncer: NewDebouncer(DefaultQuietPeriod),
		ignore:    ignore,
		root:      root,
		recursive: recursive,
		logger:    logger,
	}

	if err := fsWatcher.Add(root); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	if recursive {
		w.addSubdirs(root, false)
	}
	return w, nil
}

// addSubdirs watches every non-ignored directory below dir. With report
// set, files already present are emitted as created, since they may have
// appeared before the watch was in place.
func (w *Watcher) addSubdirs(dir string, report bool) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if !d.IsDir() {
			if report && d.Type().IsRegular() {
				w.emit(path, OpCreate)
			}
			return nil
		}
		if w.ignore.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Events returns the channel that receives debounced batches.
func (w *Watcher) Events() <-chan []Event {
	return w.debouncer.Output()
}

// Start forwards fsnotify events until the watcher is closed. Call it in a goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		// chmod, including the time restore after a revision
		return
	}

	if op == OpCreate {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if w.recursive && !w.ignore.ShouldIgnoreDir(event.Name) {
				if err := w.fs.Add(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
				w.addSubdirs(event.Name, true)
			}
			return
		}
	}
	w.emit(event.Name, op)
}

// emit queues a file event. .gitignore is excluded from revision but its
// changes still matter to the ignore rules.
func (w *Watcher) emit(path string, op EventOp) {
	if filepath.Base(path) != ".gitignore" && w.ignore.ShouldIgnoreFile(path) {
		return
	}
	w.debouncer.Add(path, op)
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fs.Close()
}
