// Package walker walks a directory tree depth-first and revises the headers
// of every qualifying file.
package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexandro/headerstamp/filter"
	"github.com/lexandro/headerstamp/header"
)

// DefaultReservedNames are module initializer files that are never revised.
var DefaultReservedNames = []string{"__init__.py"}

// Config holds the parameters of one run. It must not change while a walk is in progress.
type Config struct {
	Root      string // absolute
	Filter    *filter.Spec
	Recursive bool
	Author    string
	Version   string
	Timestamp time.Time
	RunID     string
	// SelfPath is the running executable, which is never revised.
	SelfPath      string
	ReservedNames []string
}

// Recorder receives every successfully revised file.
type Recorder interface {
	RecordRevision(runID string, at time.Time, rev header.Revision) error
}

// Result counts what a walk did. Revised is the run counter: it is
// incremented once per file that went through the reviser without error.
type Result struct {
	Revised   int
	Unchanged int // revised files whose content was already up to date
	Skipped   int // qualifying files refused by the reviser, such as binary content
	Errors    int
	Duration  time.Duration
}

// Add accumulates other into r.
func (r *Result) Add(other Result) {
	r.Revised += other.Revised
	r.Unchanged += other.Unchanged
	r.Skipped += other.Skipped
	r.Errors += other.Errors
	r.Duration += other.Duration
}

// Walker runs the header revision over a tree. It is not safe for
// concurrent use; callers serialize runs.
type Walker struct {
	config   Config
	matcher  IgnoreChecker
	reviser  *header.Reviser
	recorder Recorder
	logger   *slog.Logger
}

// New creates a walker. recorder may be nil.
func New(config Config, matcher IgnoreChecker, recorder Recorder, logger *slog.Logger) *Walker {
	if config.Filter == nil {
		config.Filter = filter.BuildDefault(filter.DefaultExpression)
	}
	if config.Timestamp.IsZero() {
		config.Timestamp = time.Now()
	}
	return &Walker{
		config:   config,
		matcher:  matcher,
		reviser:  &header.Reviser{Version: config.Version, Author: config.Author},
		recorder: recorder,
		logger:   logger,
	}
}

// Config returns the run configuration.
func (w *Walker) Config() Config { return w.config }

// Walk revises the whole root directory. Per-entry failures are logged and
// counted; the returned error is non-nil only when ctx is done.
func (w *Walker) Walk(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result
	err := w.walkDir(ctx, w.config.Root, &res)
	res.Duration = time.Since(start)
	return res, err
}

// WalkPath revises a single file or a directory below the root. Ancestors of
// path are not checked against the ignore rules.
func (w *Walker) WalkPath(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	var res Result

	info, err := os.Lstat(path)
	if err != nil {
		w.logger.Error("stat failed", "path", path, "error", err)
		res.Errors++
		return res, nil
	}

	var walkErr error
	if info.IsDir() {
		walkErr = w.walkDir(ctx, path, &res)
	} else {
		w.visitEntry(path, info, &res)
	}
	res.Duration = time.Since(start)
	return res, walkErr
}

// walkDir visits the entries of dir in name order.
func (w *Walker) walkDir(ctx context.Context, dir string, res *Result) error {
	// os.ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Error("listing directory failed", "path", dir, "error", err)
		res.Errors++
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		info, err := os.Lstat(path)
		if err != nil {
			w.logger.Error("stat failed", "path", path, "error", err)
			res.Errors++
			continue
		}

		if w.visitEntry(path, info, res) == Descend {
			if err := w.walkDir(ctx, path, res); err != nil {
				return err
			}
		}
	}
	return nil
}

// visitEntry classifies and, for files, revises one entry. A panic while
// handling the entry is logged and counted instead of ending the walk.
func (w *Walker) visitEntry(path string, info os.FileInfo, res *Result) (action Action) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("unexpected error", "path", path, "error", fmt.Sprint(r))
			res.Errors++
			action = SkipOther
		}
	}()

	action = w.Classify(path, info)
	w.logger.Debug("classified", "path", path, "action", action)
	if action == Process {
		w.revise(path, info, res)
	}
	return action
}

func (w *Walker) revise(path string, info os.FileInfo, res *Result) {
	rev, err := w.reviser.Revise(header.NewFileEntry(path, info))
	if err != nil {
		if errors.Is(err, header.ErrBinary) {
			w.logger.Warn("skipped binary file", "path", path)
			res.Skipped++
			return
		}
		w.logger.Error("revising file failed", "path", path, "error", err)
		res.Errors++
		return
	}

	res.Revised++
	if !rev.Changed {
		res.Unchanged++
	}
	w.logger.Info("updated", "count", res.Revised, "path", path)

	if w.recorder != nil {
		if err := w.recorder.RecordRevision(w.config.RunID, w.config.Timestamp, rev); err != nil {
			w.logger.Warn("recording revision failed", "path", path, "error", err)
		}
	}
}
