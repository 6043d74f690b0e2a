package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/headerstamp/ignore"
	"github.com/lexandro/headerstamp/index"
	"github.com/lexandro/headerstamp/watcher"
)

// watch revises changed files until ctx is done. With sweepInterval > 0 the
// whole root is swept periodically as well.
func (s *session) watch(ctx context.Context, sweepInterval int) {
	fileWatcher, err := watcher.NewWatcher(s.root, s.runner.base.Recursive, s.matcher, s.logger)
	if err != nil {
		s.logger.Warn("failed to start file watcher", "error", err)
		return
	}
	defer fileWatcher.Close()
	go fileWatcher.Start()

	if sweepInterval > 0 {
		go runPeriodicSweep(ctx, sweepInterval, s.runner, s.logger)
	}

	s.logger.Info("watching for changes", "path", s.root)
	handleWatcherEvents(ctx, fileWatcher.Events(), s.runner, s.matcher, s.ledger, s.logger)
}

// handleWatcherEvents processes debounced batches until ctx is done or the
// channel is closed.
func handleWatcherEvents(
	ctx context.Context,
	batches <-chan []watcher.Event,
	r *runner,
	matcher *ignore.Matcher,
	ledger *index.HeaderIndex,
	logger *slog.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case events, ok := <-batches:
			if !ok {
				return
			}
			applyEvents(ctx, events, r, matcher, ledger, logger)
		}
	}
}

// applyEvents revises created and written files and drops removed ones from the ledger.
func applyEvents(
	ctx context.Context,
	events []watcher.Event,
	r *runner,
	matcher *ignore.Matcher,
	ledger *index.HeaderIndex,
	logger *slog.Logger,
) {
	for _, event := range events {
		relPath, _ := filepath.Rel(r.base.Root, event.Path)
		relPath = filepath.ToSlash(relPath)

		switch event.Op {
		case watcher.OpRemove, watcher.OpRename:
			if ledger.Get(relPath) != nil {
				if err := ledger.RemoveFile(relPath); err != nil {
					logger.Warn("removing ledger entry failed", "path", relPath, "error", err)
					continue
				}
				logger.Debug("removed from ledger", "path", relPath)
			}

		case watcher.OpCreate, watcher.OpWrite:
			if filepath.Base(event.Path) == ".gitignore" {
				if matcher.UsesGitignore() {
					matcher.Reload()
					logger.Info("reloaded ignore rules", "trigger", relPath)
				}
				continue
			}

			// Temporary files of an atomic replace are often gone by now
			info, err := os.Lstat(event.Path)
			if err != nil || info.IsDir() {
				continue
			}

			if _, err := r.revisePath(ctx, event.Path); err != nil {
				return
			}
		}
	}
}
