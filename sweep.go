package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexandro/headerstamp/walker"
)

// SweepResult holds the outcome of a single sweep.
type SweepResult struct {
	Walk  walker.Result
	Stale int // ledger entries whose file is gone
}

// runPeriodicSweep revises the whole root at the given interval until ctx is done.
func runPeriodicSweep(ctx context.Context, intervalSeconds int, r *runner, logger *slog.Logger) {
	interval := time.Duration(intervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sweep started", "intervalSeconds", intervalSeconds)

	for {
		select {
		case <-ctx.Done():
			logger.Info("periodic sweep stopped")
			return
		case <-ticker.C:
			result, err := performSweep(ctx, r, logger)
			if err != nil {
				logger.Info("periodic sweep stopped")
				return
			}
			if result.Walk.Revised > result.Walk.Unchanged || result.Stale > 0 || result.Walk.Errors > 0 {
				logger.Info("sweep complete",
					"changed", result.Walk.Revised-result.Walk.Unchanged,
					"stale", result.Stale,
					"errors", result.Walk.Errors,
					"duration", result.Walk.Duration,
				)
			} else {
				logger.Debug("sweep complete, all headers current", "duration", result.Walk.Duration)
			}
		}
	}
}

// performSweep revises the whole root, then drops ledger entries for files
// that no longer exist.
func performSweep(ctx context.Context, r *runner, logger *slog.Logger) (SweepResult, error) {
	var result SweepResult

	walkResult, err := r.run(ctx)
	result.Walk = walkResult
	if err != nil {
		return result, err
	}

	for _, relPath := range r.ledger.Paths() {
		absPath := filepath.Join(r.base.Root, filepath.FromSlash(relPath))
		if _, err := os.Lstat(absPath); err == nil {
			continue
		}
		if err := r.ledger.RemoveFile(relPath); err != nil {
			logger.Warn("sweep: removing stale entry failed", "path", relPath, "error", err)
			continue
		}
		logger.Info("sweep: removed stale entry", "path", relPath)
		result.Stale++
	}
	return result, nil
}
