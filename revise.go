package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lexandro/headerstamp/filter"
	"github.com/lexandro/headerstamp/ignore"
	"github.com/lexandro/headerstamp/index"
	"github.com/lexandro/headerstamp/tools"
	"github.com/lexandro/headerstamp/walker"
)

// runner serializes walks over one root. The CLI run, watcher events,
// sweeps and MCP tool calls all go through it.
type runner struct {
	mu      sync.Mutex
	base    walker.Config
	groups  map[string][]string
	matcher *ignore.Matcher
	ledger  *index.HeaderIndex
	logger  *slog.Logger

	lastMu  sync.Mutex
	last    tools.RunSummary
	hasLast bool
}

func newRunner(base walker.Config, groups map[string][]string, matcher *ignore.Matcher, ledger *index.HeaderIndex, logger *slog.Logger) *runner {
	return &runner{
		base:    base,
		groups:  groups,
		matcher: matcher,
		ledger:  ledger,
		logger:  logger,
	}
}

// newWalker stamps config with a fresh run ID and timestamp.
func (r *runner) newWalker(config walker.Config) *walker.Walker {
	config.RunID = uuid.NewString()
	config.Timestamp = time.Now()
	return walker.New(config, r.matcher, r.ledger, r.logger.With("run", config.RunID))
}

// run revises the whole root.
func (r *runner) run(ctx context.Context) (walker.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.newWalker(r.base)
	result, err := w.Walk(ctx)
	r.remember(w.Config().RunID, result)
	return result, err
}

// revisePath revises one file or directory below the root.
func (r *runner) revisePath(ctx context.Context, path string) (walker.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.newWalker(r.base)
	result, err := w.WalkPath(ctx, path)
	r.remember(w.Config().RunID, result)
	return result, err
}

// reviseWith runs a walk with per-call overrides of the base configuration.
func (r *runner) reviseWith(ctx context.Context, args tools.ReviseArgs) (walker.Result, error) {
	config := r.base
	if args.Version != "" {
		config.Version = args.Version
	}
	if args.Author != "" {
		config.Author = args.Author
	}
	if args.Filter != "" {
		spec := filter.Build(args.Filter, r.groups)
		if spec.Len() == 0 {
			return walker.Result{}, fmt.Errorf("filter %q selects no extensions", args.Filter)
		}
		config.Filter = spec
	}
	if args.Recursive != nil {
		config.Recursive = *args.Recursive
	}

	target := config.Root
	if args.Path != "" {
		resolved, err := r.resolve(args.Path)
		if err != nil {
			return walker.Result{}, err
		}
		target = resolved
	}
	if _, err := os.Lstat(target); err != nil {
		return walker.Result{}, fmt.Errorf("path does not exist: %s", args.Path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.newWalker(config)
	var result walker.Result
	var err error
	if target == config.Root {
		result, err = w.Walk(ctx)
	} else {
		result, err = w.WalkPath(ctx, target)
	}
	r.remember(w.Config().RunID, result)
	return result, err
}

// resolve maps a root-relative path to an absolute one inside the root.
func (r *runner) resolve(relativePath string) (string, error) {
	absolutePath := filepath.Join(r.base.Root, filepath.FromSlash(relativePath))
	rel, err := filepath.Rel(r.base.Root, absolutePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside the project root: %s", relativePath)
	}
	return absolutePath, nil
}

func (r *runner) remember(runID string, result walker.Result) {
	r.lastMu.Lock()
	defer r.lastMu.Unlock()
	r.last = tools.RunSummary{RunID: runID, Finished: time.Now(), Result: result}
	r.hasLast = true
}

// lastRun returns the most recent completed run.
func (r *runner) lastRun() (tools.RunSummary, bool) {
	r.lastMu.Lock()
	defer r.lastMu.Unlock()
	return r.last, r.hasLast
}
