package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/headerstamp/config"
	"github.com/lexandro/headerstamp/filter"
	"github.com/lexandro/headerstamp/ignore"
	"github.com/lexandro/headerstamp/index"
	"github.com/lexandro/headerstamp/language"
	"github.com/lexandro/headerstamp/runlock"
	"github.com/lexandro/headerstamp/walker"
	"github.com/spf13/cobra"
)

// session is everything a process needs to revise one root.
type session struct {
	root    string
	config  *config.Config
	filter  *filter.Spec
	logger  *slog.Logger
	lock    *runlock.Lock
	matcher *ignore.Matcher
	ledger  *index.HeaderIndex
	runner  *runner
}

// openSession resolves the root, loads configuration, takes the run lock and
// builds the runner. Errors are returned as exit code 1.
func openSession(cmd *cobra.Command, opts *rootOptions, path string) (*session, error) {
	root, err := resolvePath(path)
	if err != nil {
		return nil, &exitError{code: 1, err: fmt.Errorf("resolving path %s: %w", path, err)}
	}

	cfg, err := loadConfig(cmd, opts, root)
	if err != nil {
		return nil, &exitError{code: 1, err: err}
	}

	logger := setupLogger(cfg.LogLevel, opts.logFile)

	lock, err := runlock.Acquire(root)
	if err != nil {
		if errors.Is(err, runlock.ErrLocked) {
			return nil, &exitError{code: 1, err: fmt.Errorf("another headerstamp run is active on %s", root)}
		}
		return nil, &exitError{code: 1, err: err}
	}

	spec := filter.Build(cfg.Filter, language.MergeGroups(cfg.Groups))
	if rejected := spec.Rejected(); len(rejected) > 0 {
		logger.Warn("ignoring unknown filter tokens", "tokens", strings.Join(rejected, ","))
	}

	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:         root,
		IgnoredDirs:     cfg.IgnoreDirs,
		IgnoredFiles:    cfg.IgnoreFiles,
		ExcludePatterns: cfg.Exclude,
		UseGitignore:    cfg.Gitignore,
	})

	ledger, err := index.NewHeaderIndex(root)
	if err != nil {
		lock.Release()
		return nil, &exitError{code: 1, err: err}
	}

	base := walker.Config{
		Root:          root,
		Filter:        spec,
		Recursive:     cfg.Recursive,
		Author:        cfg.Author,
		Version:       cfg.Version,
		SelfPath:      executablePath(),
		ReservedNames: walker.DefaultReservedNames,
	}

	logger.Info("starting headerstamp",
		"path", root,
		"exts", spec.String(),
		"recursive", cfg.Recursive,
		"updver", cfg.Version,
		"author", cfg.Author,
		"lock", lock.Path(),
	)

	return &session{
		root:    root,
		config:  cfg,
		filter:  spec,
		logger:  logger,
		lock:    lock,
		matcher: matcher,
		ledger:  ledger,
		runner:  newRunner(base, language.MergeGroups(cfg.Groups), matcher, ledger, logger),
	}, nil
}

// Close releases the ledger and the run lock.
func (s *session) Close() {
	if err := s.ledger.Close(); err != nil {
		s.logger.Warn("closing ledger failed", "error", err)
	}
	if err := s.lock.Release(); err != nil {
		s.logger.Warn("releasing lock failed", "path", s.lock.Path(), "error", err)
	}
}

// loadConfig layers defaults, the config file and explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions, root string) (*config.Config, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = filepath.Join(root, config.FileName)
	} else {
		resolved, err := resolvePath(configPath)
		if err != nil {
			return nil, fmt.Errorf("resolving config path %s: %w", configPath, err)
		}
		configPath = resolved
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	var filterExpr, version, author *string
	var recursive, gitignore *bool
	if flags.Changed("filter") {
		filterExpr = &opts.filter
	}
	if flags.Changed("updver") {
		version = &opts.version
	}
	if flags.Changed("author") {
		author = &opts.author
	}
	if flags.Changed("recursive") {
		recursive = &opts.recursive
	}
	if flags.Changed("gitignore") {
		gitignore = &opts.gitignore
	}
	cfg.MergeWithFlags(filterExpr, version, author, recursive, gitignore, opts.excludes)
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolvePath expands a leading ~ and makes path absolute against the
// working directory.
func resolvePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

// executablePath returns the running binary so a walk never revises it.
func executablePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}
