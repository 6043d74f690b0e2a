package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/headerstamp/filter"
	"github.com/lexandro/headerstamp/language"
	"github.com/lexandro/headerstamp/register"
	"github.com/lexandro/headerstamp/server"
	"github.com/spf13/cobra"
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// rootOptions holds the flags shared by the root and serve commands.
type rootOptions struct {
	path          string
	filter        string
	version       string
	author        string
	recursive     bool
	excludes      []string
	gitignore     bool
	configPath    string
	watch         bool
	sweepInterval int
	logLevel      string
	logFile       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.err)
		}
		os.Exit(exitErr.code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "headerstamp",
		Short: "Stamp file names, dates, version and author into source file headers",
		Long: `headerstamp walks a directory tree and rewrites the header tag lines of
every file whose extension passes the filter:

  @file:    base name of the file
  @create:  creation time, filled once from a "$create$" placeholder
  @version: the --updver value
  @update:  modification time
  @author:  the --author value, filled once from a "$author$" placeholder

Access and modification times of every revised file are kept.
Options are read from .headerstamp.yaml in the root when present;
flags given on the command line take precedence.`,
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRevise(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.path, "path", "P", "", "Root directory to process")
	flags.StringVarP(&opts.filter, "filter", "F", filter.DefaultExpression,
		"Comma separated extensions (.md) and group names ("+strings.Join(language.GroupOrder, ", ")+")")
	flags.StringVarP(&opts.version, "updver", "U", "", "Version string to stamp into @version: lines")
	flags.BoolVarP(&opts.recursive, "recursive", "R", true, "Descend into subdirectories")
	flags.StringVarP(&opts.author, "author", "A", "", "Author to stamp into @author: $author$ placeholders")
	flags.StringArrayVar(&opts.excludes, "exclude", nil, "Extra exclude glob, matched against relative paths and base names (repeatable)")
	flags.BoolVar(&opts.gitignore, "gitignore", false, "Skip files ignored by the root .gitignore")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: <root>/"+".headerstamp.yaml)")
	flags.BoolVar(&opts.watch, "watch", false, "Keep running and revise files again when they change")
	flags.IntVar(&opts.sweepInterval, "sweep-interval", 0, "Seconds between full sweeps while watching (0 disables)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file path (default: stderr)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newRegisterCommand())

	return cmd
}

// runRevise revises the tree once and, with --watch, keeps revising changed files.
func runRevise(cmd *cobra.Command, opts *rootOptions) error {
	if opts.path == "" {
		setupLogger(opts.logLevel, opts.logFile).Warn("no path given, use -P/--path")
		return &exitError{code: -1}
	}

	s, err := openSession(cmd, opts, opts.path)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	result, err := s.runner.run(ctx)
	if err != nil {
		s.logger.Warn("interrupted", "revised", result.Revised)
		return &exitError{code: 1, err: err}
	}
	s.logger.Info("done",
		"revised", result.Revised,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"errors", result.Errors,
		"duration", result.Duration.Round(time.Millisecond),
	)

	if !opts.watch {
		return nil
	}
	s.watch(ctx, opts.sweepInterval)
	return nil
}

func newRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register project [directory] | register user [-- serve flags]",
		Short: "Register headerstamp as an MCP server",
		Long: `Adds a headerstamp entry to .mcp.json in a project directory (scope "project")
or to ~/.claude.json (scope "user"). Arguments after "--" are passed to the
serve command, for example:

  headerstamp register project . -- --author alice --updver 2.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			regOpts, err := register.ParseArgs(args, cmd.ArgsLenAtDash())
			if err != nil {
				return err
			}
			binaryPath, err := os.Executable()
			if err != nil {
				return err
			}
			serverName := register.DeriveServerName(binaryPath)
			configPath, err := register.Run(serverName, regOpts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", serverName, configPath)
			return nil
		},
	}
}
