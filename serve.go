package main

import (
	"time"

	"github.com/lexandro/headerstamp/server"
	"github.com/lexandro/headerstamp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP server on stdio for the root directory",
		Long: `Serve exposes headerstamp to MCP clients over stdio. The root defaults to
the working directory. Files are only revised when a client calls
headerstamp_revise, or when they change while --watch is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	path := opts.path
	if path == "" {
		path = "."
	}

	startTime := time.Now()
	s, err := openSession(cmd, opts, path)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if opts.watch {
		go s.watch(ctx, opts.sweepInterval)
	}

	reviseHandler := &tools.ReviseHandler{DoRevise: s.runner.reviseWith, Logger: s.logger}
	headersHandler := &tools.HeadersHandler{RootDir: s.root, Logger: s.logger}
	searchHandler := &tools.SearchHandler{Ledger: s.ledger, Logger: s.logger}
	statusHandler := &tools.StatusHandler{
		Ledger:    s.ledger,
		LastRun:   s.runner.lastRun,
		StartTime: startTime,
		RootDir:   s.root,
		Filter:    s.filter.String(),
		Logger:    s.logger,
	}

	mcpServer := server.Setup(reviseHandler, headersHandler, searchHandler, statusHandler)

	s.logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		s.logger.Error("MCP server error", "error", err)
		return &exitError{code: 1, err: err}
	}
	return nil
}
