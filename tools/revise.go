package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexandro/headerstamp/walker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReviseArgs defines the input parameters for the headerstamp_revise tool.
type ReviseArgs struct {
	Path      string `json:"path,omitempty" jsonschema:"File or directory to revise, relative to the project root (default: the whole root)"`
	Version   string `json:"version,omitempty" jsonschema:"Version string to stamp into @version: lines (default: the configured version)"`
	Author    string `json:"author,omitempty" jsonschema:"Author to stamp into @author: $author$ placeholders (default: the configured author)"`
	Filter    string `json:"filter,omitempty" jsonschema:"Comma separated extensions and group names, e.g. .md,python,c (default: the configured filter)"`
	Recursive *bool  `json:"recursive,omitempty" jsonschema:"Descend into subdirectories (default: the configured value)"`
}

// ReviseFunc runs one revision with the given overrides applied.
// It is provided by the main package, which owns the run configuration.
type ReviseFunc func(ctx context.Context, args ReviseArgs) (walker.Result, error)

// ReviseHandler holds the dependencies for the revise tool.
type ReviseHandler struct {
	DoRevise ReviseFunc
	Logger   *slog.Logger
}

// Handle processes a headerstamp_revise request.
func (h *ReviseHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReviseArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("headerstamp_revise started", "path", args.Path, "version", args.Version)

	result, err := h.DoRevise(ctx, args)
	if err != nil {
		h.Logger.Error("headerstamp_revise failed", "path", args.Path, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Revise error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	h.Logger.Info("headerstamp_revise complete",
		"revised", result.Revised,
		"unchanged", result.Unchanged,
		"errors", result.Errors,
		"elapsed", result.Duration,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatResult(result)}},
	}, nil, nil
}
