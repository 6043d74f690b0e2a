package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/headerstamp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the headerstamp_search tool.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"Query over revised files, e.g. author:alice or version:\"2.0.0\" or language:Python. Use * for every file"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of files to return (default 50)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Ledger *index.HeaderIndex
	Logger *slog.Logger
}

// Handle processes a headerstamp_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("headerstamp_search called with empty query")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: query parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	query := args.Query
	if query == "*" {
		query = ""
	}

	records, total, err := h.Ledger.Search(query, args.MaxResults)
	if err != nil {
		h.Logger.Error("headerstamp_search failed", "query", args.Query, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Search error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	h.Logger.Info("headerstamp_search",
		"query", args.Query,
		"files", len(records),
		"total", total,
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatSearchResults(records, total)}},
	}, nil, nil
}
