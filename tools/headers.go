package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/headerstamp/header"
	"github.com/lexandro/headerstamp/language"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HeadersArgs defines the input parameters for the headerstamp_headers tool.
type HeadersArgs struct {
	FilePath string `json:"filePath" jsonschema:"Relative file path to inspect (e.g. src/main.c)"`
}

// HeadersHandler holds the dependencies for the headers tool.
type HeadersHandler struct {
	RootDir string
	Logger  *slog.Logger
}

// Handle processes a headerstamp_headers request. The file is read from disk
// and never modified.
func (h *HeadersHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args HeadersArgs) (*mcp.CallToolResult, any, error) {
	if args.FilePath == "" {
		h.Logger.Warn("headerstamp_headers called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	absolutePath, err := h.resolve(args.FilePath)
	if err != nil {
		h.Logger.Warn("headerstamp_headers rejected path", "filePath", args.FilePath, "error", err)
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	data, err := os.ReadFile(absolutePath)
	if err != nil {
		h.Logger.Info("headerstamp_headers file not readable", "filePath", args.FilePath, "error", err)
		return errorResult(fmt.Sprintf("Cannot read file: %s", args.FilePath)), nil, nil
	}
	if language.IsBinaryContent(data) {
		return errorResult(fmt.Sprintf("Binary file: %s", args.FilePath)), nil, nil
	}

	fields := header.Parse(string(data))
	h.Logger.Info("headerstamp_headers", "filePath", args.FilePath, "empty", fields.Empty())

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatFields(filepath.ToSlash(args.FilePath), fields)}},
	}, nil, nil
}

// resolve maps a path relative to the root to an absolute path, refusing
// anything that would leave the root.
func (h *HeadersHandler) resolve(relativePath string) (string, error) {
	absolutePath := filepath.Join(h.RootDir, filepath.FromSlash(relativePath))
	rel, err := filepath.Rel(h.RootDir, absolutePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside the project root: %s", relativePath)
	}
	return absolutePath, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
