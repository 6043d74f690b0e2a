package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/lexandro/headerstamp/index"
	"github.com/lexandro/headerstamp/walker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the headerstamp_status tool (none required).
type StatusArgs struct{}

// RunSummary describes the most recent completed run.
type RunSummary struct {
	RunID    string
	Finished time.Time
	Result   walker.Result
}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Ledger    *index.HeaderIndex
	LastRun   func() (RunSummary, bool)
	StartTime time.Time
	RootDir   string
	Filter    string
	Logger    *slog.Logger
}

// Handle processes a headerstamp_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	fileCount := h.Ledger.Count()
	langCounts := h.Ledger.LanguageCounts()
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("headerstamp_status",
		"files", fileCount,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString("=== headerstamp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Filter: %s\n", h.Filter))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Revised files: %d\n", fileCount))
	builder.WriteString(fmt.Sprintf("Memory usage: %s\n", formatFileSize(int64(memStats.Alloc))))

	if h.LastRun != nil {
		if last, ok := h.LastRun(); ok {
			builder.WriteString(fmt.Sprintf("\nLast run %s (%s ago):\n  %s\n",
				last.RunID,
				formatDuration(time.Since(last.Finished)),
				FormatResult(last.Result),
			))
		} else {
			builder.WriteString("\nNo run completed yet.\n")
		}
	}

	if len(langCounts) > 0 {
		builder.WriteString("\nLanguages:\n")

		type langEntry struct {
			lang  string
			count int
		}
		entries := make([]langEntry, 0, len(langCounts))
		for lang, count := range langCounts {
			entries = append(entries, langEntry{lang, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].lang < entries[j].lang
		})

		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.lang, entry.count))
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
