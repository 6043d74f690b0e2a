package tools

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexandro/headerstamp/header"
	"github.com/lexandro/headerstamp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const testRoot = "/test/project"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) *index.HeaderIndex {
	t.Helper()
	ledger, err := index.NewHeaderIndex(testRoot)
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func record(t *testing.T, ledger *index.HeaderIndex, relPath, lang string, fields header.Fields) {
	t.Helper()
	rev := header.Revision{
		Path:     filepath.Join(testRoot, filepath.FromSlash(relPath)),
		Name:     filepath.Base(relPath),
		Language: lang,
		Changed:  true,
		Fields:   fields,
	}
	if err := ledger.RecordRevision("run-1", time.Now(), rev); err != nil {
		t.Fatalf("failed to record %s: %v", relPath, err)
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(*mcp.TextContent).Text
}
