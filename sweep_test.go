package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/headerstamp/filter"
	"github.com/lexandro/headerstamp/ignore"
	"github.com/lexandro/headerstamp/index"
	"github.com/lexandro/headerstamp/language"
	"github.com/lexandro/headerstamp/walker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const taggedC = "/*\n * @file: old\n * @version: 0\n * @update: never\n */\nint x;\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func newTestRunner(t *testing.T, root string) *runner {
	t.Helper()
	ledger, err := index.NewHeaderIndex(root)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ledger.Close() })

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root, UseGitignore: true})
	base := walker.Config{
		Root:          root,
		Filter:        filter.BuildDefault(filter.DefaultExpression),
		Recursive:     true,
		Version:       "1.0",
		ReservedNames: walker.DefaultReservedNames,
	}
	return newRunner(base, language.MergeGroups(nil), matcher, ledger, testLogger())
}

func Test_performSweep_RevisesAndRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), taggedC)
	writeFile(t, filepath.Join(root, "sub", "b.c"), taggedC)
	r := newTestRunner(t, root)

	result, err := performSweep(context.Background(), r, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Walk.Revised != 2 {
		t.Errorf("expected 2 revised files, got %d", result.Walk.Revised)
	}
	if result.Stale != 0 {
		t.Errorf("expected 0 stale entries, got %d", result.Stale)
	}
	if r.ledger.Get("sub/b.c") == nil {
		t.Error("expected sub/b.c in the ledger")
	}
	if !strings.Contains(readFile(t, filepath.Join(root, "a.c")), "@version: 1.0") {
		t.Error("expected a.c to carry the new version")
	}
}

func Test_performSweep_RemovesStaleEntries(t *testing.T) {
	root := t.TempDir()
	gone := filepath.Join(root, "gone.c")
	writeFile(t, filepath.Join(root, "kept.c"), taggedC)
	writeFile(t, gone, taggedC)
	r := newTestRunner(t, root)

	if _, err := performSweep(context.Background(), r, testLogger()); err != nil {
		t.Fatal(err)
	}
	os.Remove(gone)

	result, err := performSweep(context.Background(), r, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if result.Stale != 1 {
		t.Errorf("expected 1 stale entry, got %d", result.Stale)
	}
	if r.ledger.Get("gone.c") != nil {
		t.Error("expected gone.c to be dropped from the ledger")
	}
	if result.Walk.Unchanged != 1 {
		t.Errorf("expected kept.c to be unchanged on the second sweep, got %d", result.Walk.Unchanged)
	}
}

func Test_performSweep_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), taggedC)
	r := newTestRunner(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := performSweep(ctx, r, testLogger()); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if strings.Contains(readFile(t, filepath.Join(root, "a.c")), "@version: 1.0") {
		t.Error("expected no revision after cancellation")
	}
}

func Test_runPeriodicSweep_StopsOnCancel(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runPeriodicSweep(ctx, 1, r, testLogger())
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runPeriodicSweep did not stop after cancel")
	}
}
