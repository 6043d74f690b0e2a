package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/headerstamp/header"
	"github.com/lexandro/headerstamp/walker"
)

// --- formatDuration ---

func Test_FormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Seconds_zero", 0, "0s"},
		{"Seconds_30", 30 * time.Second, "30s"},
		{"Seconds_59", 59 * time.Second, "59s"},
		{"Minutes_1m0s", 60 * time.Second, "1m0s"},
		{"Minutes_5m30s", 5*time.Minute + 30*time.Second, "5m30s"},
		{"Hours_1h30m", 90 * time.Minute, "1h30m"},
		{"Hours_2h0m", 2 * time.Hour, "2h0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

// --- formatFileSize ---

func Test_FormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{500, "500 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatFileSize(tt.bytes); got != tt.expected {
			t.Errorf("formatFileSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

// --- StatusHandler ---

func Test_StatusHandler_Handle(t *testing.T) {
	ledger := newTestLedger(t)
	record(t, ledger, "main.c", "C", header.Fields{File: "main.c"})
	record(t, ledger, "util.c", "C", header.Fields{File: "util.c"})
	record(t, ledger, "tool.py", "Python", header.Fields{File: "tool.py"})

	h := &StatusHandler{
		Ledger: ledger,
		LastRun: func() (RunSummary, bool) {
			return RunSummary{
				RunID:    "run-1",
				Finished: time.Now(),
				Result:   walker.Result{Revised: 3, Unchanged: 1},
			}, true
		},
		StartTime: time.Now(),
		RootDir:   testRoot,
		Filter:    ".c,.py",
		Logger:    testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	checks := []string{
		"headerstamp Status",
		testRoot,
		"Filter: .c,.py",
		"Revised files: 3",
		"Last run run-1",
		"revised: 3 files",
		"Python",
	}
	for _, check := range checks {
		if !strings.Contains(text, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, text)
		}
	}
	if strings.Index(text, "C  ") > strings.Index(text, "Python") {
		t.Errorf("expected languages sorted by count, got:\n%s", text)
	}
}

func Test_StatusHandler_NoRunYet(t *testing.T) {
	h := &StatusHandler{
		Ledger:    newTestLedger(t),
		LastRun:   func() (RunSummary, bool) { return RunSummary{}, false },
		StartTime: time.Now(),
		RootDir:   testRoot,
		Logger:    testLogger(),
	}

	result, _, _ := h.Handle(context.Background(), nil, StatusArgs{})
	if text := resultText(t, result); !strings.Contains(text, "No run completed yet.") {
		t.Errorf("expected no-run message, got:\n%s", text)
	}
}
