package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lexandro/headerstamp/config"
)

func executeRoot(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func Test_RootCommand_RevisesTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), taggedC+"/* @author: $author$ */\n")
	writeFile(t, filepath.Join(root, "docs", "README.md"), "<!-- @version: 0 -->\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "@version: 0\n")

	err := executeRoot(t, "-P", root, "-U", "2.0", "-A", "alice", "--log-level", "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := readFile(t, filepath.Join(root, "a.c"))
	for _, want := range []string{"@file: a.c", "@version: 2.0", "@author: alice"} {
		if !strings.Contains(c, want) {
			t.Errorf("expected %q in a.c, got:\n%s", want, c)
		}
	}
	if !strings.Contains(readFile(t, filepath.Join(root, "docs", "README.md")), "@version: 2.0") {
		t.Error("expected README.md to be revised")
	}
	if readFile(t, filepath.Join(root, "notes.txt")) != "@version: 0\n" {
		t.Error("expected notes.txt to be left alone")
	}
}

func Test_RootCommand_NonRecursiveFlag(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "deep.c"), taggedC)

	if err := executeRoot(t, "-P", root, "-U", "2.0", "--recursive=false", "--log-level", "error"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(readFile(t, filepath.Join(root, "sub", "deep.c")), "2.0") {
		t.Error("expected sub/deep.c to be left alone")
	}
}

func Test_RootCommand_ConfigFileAndFlagPrecedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), "version: \"3.0\"\nauthor: bob\nfilter: python\nexclude:\n  - \"gen/**\"\n")
	writeFile(t, filepath.Join(root, "a.py"), "# @version: 0\n# @author: $author$\n")
	writeFile(t, filepath.Join(root, "gen", "b.py"), "# @version: 0\n")
	writeFile(t, filepath.Join(root, "c.c"), taggedC)

	if err := executeRoot(t, "-P", root, "-A", "carol", "--log-level", "error"); err != nil {
		t.Fatal(err)
	}

	py := readFile(t, filepath.Join(root, "a.py"))
	if !strings.Contains(py, "@version: 3.0") {
		t.Errorf("expected version from the config file, got:\n%s", py)
	}
	if !strings.Contains(py, "@author: carol") {
		t.Errorf("expected the author flag to win over the config file, got:\n%s", py)
	}
	if strings.Contains(readFile(t, filepath.Join(root, "gen", "b.py")), "3.0") {
		t.Error("expected gen/b.py to be excluded")
	}
	if strings.Contains(readFile(t, filepath.Join(root, "c.c")), "3.0") {
		t.Error("expected c.c to be filtered out")
	}
}

func Test_RootCommand_MissingPath(t *testing.T) {
	err := executeRoot(t, "--log-level", "error")

	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exitError, got %v", err)
	}
	if exitErr.code != -1 {
		t.Errorf("expected exit code -1, got %d", exitErr.code)
	}
}

func Test_RootCommand_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), "exclude:\n  - \"[\"\n")

	err := executeRoot(t, "-P", root, "--log-level", "error")

	var exitErr *exitError
	if !errors.As(err, &exitErr) || exitErr.code != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
}

func Test_RootCommand_NonexistentRootCompletes(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	if err := executeRoot(t, "-P", root, "--log-level", "error"); err != nil {
		t.Fatalf("expected completion with logged errors, got %v", err)
	}
}

func Test_resolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cwd, _ := os.Getwd()

	tests := []struct {
		input string
		want  string
	}{
		{"~", home},
		{"~/src", filepath.Join(home, "src")},
		{"rel/dir", filepath.Join(cwd, "rel", "dir")},
		{"/abs/dir", filepath.Clean("/abs/dir")},
		{"~user", filepath.Join(cwd, "~user")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := resolvePath(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("resolvePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func Test_parseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
