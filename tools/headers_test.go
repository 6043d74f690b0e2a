package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestHeadersHandler(t *testing.T) *HeadersHandler {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"main.c": "/*\n * @file: main.c\n * @create: 2024-01-02 03:04:05\n * @version: 1.2\n" +
			" * @update: 2024-02-03 04:05:06\n * @author: $author$\n */\n",
		"plain.c": "int x;\n",
		"blob.c":  "ab\x00cd",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return &HeadersHandler{RootDir: root, Logger: testLogger()}
}

func Test_HeadersHandler_ListsTags(t *testing.T) {
	h := newTestHeadersHandler(t)

	result, _, err := h.Handle(context.Background(), nil, HeadersArgs{FilePath: "main.c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{"main.c", "2024-01-02 03:04:05", "1.2", "$author$ (not yet stamped)"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output, got:\n%s", want, text)
		}
	}
}

func Test_HeadersHandler_NoTags(t *testing.T) {
	h := newTestHeadersHandler(t)

	result, _, _ := h.Handle(context.Background(), nil, HeadersArgs{FilePath: "plain.c"})
	if text := resultText(t, result); !strings.Contains(text, "no header tags") {
		t.Errorf("expected no header tags message, got:\n%s", text)
	}
}

func Test_HeadersHandler_Errors(t *testing.T) {
	h := newTestHeadersHandler(t)

	tests := []struct {
		name     string
		filePath string
		want     string
	}{
		{"EmptyPath", "", "filePath parameter is required"},
		{"Missing", "nope.c", "Cannot read file"},
		{"Binary", "blob.c", "Binary file"},
		{"OutsideRoot", "../etc/passwd", "outside the project root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := h.Handle(context.Background(), nil, HeadersArgs{FilePath: tt.filePath})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected IsError=true")
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q, got: %s", tt.want, text)
			}
		})
	}
}
