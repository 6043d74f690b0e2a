package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lexandro/headerstamp/header"
)

func newTestIndex(t *testing.T, root string) *HeaderIndex {
	t.Helper()
	hi, err := NewHeaderIndex(root)
	if err != nil {
		t.Fatalf("failed to create header index: %v", err)
	}
	t.Cleanup(func() { hi.Close() })
	return hi
}

func revision(root, rel, lang, version, author string) header.Revision {
	return header.Revision{
		Path:     filepath.Join(root, filepath.FromSlash(rel)),
		Name:     filepath.Base(rel),
		Language: lang,
		Changed:  true,
		Fields: header.Fields{
			File:    filepath.Base(rel),
			Version: version,
			Author:  author,
			Create:  "2018-05-18 14:00:00",
			Update:  "2018-08-10 18:40:50",
		},
	}
}

func seed(t *testing.T, hi *HeaderIndex, root string) {
	t.Helper()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	revs := []header.Revision{
		revision(root, "src/server.c", "C", "2.0.0", "alice"),
		revision(root, "src/client.c", "C", "2.0.0", "bob"),
		revision(root, "tools/revise.py", "Python", "1.0.0", "alice"),
	}
	for _, rev := range revs {
		if err := hi.RecordRevision("run-1", at, rev); err != nil {
			t.Fatal(err)
		}
	}
}

func Test_HeaderIndex_RecordAndGet(t *testing.T) {
	root := "/project"
	hi := newTestIndex(t, root)
	seed(t, hi, root)

	record := hi.Get("src/server.c")
	if record == nil {
		t.Fatal("expected record for src/server.c")
	}
	if record.Author != "alice" || record.Version != "2.0.0" || record.RunID != "run-1" {
		t.Errorf("unexpected record %+v", record)
	}
	if hi.Count() != 3 || hi.DocumentCount() != 3 {
		t.Errorf("expected 3 records, got %d/%d", hi.Count(), hi.DocumentCount())
	}
}

func Test_HeaderIndex_SearchByField(t *testing.T) {
	root := "/project"
	hi := newTestIndex(t, root)
	seed(t, hi, root)

	tests := []struct {
		query string
		want  []string
	}{
		{"author:alice", []string{"src/server.c", "tools/revise.py"}},
		{`version:"2.0.0"`, []string{"src/client.c", "src/server.c"}},
		{"language:Python", []string{"tools/revise.py"}},
		{"", []string{"src/client.c", "src/server.c", "tools/revise.py"}},
	}
	for _, tt := range tests {
		results, total, err := hi.Search(tt.query, 10)
		if err != nil {
			t.Fatalf("Search(%q) error: %v", tt.query, err)
		}
		var got []string
		for _, r := range results {
			got = append(got, r.RelativePath)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
		if total != len(tt.want) {
			t.Errorf("Search(%q) total = %d, want %d", tt.query, total, len(tt.want))
		}
	}
}

func Test_HeaderIndex_ReplaceAndRemove(t *testing.T) {
	root := "/project"
	hi := newTestIndex(t, root)
	seed(t, hi, root)

	if err := hi.RecordRevision("run-2", time.Now(), revision(root, "src/server.c", "C", "2.0.1", "alice")); err != nil {
		t.Fatal(err)
	}
	if got := hi.Get("src/server.c"); got.Version != "2.0.1" || got.RunID != "run-2" {
		t.Errorf("expected replaced record, got %+v", got)
	}
	if hi.Count() != 3 {
		t.Errorf("expected 3 records after replace, got %d", hi.Count())
	}

	if err := hi.RemoveFile("src/server.c"); err != nil {
		t.Fatal(err)
	}
	if hi.Get("src/server.c") != nil {
		t.Error("expected nil after removal")
	}
	results, _, err := hi.Search("author:alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].RelativePath != "tools/revise.py" {
		t.Errorf("expected only tools/revise.py, got %v", results)
	}
}

func Test_HeaderIndex_LanguageCountsAndPaths(t *testing.T) {
	root := "/project"
	hi := newTestIndex(t, root)
	seed(t, hi, root)

	want := map[string]int{"C": 2, "Python": 1}
	if diff := cmp.Diff(want, hi.LanguageCounts()); diff != "" {
		t.Errorf("LanguageCounts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"src/client.c", "src/server.c", "tools/revise.py"}, hi.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
}
