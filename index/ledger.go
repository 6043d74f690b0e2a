package index

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/lexandro/headerstamp/header"
)

// Record is the ledger entry of one revised file: the tag values it carried
// after its most recent revision.
type Record struct {
	Path         string    `json:"path"`
	RelativePath string    `json:"relativePath"`
	Language     string    `json:"language"`
	File         string    `json:"file,omitempty"`
	Version      string    `json:"version,omitempty"`
	Author       string    `json:"author,omitempty"`
	Created      string    `json:"created,omitempty"`
	Updated      string    `json:"updated,omitempty"`
	RunID        string    `json:"runId"`
	RevisedAt    time.Time `json:"revisedAt"`
	Changed      bool      `json:"changed"`
}

// HeaderIndex is an in-memory Bleve index of Records keyed by relative path.
type HeaderIndex struct {
	mu      sync.RWMutex
	rootDir string
	index   bleve.Index
	records map[string]*Record
}

// NewHeaderIndex creates an empty ledger for files under rootDir.
func NewHeaderIndex(rootDir string) (*HeaderIndex, error) {
	bleveIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return &HeaderIndex{
		rootDir: rootDir,
		index:   bleveIndex,
		records: make(map[string]*Record),
	}, nil
}

// bleveDocument is the document structure stored in Bleve.
type bleveDocument struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	File     string `json:"file"`
	Version  string `json:"version"`
	Author   string `json:"author"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
	Run      string `json:"run"`
}

// buildIndexMapping indexes the path as text and every tag value as a keyword,
// so "author:alice" or "version:2.0.0" match exactly.
func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	pathFieldMapping := bleve.NewTextFieldMapping()
	pathFieldMapping.Store = true
	pathFieldMapping.IncludeInAll = true
	docMapping.AddFieldMappingsAt("path", pathFieldMapping)

	for _, name := range []string{"language", "file", "version", "author", "created", "updated", "run"} {
		keyword := bleve.NewKeywordFieldMapping()
		keyword.Store = false
		keyword.IncludeInAll = true
		docMapping.AddFieldMappingsAt(name, keyword)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// RecordRevision adds or replaces the ledger entry for rev.
func (hi *HeaderIndex) RecordRevision(runID string, at time.Time, rev header.Revision) error {
	relativePath, err := filepath.Rel(hi.rootDir, rev.Path)
	if err != nil || strings.HasPrefix(relativePath, "..") {
		relativePath = rev.Path
	}
	relativePath = filepath.ToSlash(relativePath)

	record := &Record{
		Path:         rev.Path,
		RelativePath: relativePath,
		Language:     rev.Language,
		File:         rev.Fields.File,
		Version:      rev.Fields.Version,
		Author:       rev.Fields.Author,
		Created:      rev.Fields.Create,
		Updated:      rev.Fields.Update,
		RunID:        runID,
		RevisedAt:    at,
		Changed:      rev.Changed,
	}

	hi.mu.Lock()
	defer hi.mu.Unlock()

	hi.records[relativePath] = record
	doc := bleveDocument{
		Path:     relativePath,
		Language: record.Language,
		File:     record.File,
		Version:  record.Version,
		Author:   record.Author,
		Created:  record.Created,
		Updated:  record.Updated,
		Run:      runID,
	}
	if err := hi.index.Index(relativePath, doc); err != nil {
		return fmt.Errorf("indexing %s: %w", relativePath, err)
	}
	return nil
}

// RemoveFile drops a file from the ledger.
func (hi *HeaderIndex) RemoveFile(relativePath string) error {
	hi.mu.Lock()
	defer hi.mu.Unlock()

	delete(hi.records, relativePath)
	if err := hi.index.Delete(relativePath); err != nil {
		return fmt.Errorf("removing %s from index: %w", relativePath, err)
	}
	return nil
}

// Search runs a Bleve query-string query over the ledger and returns the
// matching records sorted by relative path, plus the total hit count.
// An empty query matches every record.
func (hi *HeaderIndex) Search(queryString string, maxResults int) ([]*Record, int, error) {
	hi.mu.RLock()
	defer hi.mu.RUnlock()

	if maxResults <= 0 {
		maxResults = 50
	}

	searchRequest := bleve.NewSearchRequest(buildQuery(queryString))
	searchRequest.Size = maxResults
	searchRequest.SortBy([]string{"_id"})

	searchResults, err := hi.index.Search(searchRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("searching index: %w", err)
	}

	results := make([]*Record, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		if record, ok := hi.records[hit.ID]; ok {
			results = append(results, record)
		}
	}
	return results, int(searchResults.Total), nil
}

func buildQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)
	if queryString == "" {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewQueryStringQuery(queryString)
}

// Get returns the record for a relative path, or nil.
func (hi *HeaderIndex) Get(relativePath string) *Record {
	hi.mu.RLock()
	defer hi.mu.RUnlock()
	return hi.records[filepath.ToSlash(relativePath)]
}

// Count returns the number of files in the ledger.
func (hi *HeaderIndex) Count() int {
	hi.mu.RLock()
	defer hi.mu.RUnlock()
	return len(hi.records)
}

// DocumentCount returns the number of documents in the Bleve index.
func (hi *HeaderIndex) DocumentCount() uint64 {
	hi.mu.RLock()
	defer hi.mu.RUnlock()
	count, _ := hi.index.DocCount()
	return count
}

// LanguageCounts returns a map of language -> file count.
func (hi *HeaderIndex) LanguageCounts() map[string]int {
	hi.mu.RLock()
	defer hi.mu.RUnlock()

	counts := make(map[string]int)
	for _, record := range hi.records {
		counts[record.Language]++
	}
	return counts
}

// Paths returns every relative path in the ledger, sorted.
func (hi *HeaderIndex) Paths() []string {
	hi.mu.RLock()
	defer hi.mu.RUnlock()

	paths := make([]string, 0, len(hi.records))
	for p := range hi.records {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Close closes the Bleve index.
func (hi *HeaderIndex) Close() error {
	hi.mu.Lock()
	defer hi.mu.Unlock()
	return hi.index.Close()
}
