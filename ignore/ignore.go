package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides whether a directory or file is excluded from a run.
// Base-name sets are checked first, then exclude globs, then the root
// .gitignore when enabled.
// Thread-safe: Reload() acquires a write lock, the Should* methods a read lock.
type Matcher struct {
	mu           sync.RWMutex
	rootDir      string
	ignoredDirs  map[string]struct{}
	ignoredFiles map[string]struct{}
	patterns     []string
	useGitignore bool
	gitIgnore    gitignore.GitIgnore
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir string
	// IgnoredDirs and IgnoredFiles extend the defaults.
	IgnoredDirs     []string
	IgnoredFiles    []string
	ExcludePatterns []string
	UseGitignore    bool
}

// NewMatcher creates a matcher rooted at options.RootDir.
func NewMatcher(options MatcherOptions) *Matcher {
	m := &Matcher{
		rootDir:      options.RootDir,
		ignoredDirs:  toSet(DefaultIgnoredDirs, options.IgnoredDirs),
		ignoredFiles: toSet(DefaultIgnoredFiles, options.IgnoredFiles),
		useGitignore: options.UseGitignore,
	}
	for _, p := range options.ExcludePatterns {
		m.patterns = append(m.patterns, filepath.ToSlash(p))
	}
	if m.useGitignore {
		m.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	}
	return m
}

// ValidatePatterns returns an error for the first malformed exclude glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("invalid exclude pattern: %s", p)
		}
	}
	return nil
}

// ShouldIgnoreDir reports whether the directory at absolutePath must not be descended into.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	if _, ok := m.ignoredDirs[filepath.Base(absolutePath)]; ok {
		return true
	}
	return m.matchesRules(absolutePath, true)
}

// ShouldIgnoreFile reports whether the file at absolutePath must not be revised.
func (m *Matcher) ShouldIgnoreFile(absolutePath string) bool {
	if _, ok := m.ignoredFiles[filepath.Base(absolutePath)]; ok {
		return true
	}
	return m.matchesRules(absolutePath, false)
}

// UsesGitignore reports whether the root .gitignore is honored.
func (m *Matcher) UsesGitignore() bool { return m.useGitignore }

func (m *Matcher) matchesRules(absolutePath string, isDir bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil || strings.HasPrefix(relativePath, "..") {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	if m.matchesPatterns(relativePath) {
		return true
	}

	if m.gitIgnore != nil {
		match := m.gitIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// matchesPatterns checks the exclude globs against the relative path and the base name.
func (m *Matcher) matchesPatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.patterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// Reload re-reads the root .gitignore. It is a no-op when gitignore support is off.
func (m *Matcher) Reload() {
	if !m.useGitignore {
		return
	}
	gi := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = gi
}

func toSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, name := range list {
			set[name] = struct{}{}
		}
	}
	return set
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses an io.Reader so the file handle is closed before returning.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
