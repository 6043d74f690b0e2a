// Package filter turns a user filter expression into the ordered set of file
// extensions a run revises.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/lexandro/headerstamp/language"
)

// DefaultExpression is the filter used when none is given.
const DefaultExpression = ".md,java,c,cpp,python,php,shell,bash,sh"

// Spec is an ordered, deduplicated set of extensions. It is read-only after Build.
type Spec struct {
	exts     []string
	set      map[string]struct{}
	rejected []string
}

// Build expands expr against groups. Tokens starting with "." are literal
// extensions; other tokens are group names. Unknown tokens are ignored and
// reported by Rejected.
func Build(expr string, groups map[string][]string) *Spec {
	s := &Spec{set: make(map[string]struct{})}
	for _, token := range ParseList(expr) {
		known := false
		if strings.HasPrefix(token, ".") {
			s.add(token)
			known = true
		}
		if exts, ok := groups[token]; ok {
			for _, ext := range exts {
				s.add(ext)
			}
			known = true
		}
		if !known {
			s.rejected = append(s.rejected, token)
		}
	}
	return s
}

// BuildDefault expands expr against the built-in language groups.
func BuildDefault(expr string) *Spec {
	return Build(expr, language.Groups)
}

func (s *Spec) add(ext string) {
	if _, ok := s.set[ext]; ok {
		return
	}
	s.set[ext] = struct{}{}
	s.exts = append(s.exts, ext)
}

// Extensions returns the extensions in insertion order.
func (s *Spec) Extensions() []string {
	return append([]string(nil), s.exts...)
}

// Rejected returns the tokens that were neither an extension nor a known group.
func (s *Spec) Rejected() []string {
	return append([]string(nil), s.rejected...)
}

// Contains reports whether ext is part of the spec.
func (s *Spec) Contains(ext string) bool {
	_, ok := s.set[ext]
	return ok
}

// Matches reports whether the trailing extension of name is part of the spec.
func (s *Spec) Matches(name string) bool {
	ext := Ext(name)
	return ext != "" && s.Contains(ext)
}

// Ext returns the trailing extension of a base name. Leading dots do not
// start an extension, so ".py" and ".gitignore" have none.
func Ext(name string) string {
	return filepath.Ext(strings.TrimLeft(name, "."))
}

// Len returns the number of extensions.
func (s *Spec) Len() int { return len(s.exts) }

// String returns the extensions joined by commas.
func (s *Spec) String() string { return strings.Join(s.exts, ",") }

// ParseList splits a comma-separated list, trimming spaces and single quotes
// and dropping empty items.
func ParseList(list string) []string {
	var items []string
	for _, raw := range strings.Split(list, ",") {
		item := strings.Trim(raw, " '")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
