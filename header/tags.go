// Package header rewrites the metadata tag lines found in source file headers.
//
// A tag line holds one marker such as "@version:" somewhere on the line,
// usually after a comment leader:
//
//	 * @file: server.c
//	 * @author: $author$
//	 * @version: 0.4.1
//	 * @create: $create$
//	 * @update: 2018-11-03 11:06:04
//
// Always-overwrite tags are rewritten on every run. Write-once tags are only
// rewritten while they still hold their placeholder.
package header

import "strings"

// TimeFormat is the layout of every timestamp stamped into a header.
const TimeFormat = "2006-01-02 15:04:05"

// Tag is a named metadata marker and its rewrite rule.
type Tag struct {
	Name   string
	Marker string
	// Placeholder is non-empty for write-once tags.
	Placeholder string
}

var (
	TagFile    = Tag{Name: "file", Marker: "@file:"}
	TagCreate  = Tag{Name: "create", Marker: "@create:", Placeholder: "$create$"}
	TagVersion = Tag{Name: "version", Marker: "@version:"}
	TagUpdate  = Tag{Name: "update", Marker: "@update:"}
	TagAuthor  = Tag{Name: "author", Marker: "@author:", Placeholder: "$author$"}
)

// Tags lists every tag in rewrite order.
var Tags = []Tag{TagFile, TagCreate, TagVersion, TagUpdate, TagAuthor}

// WriteOnce reports whether the tag is only filled while its placeholder is present.
func (t Tag) WriteOnce() bool { return t.Placeholder != "" }

// pattern is the text a line must contain for the rule to fire.
func (t Tag) pattern() string {
	if t.WriteOnce() {
		return t.Marker + " " + t.Placeholder
	}
	return t.Marker
}

// rewriteLine replaces everything from the first match of the tag's pattern
// to the end of the line. The text before the marker is kept.
func (t Tag) rewriteLine(line, value string) (string, bool) {
	idx := strings.Index(line, t.pattern())
	if idx < 0 {
		return line, false
	}
	return line[:idx] + t.Marker + " " + value, true
}

// Stamp holds the values written into one file.
// An empty Author disables the author rule.
type Stamp struct {
	File    string
	Created string
	Version string
	Updated string
	Author  string
}

type rule struct {
	tag   Tag
	value string
}

func (s Stamp) rules() []rule {
	rules := []rule{
		{TagFile, s.File},
		{TagCreate, s.Created},
		{TagVersion, s.Version},
		{TagUpdate, s.Updated},
	}
	if s.Author != "" {
		rules = append(rules, rule{TagAuthor, s.Author})
	}
	return rules
}

// Rewrite applies the stamp to content and strips trailing blanks from every
// line. Each rule scans all lines in turn. Line endings, including CRLF, and
// a missing final newline are preserved.
func Rewrite(content string, stamp Stamp) string {
	lines := strings.Split(content, "\n")
	bodies := make([]string, len(lines))
	crs := make([]bool, len(lines))
	for i, line := range lines {
		bodies[i], crs[i] = strings.CutSuffix(line, "\r")
	}

	for _, r := range stamp.rules() {
		for i, body := range bodies {
			if rewritten, ok := r.tag.rewriteLine(body, r.value); ok {
				bodies[i] = rewritten
			}
		}
	}

	for i, body := range bodies {
		body = strings.TrimRight(body, " \t")
		if crs[i] {
			body += "\r"
		}
		lines[i] = body
	}
	return strings.Join(lines, "\n")
}

// Fields holds the current value of every tag found in a file.
// A tag that is absent has an empty value.
type Fields struct {
	File    string `json:"file,omitempty"`
	Create  string `json:"create,omitempty"`
	Version string `json:"version,omitempty"`
	Update  string `json:"update,omitempty"`
	Author  string `json:"author,omitempty"`
}

// Parse returns the value following the first occurrence of every marker.
func Parse(content string) Fields {
	var f Fields
	targets := map[string]*string{
		TagFile.Marker:    &f.File,
		TagCreate.Marker:  &f.Create,
		TagVersion.Marker: &f.Version,
		TagUpdate.Marker:  &f.Update,
		TagAuthor.Marker:  &f.Author,
	}
	found := make(map[string]bool, len(targets))
	for _, line := range strings.Split(content, "\n") {
		for marker, dst := range targets {
			if found[marker] {
				continue
			}
			if _, after, ok := strings.Cut(line, marker); ok {
				*dst = strings.TrimSpace(after)
				found[marker] = true
			}
		}
	}
	return f
}

// Pending reports whether a write-once field still holds its placeholder.
func (f Fields) Pending(t Tag) bool {
	if !t.WriteOnce() {
		return false
	}
	switch t {
	case TagCreate:
		return strings.HasPrefix(f.Create, t.Placeholder)
	case TagAuthor:
		return strings.HasPrefix(f.Author, t.Placeholder)
	}
	return false
}

// Empty reports whether no tag was found.
func (f Fields) Empty() bool { return f == Fields{} }
