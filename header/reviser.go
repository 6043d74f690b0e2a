package header

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/lexandro/headerstamp/language"
	"github.com/natefinch/atomic"
)

// ErrBinary is returned for files whose content looks binary.
var ErrBinary = errors.New("binary content")

// Reviser stamps version and author into files.
type Reviser struct {
	Version string
	Author  string
}

// Revision describes one revised file.
type Revision struct {
	Path     string
	Name     string
	Language string
	// Changed is false when the rewrite produced identical content and the
	// file was left alone.
	Changed bool
	Fields  Fields
}

// Revise rewrites the tag lines of the file described by entry, then puts
// the access and modification times captured in entry back in place.
// The new content replaces the file atomically.
func (r *Reviser) Revise(entry FileEntry) (Revision, error) {
	rev := Revision{
		Path:     entry.Path,
		Name:     entry.Name,
		Language: language.DetectLanguage(entry.Path),
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return rev, fmt.Errorf("reading file: %w", err)
	}
	if language.IsBinaryContent(data) {
		return rev, ErrBinary
	}

	out := []byte(Rewrite(string(data), entry.Stamp(r.Version, r.Author)))
	rev.Fields = Parse(string(out))

	if !bytes.Equal(out, data) {
		if err := atomic.WriteFile(entry.Path, bytes.NewReader(out)); err != nil {
			return rev, fmt.Errorf("replacing file: %w", err)
		}
		if err := os.Chmod(entry.Path, entry.Mode.Perm()); err != nil {
			return rev, fmt.Errorf("restoring mode: %w", err)
		}
		rev.Changed = true
	}

	if err := os.Chtimes(entry.Path, entry.Accessed, entry.Modified); err != nil {
		return rev, fmt.Errorf("restoring times: %w", err)
	}
	return rev, nil
}
