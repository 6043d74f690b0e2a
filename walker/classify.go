package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Action is the decision taken for one directory entry before anything is modified.
type Action int

const (
	// Process means the entry is a file to revise.
	Process Action = iota
	// Descend means the entry is a directory to walk into.
	Descend
	SkipDirectory
	SkipFile
	// SkipOther covers symlinks, devices, sockets and pipes.
	SkipOther
)

func (a Action) String() string {
	switch a {
	case Process:
		return "process"
	case Descend:
		return "descend"
	case SkipDirectory:
		return "skip-directory"
	case SkipFile:
		return "skip-file"
	case SkipOther:
		return "skip-other"
	}
	return "unknown"
}

// IgnoreChecker decides exclusions by path.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnoreFile(absolutePath string) bool
}

// Classify decides what to do with the entry at path. info must come from
// an lstat of path so that symlinks are seen as such.
func (w *Walker) Classify(path string, info fs.FileInfo) Action {
	mode := info.Mode()
	switch {
	case mode.IsDir():
		if w.matcher.ShouldIgnoreDir(path) {
			return SkipDirectory
		}
		if !w.config.Recursive {
			return SkipDirectory
		}
		return Descend
	case mode.IsRegular():
		name := filepath.Base(path)
		if w.matcher.ShouldIgnoreFile(path) {
			return SkipFile
		}
		if _, err := os.Stat(path); err != nil {
			// removed since it was listed
			return SkipFile
		}
		if w.config.SelfPath != "" && path == w.config.SelfPath {
			return SkipFile
		}
		if slices.Contains(w.config.ReservedNames, name) {
			return SkipFile
		}
		if !w.config.Filter.Matches(name) {
			return SkipFile
		}
		return Process
	default:
		return SkipOther
	}
}
