package header

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/djherbis/times"
)

// FileEntry is the filesystem metadata of one file, read fresh per visit.
type FileEntry struct {
	Path     string
	Name     string
	Mode     fs.FileMode
	Created  time.Time
	Modified time.Time
	Accessed time.Time
}

// NewFileEntry builds an entry from an already obtained stat record.
// Created is the birth time where the platform records one and the inode
// change time otherwise.
func NewFileEntry(path string, info fs.FileInfo) FileEntry {
	ts := times.Get(info)
	created := ts.ModTime()
	switch {
	case ts.HasBirthTime():
		created = ts.BirthTime()
	case ts.HasChangeTime():
		created = ts.ChangeTime()
	}
	return FileEntry{
		Path:     path,
		Name:     filepath.Base(path),
		Mode:     info.Mode(),
		Created:  created,
		Modified: ts.ModTime(),
		Accessed: ts.AccessTime(),
	}
}

// Stat reads the entry for path.
func Stat(path string) (FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return NewFileEntry(path, info), nil
}

// Stamp returns the stamp for this file with the given version and author.
func (e FileEntry) Stamp(version, author string) Stamp {
	return Stamp{
		File:    e.Name,
		Created: e.Created.Local().Format(TimeFormat),
		Version: version,
		Updated: e.Modified.Local().Format(TimeFormat),
		Author:  author,
	}
}
