package manifest

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Source identifies where a template document lives so the store can read
// from a directory or an embedded fs.FS without leaking the difference.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the store modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing at an on-disk template.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	fsys fs.FS
	name string
}

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

// SourceFromFS returns a Source identifying a template inside an fs.FS.
func SourceFromFS(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}

func readSource(src Source) ([]byte, error) {
	switch s := src.(type) {
	case fileSource:
		return os.ReadFile(s.path)
	case fsSource:
		return fs.ReadFile(s.fsys, s.name)
	default:
		return os.ReadFile(src.Location())
	}
}
