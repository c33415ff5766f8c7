package schema

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Source names the origin of an addon configuration document.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind tells a Loader how to read a Source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// fsPrefix marks locations served from LoaderOptions.FileSystem.
const fsPrefix = "fs:"

type location struct {
	kind  SourceKind
	value string
}

func (l location) Kind() SourceKind { return l.kind }
func (l location) Location() string { return l.value }

// SourceFromFile points at a document on disk.
func SourceFromFile(path string) Source {
	return location{kind: SourceKindFile, value: filepath.Clean(path)}
}

// ParseSource turns a configured schema location into a Source. Locations
// starting with http:// or https:// are fetched over HTTP, "fs:name" reads
// name from the loader's fs.FS and anything else is a file path. Blank or
// malformed input yields nil.
func ParseSource(raw string) Source {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return nil
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		u, err := url.ParseRequestURI(value)
		if err != nil || u.Host == "" {
			return nil
		}
		return location{kind: SourceKindURL, value: value}
	case strings.HasPrefix(value, fsPrefix):
		name := strings.TrimPrefix(value, fsPrefix)
		if name == "" {
			return nil
		}
		return location{kind: SourceKindFS, value: name}
	}
	return SourceFromFile(value)
}
