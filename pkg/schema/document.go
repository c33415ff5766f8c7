package schema

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// Format names the syntax of a configuration document.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatHCL     Format = "hcl"
	FormatOpenAPI Format = "openapi"
)

var (
	// ErrEmptyDocument is returned for documents without content.
	ErrEmptyDocument = errors.New("schema: raw document is empty")
	// ErrUnsupportedFormat is returned when no decoder handles a format.
	ErrUnsupportedFormat = errors.New("schema: unsupported document format")
)

// Document wraps a raw configuration payload and its origin.
type Document struct {
	source Source
	raw    []byte
	format Format
}

// NewDocument constructs a Document, deriving the format from the source
// location. Use WithFormat to override the guess.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, ErrEmptyDocument
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone, format: FormatFromLocation(src.Location())}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// WithFormat returns a copy of the document tagged with format.
func (d Document) WithFormat(format Format) Document {
	if format != "" {
		d.format = format
	}
	return d
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Format reports the document syntax.
func (d Document) Format() Format {
	return d.format
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// FormatFromLocation guesses a format from a file extension. JSON is assumed
// when the extension is unknown; OpenAPI documents are recognised by content
// during decoding.
func FormatFromLocation(location string) Format {
	location = strings.TrimSpace(location)
	if idx := strings.IndexAny(location, "?#"); idx >= 0 {
		location = location[:idx]
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	default:
		return FormatJSON
	}
}

// Loader fetches configuration documents.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures the built-in loader.
type LoaderOptions struct {
	// FileSystem serves SourceKindFS locations.
	FileSystem fs.FS
	// HTTPClient serves SourceKindURL locations. When nil and AllowHTTPFallback
	// is set, a client with RequestTimeout is created.
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}
