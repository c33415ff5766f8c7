// Package testsupport holds fixture and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addons/internal/entityfile"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/schema"
)

// LoadCatalog decodes the configuration document at path into a catalog,
// failing the test on error.
func LoadCatalog(t *testing.T, path string) schema.Catalog {
	t.Helper()

	catalog, err := LoadCatalogFromPath(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

// LoadCatalogFromPath returns a Catalog without requiring testing.T so
// fixtures can be wired in setup functions.
func LoadCatalogFromPath(path string) (schema.Catalog, error) {
	if path == "" {
		return schema.Catalog{}, errors.New("testsupport: catalog path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("testsupport: read catalog: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	catalog, err := schema.DecodeCatalog(context.Background(), doc)
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("testsupport: decode catalog: %w", err)
	}
	return catalog, nil
}

// MustEntitySchema loads the catalog at path and returns the schema of
// entityType, failing when the type is missing.
func MustEntitySchema(t *testing.T, path, entityType string) model.EntityTypeSchema {
	t.Helper()

	entitySchema, ok := LoadCatalog(t, path).Lookup(entityType)
	if !ok {
		t.Fatalf("entity type %q not found in %s", entityType, path)
	}
	return entitySchema
}

// MustLoadEntity reads an entity document (JSON, YAML or TOML by extension).
func MustLoadEntity(t *testing.T, path string) *model.Entity {
	t.Helper()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("load entity: %v", err)
	}
	entity, _, err := entityfile.Read(path, "")
	if err != nil {
		t.Fatalf("load entity: %v", err)
	}
	return entity
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
