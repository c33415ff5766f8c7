package schema_test

import (
	"testing"

	"github.com/goliatone/go-addons/pkg/schema"
)

func TestParseSource(t *testing.T) {
	cases := []struct {
		raw      string
		kind     schema.SourceKind
		location string
	}{
		{raw: " config/entities.yaml ", kind: schema.SourceKindFile, location: "config/entities.yaml"},
		{raw: "./a/../entities.json", kind: schema.SourceKindFile, location: "entities.json"},
		{raw: "fs:config/entities.json", kind: schema.SourceKindFS, location: "config/entities.json"},
		{raw: "https://config.example.com/entities", kind: schema.SourceKindURL, location: "https://config.example.com/entities"},
	}
	for _, tc := range cases {
		src := schema.ParseSource(tc.raw)
		if src == nil {
			t.Fatalf("ParseSource(%q) returned nil", tc.raw)
		}
		if src.Kind() != tc.kind || src.Location() != tc.location {
			t.Fatalf("ParseSource(%q) = %s %q, want %s %q", tc.raw, src.Kind(), src.Location(), tc.kind, tc.location)
		}
	}

	for _, raw := range []string{"", "   ", "fs:", "http://"} {
		if src := schema.ParseSource(raw); src != nil {
			t.Fatalf("ParseSource(%q) should be nil, got %v", raw, src)
		}
	}
}
