package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/schema"
)

func TestCatalog_SetReplacesInPlace(t *testing.T) {
	first := model.EntityTypeSchema{Sources: []model.SourceSchema{{Name: "platform"}}}
	second := model.EntityTypeSchema{Sources: []model.SourceSchema{{Name: "theme"}}}

	catalog := schema.NewCatalog(
		schema.EntityType{Name: "page", Schema: first},
		schema.EntityType{Name: "article"},
		schema.EntityType{Name: "page", Schema: second},
	)

	if diff := cmp.Diff([]string{"page", "article"}, catalog.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	got, ok := catalog.Lookup("page")
	if !ok {
		t.Fatalf("page missing")
	}
	if diff := cmp.Diff(second, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
	if _, ok := catalog.Lookup("missing"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}
