package addons_test

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	addons "github.com/goliatone/go-addons"
	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/schema"
)

const pageConfig = `entities:
  page:
    addons:
      platform:
        contact:
          name: Contact
          fields:
            email:
              type: string
              placeholder: you@example.com
            rating:
              type: number
            badge:
              displayer: starRating
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addons.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestService_ResolveAndRenderFromFile(t *testing.T) {
	path := writeConfig(t, pageConfig)
	svc, err := addons.New(addons.WithSchemaSource(schema.SourceFromFile(path), ""))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	entity := &addons.Entity{Type: "page"}
	groups, err := svc.Resolve(context.Background(), "page", entity)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Fields) != 3 {
		t.Fatalf("unexpected groups: %#v", groups)
	}
	if len(entity.Addons) != 3 {
		t.Fatalf("expected three containers, got %d", len(entity.Addons))
	}

	out, err := svc.Render(context.Background(), "html", "page", entity, addons.RenderOptions{
		Subset: addons.Subset{Groups: []string{"contact"}},
	})
	if err == nil {
		t.Fatalf("expected unresolved displayer error for the number field, got %s", out)
	}
	if !errors.Is(err, displayers.ErrUnresolvedDisplayer) {
		t.Fatalf("expected ErrUnresolvedDisplayer, got %v", err)
	}
}

func TestService_UnknownRendererAndCustomDisplayer(t *testing.T) {
	path := writeConfig(t, pageConfig)
	svc, err := addons.New(addons.WithSchemaSource(schema.SourceFromFile(path), schema.FormatYAML))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := svc.Render(context.Background(), "missing", "page", &addons.Entity{}, addons.RenderOptions{}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}

	placeholderSvc, err := addons.New(
		addons.WithProvider(svc.Provider()),
		addons.WithDisplayer("starRating", addons.Descriptor{}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !placeholderSvc.Registry().Has("starRating") {
		t.Fatalf("expected custom displayer to be registered")
	}
}

func TestService_StrictDisplayerConflict(t *testing.T) {
	_, err := addons.New(
		addons.WithStrictRegistration(),
		addons.WithDisplayer(displayers.DisplayerString, addons.Descriptor{}),
	)
	if !errors.Is(err, displayers.ErrRegistrationConflict) {
		t.Fatalf("expected registration conflict, got %v", err)
	}

	if _, err := addons.New(addons.WithDisplayer(displayers.DisplayerString, addons.Descriptor{})); err != nil {
		t.Fatalf("lenient registry should ignore duplicates: %v", err)
	}
}

func TestService_ReloadAndWatchRequireReloadableProvider(t *testing.T) {
	svc, err := addons.New(addons.WithProvider(schema.NewStaticProvider(schema.Catalog{})))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := svc.Reload(context.Background()); !errors.Is(err, addons.ErrNotReloadable) {
		t.Fatalf("expected ErrNotReloadable, got %v", err)
	}
	if _, err := svc.Watch(context.Background(), "addons.yaml"); !errors.Is(err, addons.ErrNotReloadable) {
		t.Fatalf("expected ErrNotReloadable, got %v", err)
	}
}

func TestService_ReloadPicksUpChanges(t *testing.T) {
	path := writeConfig(t, pageConfig)
	svc, err := addons.New(addons.WithSchemaSource(schema.SourceFromFile(path), ""))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	catalog, err := svc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"page"}, catalog.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	updated := pageConfig + "  article:\n    addons: null\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	catalog, err = svc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"page", "article"}, catalog.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestService_Lint(t *testing.T) {
	path := writeConfig(t, pageConfig)
	svc, err := addons.New(addons.WithSchemaSource(schema.SourceFromFile(path), ""))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	issues, err := svc.Lint(context.Background())
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %v", issues)
	}
	if issues[0].Severity != addons.SeverityError || issues[0].Field != "rating" {
		t.Fatalf("unexpected first issue: %v", issues[0])
	}
	if issues[1].Severity != addons.SeverityWarning || !strings.Contains(issues[1].Message, "starRating") {
		t.Fatalf("unexpected second issue: %v", issues[1])
	}
}

func TestService_MergeWithoutProvider(t *testing.T) {
	svc, err := addons.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "page", &addons.Entity{}); err == nil {
		t.Fatalf("expected error without provider")
	}
	entity := &addons.Entity{}
	groups := svc.Resolver().Merge(model.EntityTypeSchema{Sources: []model.SourceSchema{{
		Name: "platform",
		Groups: []model.GroupSchema{{
			Key:    "contact",
			Fields: []model.FieldDefinition{{Key: "email"}},
		}},
	}}}, entity)
	if len(groups) != 1 || groups[0].Fields[0].Index != 0 {
		t.Fatalf("unexpected merge output: %#v", groups)
	}
	if _, err := iofs.Stat(addons.EmbeddedTemplates(), "templates/addons.tmpl"); err != nil {
		t.Fatalf("embedded templates: %v", err)
	}
}
