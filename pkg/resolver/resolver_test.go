package resolver_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/resolver"
	"github.com/goliatone/go-addons/pkg/schema"
)

func contactSchema() model.EntityTypeSchema {
	return model.EntityTypeSchema{
		Sources: []model.SourceSchema{{
			Name: "platform",
			Groups: []model.GroupSchema{{
				Key:        "contact",
				Name:       "Contact",
				Text:       "",
				Properties: map[string]any{},
				Fields: []model.FieldDefinition{
					{Key: "email", Type: model.FieldTypeString},
				},
			}},
		}},
	}
}

func newResolver(catalog schema.Catalog) *resolver.Resolver {
	return resolver.New(nil, resolver.WithProvider(schema.NewStaticProvider(catalog)))
}

func TestResolve_EndToEnd(t *testing.T) {
	r := newResolver(schema.NewCatalog(schema.EntityType{Name: "page", Schema: contactSchema()}))
	entity := &model.Entity{Type: "page"}

	groups, err := r.Resolve(context.Background(), "page", entity)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	wantGroups := []model.ResolvedGroup{{
		Key:        "contact",
		Source:     "platform",
		Name:       "Contact",
		Text:       "",
		Properties: map[string]any{},
		Fields: []model.ResolvedField{{
			Key:        "email",
			Definition: model.FieldDefinition{Key: "email", Type: model.FieldTypeString},
			Index:      0,
			Type:       model.FieldTypeString,
		}},
	}}
	if diff := cmp.Diff(wantGroups, groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}

	wantAddons := model.Addons{{
		Key:    "email",
		Group:  "contact",
		Source: "platform",
		Type:   model.FieldTypeString,
		Value:  nil,
	}}
	if diff := cmp.Diff(wantAddons, entity.Addons); diff != "" {
		t.Fatalf("addons mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := newResolver(schema.NewCatalog(schema.EntityType{Name: "page", Schema: contactSchema()}))
	entity := &model.Entity{}
	ctx := context.Background()

	first, err := r.Resolve(ctx, "page", entity)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	entity.Addons[0].Value = "someone@example.com"

	second, err := r.Resolve(ctx, "page", entity)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if len(entity.Addons) != 1 {
		t.Fatalf("second resolve must not append, got %d entries", len(entity.Addons))
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolve is not idempotent (-first +second):\n%s", diff)
	}
	if entity.Addons[0].Value != "someone@example.com" {
		t.Fatalf("existing value was modified: %#v", entity.Addons[0])
	}
}

func TestMerge_PreservesExistingAndUndeclaredEntries(t *testing.T) {
	r := resolver.New(nil)
	entity := &model.Entity{Addons: model.Addons{
		{Key: "legacy", Group: "old", Source: "platform", Value: "keep me"},
		{Key: "email", Group: "contact", Source: "platform", Type: model.FieldTypeString, Value: "a@example.com"},
	}}

	groups := r.Merge(contactSchema(), entity)

	if len(entity.Addons) != 2 {
		t.Fatalf("no entry should be added or removed, got %d", len(entity.Addons))
	}
	if got := groups[0].Fields[0].Index; got != 1 {
		t.Fatalf("expected existing container at index 1, got %d", got)
	}
	if entity.Addons[0].Value != "keep me" {
		t.Fatalf("undeclared entry was modified: %#v", entity.Addons[0])
	}
}

func TestMerge_DuplicatesResolveToFirstOccurrence(t *testing.T) {
	r := resolver.New(nil)
	entity := &model.Entity{Addons: model.Addons{
		{Key: "other", Group: "contact", Source: "platform"},
		{Key: "email", Group: "contact", Source: "platform", Value: "first"},
		{Key: "email", Group: "contact", Source: "platform", Value: "second"},
	}}

	groups := r.Merge(contactSchema(), entity)
	if got := groups[0].Fields[0].Index; got != 1 {
		t.Fatalf("expected first duplicate at index 1, got %d", got)
	}
	if len(entity.Addons) != 3 {
		t.Fatalf("duplicates must be left alone, got %d entries", len(entity.Addons))
	}
}

func TestMerge_OrderAndMultipleSources(t *testing.T) {
	entitySchema := model.EntityTypeSchema{
		Sources: []model.SourceSchema{
			{Name: "platform", Groups: []model.GroupSchema{
				{Key: "contact", Fields: []model.FieldDefinition{{Key: "email"}, {Key: "bio", Type: model.FieldTypeHTML}}},
				{Key: "seo", Fields: []model.FieldDefinition{{Key: "title", Displayer: "textarea"}}},
			}},
			{Name: "theme", Groups: []model.GroupSchema{
				{Key: "contact", Fields: []model.FieldDefinition{{Key: "email", Displayer: "wysiwyg"}}},
			}},
		},
	}
	entity := &model.Entity{}

	groups := resolver.New(nil).Merge(entitySchema, entity)

	type flat struct {
		Source, Group, Field string
		Index                int
		Type                 model.FieldType
	}
	var got []flat
	for _, group := range groups {
		for _, field := range group.Fields {
			got = append(got, flat{group.Source, group.Key, field.Key, field.Index, field.Type})
		}
	}
	want := []flat{
		{"platform", "contact", "email", 0, model.FieldTypeString},
		{"platform", "contact", "bio", 1, model.FieldTypeHTML},
		{"platform", "seo", "title", 2, model.FieldTypeString},
		{"theme", "contact", "email", 3, model.FieldTypeHTML},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved layout mismatch (-want +got):\n%s", diff)
	}

	for _, group := range groups {
		for _, field := range group.Fields {
			value := entity.Addons[field.Index]
			if value.Key != field.Key || value.Group != group.Key || value.Source != group.Source {
				t.Fatalf("index %d points at %#v for %s/%s/%s", field.Index, value, group.Source, group.Key, field.Key)
			}
		}
	}
}

func TestMerge_NilAddonsAndNilHolder(t *testing.T) {
	r := resolver.New(nil)

	entity := &model.Entity{}
	r.Merge(model.EntityTypeSchema{}, entity)
	if entity.Addons == nil {
		t.Fatalf("nil sequence should be initialised")
	}

	if groups := r.Merge(contactSchema(), nil); len(groups) != 0 {
		t.Fatalf("nil holder should yield no groups, got %d", len(groups))
	}
}

func TestMerge_TypedNilEntity(t *testing.T) {
	r := resolver.New(nil)

	var entity *model.Entity
	groups := r.Merge(contactSchema(), entity)
	if groups == nil || len(groups) != 0 {
		t.Fatalf("typed nil entity should yield an empty result, got %#v", groups)
	}
}

func TestResolve_UnknownEntityType(t *testing.T) {
	r := newResolver(schema.NewCatalog(schema.EntityType{Name: "page", Schema: contactSchema()}))
	entity := &model.Entity{}

	groups, err := r.Resolve(context.Background(), "article", entity)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", groups)
	}
	if len(entity.Addons) != 0 {
		t.Fatalf("entity must not change for unknown types")
	}
}

func TestResolve_ProviderError(t *testing.T) {
	boom := errors.New("config service down")
	r := resolver.New(nil, resolver.WithProvider(schema.ProviderFunc(func(context.Context) (schema.Catalog, error) {
		return schema.Catalog{}, boom
	})))

	_, err := r.Resolve(context.Background(), "page", &model.Entity{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestResolve_RequiresProvider(t *testing.T) {
	if _, err := resolver.New(nil).Resolve(context.Background(), "page", &model.Entity{}); err == nil {
		t.Fatalf("expected error without provider")
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	r := newResolver(schema.Catalog{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Resolve(ctx, "page", &model.Entity{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResolveAsync(t *testing.T) {
	r := newResolver(schema.NewCatalog(schema.EntityType{Name: "page", Schema: contactSchema()}))
	entity := &model.Entity{}

	select {
	case result, ok := <-r.ResolveAsync(context.Background(), "page", entity):
		if !ok {
			t.Fatalf("channel closed without a result")
		}
		if result.Err != nil {
			t.Fatalf("resolve: %v", result.Err)
		}
		if len(result.Groups) != 1 || len(entity.Addons) != 1 {
			t.Fatalf("unexpected result %#v", result)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for result")
	}
}

func TestResolve_UsesRegistryForTypeInference(t *testing.T) {
	registry := displayers.NewRegistry()
	if err := registry.Register("markdown", displayers.Descriptor{
		TypeFn: func() model.FieldType { return model.FieldTypeHTML },
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	entitySchema := model.EntityTypeSchema{Sources: []model.SourceSchema{{
		Name: "platform",
		Groups: []model.GroupSchema{{
			Key:    "seo",
			Fields: []model.FieldDefinition{{Key: "body", Displayer: "markdown"}},
		}},
	}}}

	groups := resolver.New(registry).Merge(entitySchema, &model.Entity{})
	if got := groups[0].Fields[0].Type; got != model.FieldTypeHTML {
		t.Fatalf("expected html from displayer, got %q", got)
	}
}
