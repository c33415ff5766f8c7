package schema_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-addons/pkg/schema"
)

type countingLoader struct {
	calls   atomic.Int32
	payload []byte
	err     error
}

func (l *countingLoader) Load(_ context.Context, src schema.Source) (schema.Document, error) {
	l.calls.Add(1)
	if l.err != nil {
		return schema.Document{}, l.err
	}
	return schema.NewDocument(src, l.payload)
}

func TestDocumentProvider_CachesUntilReload(t *testing.T) {
	loader := &countingLoader{payload: []byte(`{"entities":{"page":{"addons":{}}}}`)}
	provider := schema.NewDocumentProvider(loader, schema.SourceFromFile("entities.json"))
	ctx := context.Background()

	for range 3 {
		catalog, err := provider.Entities(ctx)
		if err != nil {
			t.Fatalf("entities: %v", err)
		}
		if _, ok := catalog.Lookup("page"); !ok {
			t.Fatalf("page missing from catalog")
		}
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("expected a single load, got %d", got)
	}

	loader.payload = []byte(`{"entities":{"article":{"addons":{}}}}`)
	if err := provider.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	catalog, err := provider.Entities(ctx)
	if err != nil {
		t.Fatalf("entities: %v", err)
	}
	if _, ok := catalog.Lookup("article"); !ok {
		t.Fatalf("reload did not refresh catalog: %v", catalog.Types())
	}

	provider.Invalidate()
	if _, err := provider.Entities(ctx); err != nil {
		t.Fatalf("entities after invalidate: %v", err)
	}
	if got := loader.calls.Load(); got != 3 {
		t.Fatalf("expected three loads, got %d", got)
	}
}

func TestDocumentProvider_FailedReloadKeepsCatalog(t *testing.T) {
	loader := &countingLoader{payload: []byte(`{"entities":{"page":{"addons":{}}}}`)}
	provider := schema.NewDocumentProvider(loader, schema.SourceFromFile("entities.json"))
	ctx := context.Background()

	if _, err := provider.Entities(ctx); err != nil {
		t.Fatalf("entities: %v", err)
	}

	loader.err = errors.New("disk on fire")
	if err := provider.Reload(ctx); err == nil {
		t.Fatalf("expected reload error")
	}
	catalog, err := provider.Entities(ctx)
	if err != nil {
		t.Fatalf("entities: %v", err)
	}
	if _, ok := catalog.Lookup("page"); !ok {
		t.Fatalf("previous catalog should survive a failed reload")
	}
}

func TestDocumentProvider_PropagatesLoadErrors(t *testing.T) {
	boom := errors.New("unreachable")
	provider := schema.NewDocumentProvider(&countingLoader{err: boom}, schema.SourceFromFile("entities.json"))

	_, err := provider.Entities(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}

func TestDocumentProvider_FormatOverride(t *testing.T) {
	loader := &countingLoader{payload: []byte("entities:\n  page:\n    addons: {}\n")}
	provider := schema.NewDocumentProvider(loader, schema.ParseSource("https://config.example.com/entities"),
		schema.WithProviderFormat(schema.FormatYAML),
	)

	catalog, err := provider.Entities(context.Background())
	if err != nil {
		t.Fatalf("entities: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected one entity type, got %v", catalog.Types())
	}
}

func TestStaticProvider(t *testing.T) {
	provider := schema.NewStaticProvider(schema.NewCatalog(schema.EntityType{Name: "page"}))

	catalog, err := provider.Entities(context.Background())
	if err != nil {
		t.Fatalf("entities: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("unexpected catalog %v", catalog.Types())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := provider.Entities(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProviderFunc(t *testing.T) {
	var provider schema.Provider = schema.ProviderFunc(func(context.Context) (schema.Catalog, error) {
		return schema.Catalog{}, errors.New("offline")
	})
	if _, err := provider.Entities(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
