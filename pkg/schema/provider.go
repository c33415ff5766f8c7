package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Provider supplies the "entities" configuration category. Implementations
// may block on I/O; they must honour ctx cancellation.
type Provider interface {
	Entities(ctx context.Context) (Catalog, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Catalog, error)

// Entities implements Provider.
func (f ProviderFunc) Entities(ctx context.Context) (Catalog, error) {
	return f(ctx)
}

// StaticProvider serves a fixed catalog.
type StaticProvider struct {
	catalog Catalog
}

// NewStaticProvider wraps catalog in a Provider.
func NewStaticProvider(catalog Catalog) *StaticProvider {
	return &StaticProvider{catalog: catalog}
}

// Entities implements Provider.
func (p *StaticProvider) Entities(ctx context.Context) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}
	return p.catalog, nil
}

// ProviderOption configures a DocumentProvider.
type ProviderOption func(*DocumentProvider)

// WithProviderFormat forces the document format instead of guessing it from
// the source location.
func WithProviderFormat(format Format) ProviderOption {
	return func(p *DocumentProvider) {
		p.format = format
	}
}

// WithProviderLogger routes load diagnostics to logger.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *DocumentProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// DocumentProvider loads a configuration document on first use and serves the
// decoded catalog from memory until Reload or Invalidate is called.
type DocumentProvider struct {
	loader Loader
	source Source
	format Format
	logger *slog.Logger

	mu     sync.Mutex
	cached *Catalog
}

// NewDocumentProvider builds a provider reading src through loader.
func NewDocumentProvider(loader Loader, src Source, options ...ProviderOption) *DocumentProvider {
	p := &DocumentProvider{
		loader: loader,
		source: src,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Source returns the document origin.
func (p *DocumentProvider) Source() Source {
	return p.source
}

// Entities implements Provider.
func (p *DocumentProvider) Entities(ctx context.Context) (Catalog, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached, nil
	}
	catalog, err := p.load(ctx)
	if err != nil {
		return Catalog{}, err
	}
	p.cached = &catalog
	return catalog, nil
}

// Reload fetches and decodes the document again. The previous catalog is
// kept when the reload fails.
func (p *DocumentProvider) Reload(ctx context.Context) error {
	catalog, err := p.load(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.cached = &catalog
	p.mu.Unlock()
	return nil
}

// Invalidate drops the cached catalog so the next Entities call reloads.
func (p *DocumentProvider) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()
}

func (p *DocumentProvider) load(ctx context.Context) (Catalog, error) {
	if p.loader == nil {
		return Catalog{}, errors.New("schema: loader is not configured")
	}
	if p.source == nil {
		return Catalog{}, errors.New("schema: source is not configured")
	}

	doc, err := p.loader.Load(ctx, p.source)
	if err != nil {
		return Catalog{}, fmt.Errorf("schema: load %s: %w", p.source.Location(), err)
	}
	doc = doc.WithFormat(p.format)

	catalog, err := DecodeCatalog(ctx, doc)
	if err != nil {
		return Catalog{}, err
	}
	p.logger.Debug("loaded addon schema",
		"location", p.source.Location(),
		"format", doc.Format(),
		"entity_types", catalog.Len(),
	)
	return catalog, nil
}
