// Package addons bundles the displayer registry, the schema resolver, the
// configuration provider and the renderer registry behind one constructor.
// Callers needing finer control can use the pkg/ packages directly.
package addons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/render"
	"github.com/goliatone/go-addons/pkg/renderers/html"
	"github.com/goliatone/go-addons/pkg/resolver"
	"github.com/goliatone/go-addons/pkg/schema"
)

// FieldType aliases model.FieldType.
type FieldType = model.FieldType

// Entity is the minimal addon holder.
type Entity = model.Entity

// AddonValue is a stored addon value container.
type AddonValue = model.AddonValue

// Holder is implemented by entities carrying addon values.
type Holder = model.Holder

// ResolvedGroup is the UI-facing output of a resolve call.
type ResolvedGroup = model.ResolvedGroup

// Displayer aliases displayers.Displayer for callers registering their own.
type Displayer = displayers.Displayer

// Descriptor adapts plain functions to Displayer.
type Descriptor = displayers.Descriptor

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Subset aliases render.Subset for callers rendering part of the groups.
type Subset = render.Subset

// ErrNotReloadable is returned by Reload and Watch when the configured
// provider cannot refresh itself.
var ErrNotReloadable = errors.New("addons: provider does not support reloading")

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger shared by every component built by New.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry supplies a prebuilt displayer registry.
func WithRegistry(registry *displayers.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithStrictRegistration makes duplicate displayer registrations fail New.
// It has no effect together with WithRegistry.
func WithStrictRegistration() Option {
	return func(s *Service) {
		s.strict = true
	}
}

// WithDisplayer registers an extra displayer once the registry is built.
func WithDisplayer(name string, displayer Displayer) Option {
	return func(s *Service) {
		s.displayers = append(s.displayers, namedDisplayer{name: name, displayer: displayer})
	}
}

// WithProvider supplies the configuration provider. It takes precedence over
// WithSchemaSource.
func WithProvider(provider schema.Provider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithSchemaSource reads the configuration document from src through the
// built-in loader. A blank format is guessed from the location.
func WithSchemaSource(src schema.Source, format schema.Format) Option {
	return func(s *Service) {
		s.source = src
		s.format = format
	}
}

// WithLoader overrides the loader used with WithSchemaSource.
func WithLoader(loader schema.Loader) Option {
	return func(s *Service) {
		s.loader = loader
	}
}

// WithLoaderOptions configures the built-in loader.
func WithLoaderOptions(opts schema.LoaderOptions) Option {
	return func(s *Service) {
		s.loaderOptions = opts
	}
}

// WithRenderer registers an additional renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Service) {
		if renderer != nil {
			s.extraRenderers = append(s.extraRenderers, renderer)
		}
	}
}

// WithHTMLOptions configures the built-in HTML renderer.
func WithHTMLOptions(options ...html.Option) Option {
	return func(s *Service) {
		s.htmlOptions = append(s.htmlOptions, options...)
	}
}

type namedDisplayer struct {
	name      string
	displayer Displayer
}

// Service wires the addon components together.
type Service struct {
	logger         *slog.Logger
	registry       *displayers.Registry
	strict         bool
	displayers     []namedDisplayer
	provider       schema.Provider
	source         schema.Source
	format         schema.Format
	loader         schema.Loader
	loaderOptions  schema.LoaderOptions
	extraRenderers []render.Renderer
	htmlOptions    []html.Option

	resolver  *resolver.Resolver
	renderers *render.Registry
}

// New builds a Service. Without a provider or schema source, Resolve fails
// until one is configured; Merge-style usage through Resolver().Merge works
// regardless.
func New(options ...Option) (*Service, error) {
	s := &Service{logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.registry == nil {
		regOpts := []displayers.Option{displayers.WithLogger(s.logger)}
		if s.strict {
			regOpts = append(regOpts, displayers.WithStrictRegistration())
		}
		s.registry = displayers.NewRegistry(regOpts...)
	}
	for _, entry := range s.displayers {
		if err := s.registry.Register(entry.name, entry.displayer); err != nil {
			return nil, fmt.Errorf("addons: register displayer %q: %w", entry.name, err)
		}
	}

	if s.provider == nil && s.source != nil {
		if s.loader == nil {
			s.loader = NewLoader(s.loaderOptions)
		}
		s.provider = schema.NewDocumentProvider(s.loader, s.source,
			schema.WithProviderFormat(s.format),
			schema.WithProviderLogger(s.logger),
		)
	}

	resolverOpts := []resolver.Option{resolver.WithLogger(s.logger)}
	if s.provider != nil {
		resolverOpts = append(resolverOpts, resolver.WithProvider(s.provider))
	}
	s.resolver = resolver.New(s.registry, resolverOpts...)

	renderers, err := render.NewRegistry(s.extraRenderers...)
	if err != nil {
		return nil, fmt.Errorf("addons: %w", err)
	}
	if !renderers.Has("html") {
		htmlRenderer, err := html.New(append([]html.Option{html.WithLogger(s.logger)}, s.htmlOptions...)...)
		if err != nil {
			return nil, fmt.Errorf("addons: %w", err)
		}
		if err := renderers.Register(htmlRenderer); err != nil {
			return nil, fmt.Errorf("addons: %w", err)
		}
	}
	s.renderers = renderers
	return s, nil
}

// Registry returns the displayer registry.
func (s *Service) Registry() *displayers.Registry {
	return s.registry
}

// Resolver returns the schema resolver.
func (s *Service) Resolver() *resolver.Resolver {
	return s.resolver
}

// Provider returns the configuration provider, nil when none is configured.
func (s *Service) Provider() schema.Provider {
	return s.provider
}

// Renderers returns the renderer registry.
func (s *Service) Renderers() *render.Registry {
	return s.renderers
}

// Resolve merges the addon schema of entityType into holder.
func (s *Service) Resolve(ctx context.Context, entityType string, holder Holder) ([]ResolvedGroup, error) {
	return s.resolver.Resolve(ctx, entityType, holder)
}

// Render resolves holder and renders it with the named renderer.
func (s *Service) Render(ctx context.Context, rendererName, entityType string, holder Holder, opts RenderOptions) ([]byte, error) {
	renderer, err := s.renderers.Lookup(rendererName)
	if err != nil {
		return nil, err
	}
	groups, err := s.resolver.Resolve(ctx, entityType, holder)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.View{
		Groups:   groups,
		Holder:   holder,
		Registry: s.registry,
		Options:  opts,
	})
}

// Catalog returns every configured entity type schema.
func (s *Service) Catalog(ctx context.Context) (schema.Catalog, error) {
	if s.provider == nil {
		return schema.Catalog{}, errors.New("addons: schema provider is not configured")
	}
	return s.provider.Entities(ctx)
}

// Reload refreshes the provider when it supports it.
func (s *Service) Reload(ctx context.Context) error {
	reloader, ok := s.provider.(schema.Reloader)
	if !ok {
		return ErrNotReloadable
	}
	return reloader.Reload(ctx)
}

// Watch reloads the provider whenever the file at path changes. The watcher
// runs until ctx is done or Stop is called.
func (s *Service) Watch(ctx context.Context, path string, options ...schema.WatchOption) (*schema.Watcher, error) {
	reloader, ok := s.provider.(schema.Reloader)
	if !ok {
		return nil, ErrNotReloadable
	}
	options = append([]schema.WatchOption{schema.WithWatchLogger(s.logger)}, options...)
	watcher, err := schema.NewWatcher(path, reloader, options...)
	if err != nil {
		return nil, fmt.Errorf("addons: watch %s: %w", path, err)
	}
	if err := watcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("addons: watch %s: %w", path, err)
	}
	return watcher, nil
}
