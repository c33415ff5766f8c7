package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/schema"
)

// Option customises the resolver configuration.
type Option func(*Resolver)

// WithProvider supplies the configuration provider consulted by Resolve.
func WithProvider(provider schema.Provider) Option {
	return func(r *Resolver) {
		r.provider = provider
	}
}

// WithLogger routes merge diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver merges entity-type addon schemas with entities. It holds no state
// beyond its collaborators; the entity passed to Merge is the only thing it
// mutates.
type Resolver struct {
	registry *displayers.Registry
	provider schema.Provider
	logger   *slog.Logger
}

// New constructs a Resolver. A nil registry is replaced by one with the
// built-in displayers.
func New(registry *displayers.Registry, options ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.registry == nil {
		r.registry = displayers.NewRegistry(displayers.WithLogger(r.logger))
	}
	return r
}

// Registry exposes the displayer registry used for type inference so
// renderers can share it.
func (r *Resolver) Registry() *displayers.Registry {
	return r.registry
}

// Resolve fetches the addon schema of entityType from the provider and merges
// it into holder. Unknown entity types and empty schemas yield an empty
// result; only provider failures and cancellation are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, entityType string, holder model.Holder) ([]model.ResolvedGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.provider == nil {
		return nil, errors.New("resolver: schema provider is not configured")
	}

	catalog, err := r.provider.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolver: fetch schema: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entitySchema, ok := catalog.Lookup(entityType)
	if !ok {
		r.logger.Debug("no addon schema for entity type", "entity_type", entityType)
		return []model.ResolvedGroup{}, nil
	}
	return r.Merge(entitySchema, holder), nil
}

// Result is the completion value delivered by ResolveAsync.
type Result struct {
	Groups []model.ResolvedGroup
	Err    error
}

// ResolveAsync runs Resolve in its own goroutine and delivers exactly one
// Result on the returned channel, which is then closed. Callers must not
// touch holder until the result arrives.
func (r *Resolver) ResolveAsync(ctx context.Context, entityType string, holder model.Holder) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		groups, err := r.Resolve(ctx, entityType, holder)
		out <- Result{Groups: groups, Err: err}
	}()
	return out
}

// Merge walks entitySchema (source, group, field, in declaration order) and
// returns the resolved group tree. Every declared (group, field, source)
// triple missing from holder gets a container appended with a nil value;
// existing containers are reused and never modified.
//
// Merge mutates holder without synchronisation: do not merge into the same
// entity from several goroutines.
func (r *Resolver) Merge(entitySchema model.EntityTypeSchema, holder model.Holder) []model.ResolvedGroup {
	groups := make([]model.ResolvedGroup, 0, len(entitySchema.Sources))
	if holder == nil {
		return groups
	}

	addons := holder.AddonValues()
	if addons == nil {
		return groups
	}
	if *addons == nil {
		*addons = model.Addons{}
	}
	index := buildIndex(*addons)

	for _, source := range entitySchema.Sources {
		for _, group := range source.Groups {
			resolved := model.ResolvedGroup{
				Key:        group.Key,
				Source:     source.Name,
				Name:       group.Name,
				Text:       group.Text,
				Properties: group.Properties,
				Fields:     make([]model.ResolvedField, 0, len(group.Fields)),
			}

			for _, definition := range group.Fields {
				id := model.Identity{Group: group.Key, Key: definition.Key, Source: source.Name}
				position, ok := index[id]
				if !ok {
					*addons = append(*addons, model.AddonValue{
						Key:    definition.Key,
						Group:  group.Key,
						Source: source.Name,
						Type:   definition.Type,
						Value:  nil,
					})
					position = len(*addons) - 1
					index[id] = position
					r.logger.Debug("created addon container",
						"group", group.Key,
						"field", definition.Key,
						"source", source.Name,
						"index", position,
					)
				}

				resolved.Fields = append(resolved.Fields, model.ResolvedField{
					Key:        definition.Key,
					Definition: definition,
					Index:      position,
					Type:       r.registry.InferType(definition.Type, definition.Displayer),
				})
			}

			groups = append(groups, resolved)
		}
	}
	return groups
}

// buildIndex maps each identity to its first position, matching what a
// front-to-back scan would find.
func buildIndex(addons model.Addons) map[model.Identity]int {
	index := make(map[model.Identity]int, len(addons))
	for position, value := range addons {
		id := value.Identity()
		if _, exists := index[id]; exists {
			continue
		}
		index[id] = position
	}
	return index
}
