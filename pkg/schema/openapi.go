package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// OpenAPIExtension holds an entity's addon tree on a component schema.
	OpenAPIExtension = "x-addons"
	// OpenAPIEntityExtension overrides the entity type name, which defaults to
	// the component schema name.
	OpenAPIEntityExtension = "x-addons-entity"
)

// DecodeOpenAPI extracts entity addon schemas from the x-addons extension of
// an OpenAPI document's component schemas. Extension payloads arrive as
// decoded JSON, so sources, groups and fields are ordered by key and
// component schemas by name.
func DecodeOpenAPI(ctx context.Context, doc Document) (Catalog, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return Catalog{}, fmt.Errorf("schema: load openapi %s: %w", doc.Location(), err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return Catalog{}, nil
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var catalog Catalog
	for _, name := range names {
		ref := spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		raw, ok := ref.Value.Extensions[OpenAPIExtension]
		if !ok || raw == nil {
			continue
		}

		payload, err := json.Marshal(raw)
		if err != nil {
			return Catalog{}, fmt.Errorf("schema: %s: component %q: %w", doc.Location(), name, err)
		}
		entitySchema, err := DecodeEntityTypeSchema(payload)
		if err != nil {
			return Catalog{}, fmt.Errorf("schema: %s: component %q: %w", doc.Location(), name, err)
		}

		entityType := name
		if override, ok := ref.Value.Extensions[OpenAPIEntityExtension].(string); ok && strings.TrimSpace(override) != "" {
			entityType = strings.TrimSpace(override)
		}
		catalog.Set(entityType, entitySchema)
	}
	return catalog, nil
}
