package schema

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-addons/pkg/model"
)

// DecodeCatalog decodes the "entities" category of doc. JSON and YAML
// documents are walked as yaml.Node trees so the declaration order of
// sources, groups and fields is kept. A document without an "entities"
// category decodes to an empty catalog.
func DecodeCatalog(ctx context.Context, doc Document) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}
	switch doc.Format() {
	case FormatHCL:
		return DecodeHCL(doc)
	case FormatOpenAPI:
		return DecodeOpenAPI(ctx, doc)
	case FormatJSON, FormatYAML, "":
	default:
		return Catalog{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Format())
	}

	raw := doc.Raw()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Catalog{}, fmt.Errorf("schema: decode %s: %w", doc.Location(), ErrEmptyDocument)
	}

	root, err := parseTree(doc.Format(), raw)
	if err != nil {
		return Catalog{}, fmt.Errorf("schema: parse %s: %w", doc.Location(), err)
	}
	top := documentRoot(root)
	if top == nil {
		return Catalog{}, nil
	}
	if top.Kind != yaml.MappingNode {
		return Catalog{}, fmt.Errorf("schema: %s: top level must be a mapping", doc.Location())
	}
	if mappingValue(top, "openapi") != nil {
		return DecodeOpenAPI(ctx, doc.WithFormat(FormatOpenAPI))
	}

	entities := mappingValue(top, CategoryEntities)
	if isNull(entities) {
		return Catalog{}, nil
	}
	return decodeEntities(entities, doc.Location())
}

// DecodeEntityTypeSchema decodes a bare "source → group → field" tree, the
// value found under an entity type's "addons" key.
func DecodeEntityTypeSchema(data []byte) (model.EntityTypeSchema, error) {
	format := FormatYAML
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		format = FormatJSON
	}
	root, err := parseTree(format, data)
	if err != nil {
		return model.EntityTypeSchema{}, fmt.Errorf("schema: parse addons: %w", err)
	}
	return decodeAddons(documentRoot(root), "addons")
}

func parseTree(format Format, data []byte) (*yaml.Node, error) {
	if format == FormatJSON {
		return parseJSONTree(data)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

func decodeEntities(node *yaml.Node, location string) (Catalog, error) {
	if node.Kind != yaml.MappingNode {
		return Catalog{}, fmt.Errorf("schema: %s: %q must be a mapping", location, CategoryEntities)
	}

	var catalog Catalog
	err := eachPair(node, func(entityType string, value *yaml.Node) error {
		if isNull(value) {
			catalog.Set(entityType, model.EntityTypeSchema{})
			return nil
		}
		if value.Kind != yaml.MappingNode {
			return fmt.Errorf("schema: %s: entity %q must be a mapping", location, entityType)
		}
		addons, err := decodeAddons(mappingValue(value, "addons"), CategoryEntities+"."+entityType+".addons")
		if err != nil {
			return fmt.Errorf("schema: %s: %w", location, err)
		}
		catalog.Set(entityType, addons)
		return nil
	})
	if err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

func decodeAddons(node *yaml.Node, path string) (model.EntityTypeSchema, error) {
	var out model.EntityTypeSchema
	if isNull(node) {
		return out, nil
	}
	if node.Kind != yaml.MappingNode {
		return out, fmt.Errorf("%s must be a mapping", path)
	}

	err := eachPair(node, func(sourceName string, sourceNode *yaml.Node) error {
		source := model.SourceSchema{Name: sourceName}
		if isNull(sourceNode) {
			out.Sources = append(out.Sources, source)
			return nil
		}
		if sourceNode.Kind != yaml.MappingNode {
			return fmt.Errorf("%s.%s must be a mapping", path, sourceName)
		}
		err := eachPair(sourceNode, func(groupKey string, groupNode *yaml.Node) error {
			group, err := decodeGroup(groupKey, groupNode, path+"."+sourceName+"."+groupKey)
			if err != nil {
				return err
			}
			source.Groups = append(source.Groups, group)
			return nil
		})
		if err != nil {
			return err
		}
		out.Sources = append(out.Sources, source)
		return nil
	})
	return out, err
}

type groupFile struct {
	Name       string         `yaml:"name"`
	Text       string         `yaml:"text"`
	Properties map[string]any `yaml:"properties"`
}

func decodeGroup(key string, node *yaml.Node, path string) (model.GroupSchema, error) {
	group := model.GroupSchema{Key: key}
	if isNull(node) {
		return group, nil
	}
	if node.Kind != yaml.MappingNode {
		return group, fmt.Errorf("%s must be a mapping", path)
	}

	var raw groupFile
	if err := node.Decode(&raw); err != nil {
		return group, fmt.Errorf("%s: %w", path, err)
	}
	group.Name = raw.Name
	group.Text = raw.Text
	group.Properties = raw.Properties

	fields := mappingValue(node, "fields")
	if isNull(fields) {
		return group, nil
	}
	if fields.Kind != yaml.MappingNode {
		return group, fmt.Errorf("%s.fields must be a mapping", path)
	}
	err := eachPair(fields, func(fieldKey string, fieldNode *yaml.Node) error {
		definition, err := decodeField(fieldKey, fieldNode, path+".fields."+fieldKey)
		if err != nil {
			return err
		}
		group.Fields = append(group.Fields, definition)
		return nil
	})
	return group, err
}

type fieldFile struct {
	Type        string         `yaml:"type"`
	Displayer   string         `yaml:"displayer"`
	Placeholder string         `yaml:"placeholder"`
	Properties  map[string]any `yaml:"properties"`
	Template    *string        `yaml:"template"`
}

func decodeField(key string, node *yaml.Node, path string) (model.FieldDefinition, error) {
	definition := model.FieldDefinition{Key: key}
	if isNull(node) {
		return definition, nil
	}
	if node.Kind != yaml.MappingNode {
		return definition, fmt.Errorf("%s must be a mapping", path)
	}

	var raw fieldFile
	if err := node.Decode(&raw); err != nil {
		return definition, fmt.Errorf("%s: %w", path, err)
	}
	definition.Type = model.FieldType(strings.TrimSpace(raw.Type))
	definition.Displayer = strings.TrimSpace(raw.Displayer)
	definition.Placeholder = raw.Placeholder
	definition.Template = raw.Template
	definition.Properties = fieldProperties(raw.Properties)
	return definition, nil
}

// fieldProperties splits the well-known readOnly and listValues keys from the
// free-form remainder.
func fieldProperties(raw map[string]any) model.FieldProperties {
	var props model.FieldProperties
	for key, value := range raw {
		switch key {
		case "readOnly":
			props.ReadOnly = truthy(value)
		case "listValues":
			if values, ok := value.([]any); ok {
				props.ListValues = values
			}
		default:
			if props.Extra == nil {
				props.Extra = make(map[string]any)
			}
			props.Extra[key] = value
		}
	}
	return props
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

func documentRoot(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		return resolveAlias(node.Content[0])
	}
	return resolveAlias(node)
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}
	return nil
}

func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, resolveAlias(node.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}
