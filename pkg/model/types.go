package model

import "strings"

// FieldType is the semantic kind of a stored addon value. It only drives the
// choice of a default displayer when a schema omits one.
type FieldType string

const (
	FieldTypeHTML   FieldType = "html"
	FieldTypeString FieldType = "string"
	FieldTypeJSON   FieldType = "json"
)

// FieldProperties carries the optional per-field behaviour flags schema
// authors can set. Unknown keys are preserved in Extra so templates can read
// them.
type FieldProperties struct {
	ReadOnly   bool           `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	ListValues []any          `json:"listValues,omitempty" yaml:"listValues,omitempty"`
	Extra      map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// FieldDefinition is the schema-side description of a single addon field. It
// is read-only to the resolver.
type FieldDefinition struct {
	Key         string          `json:"key"`
	Type        FieldType       `json:"type,omitempty"`
	Displayer   string          `json:"displayer,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Properties  FieldProperties `json:"properties"`
	// Template, when non-nil, replaces the generated display markup entirely.
	Template *string `json:"template,omitempty"`
}

// HasTemplate reports whether the definition carries a markup override.
func (d FieldDefinition) HasTemplate() bool {
	return d.Template != nil
}

// GroupSchema declares a named group of addon fields.
type GroupSchema struct {
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	Text       string            `json:"text"`
	Properties map[string]any    `json:"properties"`
	Fields     []FieldDefinition `json:"fields"`
}

// Field returns the definition stored under key.
func (g GroupSchema) Field(key string) (FieldDefinition, bool) {
	for _, field := range g.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// SourceSchema holds the groups contributed by one schema provenance, for
// example "platform" or "theme".
type SourceSchema struct {
	Name   string        `json:"name"`
	Groups []GroupSchema `json:"groups"`
}

// Group returns the group stored under key.
func (s SourceSchema) Group(key string) (GroupSchema, bool) {
	for _, group := range s.Groups {
		if group.Key == key {
			return group, true
		}
	}
	return GroupSchema{}, false
}

// EntityTypeSchema is the addon schema of one entity type. Sources, groups and
// fields keep the order in which the schema document declared them.
type EntityTypeSchema struct {
	Sources []SourceSchema `json:"sources"`
}

// Source returns the source stored under name.
func (s EntityTypeSchema) Source(name string) (SourceSchema, bool) {
	for _, source := range s.Sources {
		if source.Name == name {
			return source, true
		}
	}
	return SourceSchema{}, false
}

// Empty reports whether the schema declares no fields at all.
func (s EntityTypeSchema) Empty() bool {
	for _, source := range s.Sources {
		for _, group := range source.Groups {
			if len(group.Fields) > 0 {
				return false
			}
		}
	}
	return true
}

// FieldCount returns the number of field declarations across all sources.
func (s EntityTypeSchema) FieldCount() int {
	total := 0
	for _, source := range s.Sources {
		for _, group := range source.Groups {
			total += len(group.Fields)
		}
	}
	return total
}

// String renders a compact "source/group/field" listing, handy in logs.
func (s EntityTypeSchema) String() string {
	var parts []string
	for _, source := range s.Sources {
		for _, group := range source.Groups {
			for _, field := range group.Fields {
				parts = append(parts, source.Name+"/"+group.Key+"/"+field.Key)
			}
		}
	}
	return strings.Join(parts, ",")
}
