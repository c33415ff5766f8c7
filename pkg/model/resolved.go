package model

// ResolvedField pairs a schema field with the position of its value container
// in the entity's addon sequence.
type ResolvedField struct {
	Key        string          `json:"key"`
	Definition FieldDefinition `json:"definition"`
	Index      int             `json:"index"`
	// Type is the effective field type (explicit, displayer-declared, or the
	// string default).
	Type FieldType `json:"type"`
}

// ResolvedGroup is the UI-facing view of one schema group merged against an
// entity. It is ephemeral and never persisted.
type ResolvedGroup struct {
	Key        string          `json:"key"`
	Source     string          `json:"source"`
	Name       string          `json:"name"`
	Text       string          `json:"text"`
	Properties map[string]any  `json:"properties"`
	Fields     []ResolvedField `json:"fields"`
}
