package model

// Identity is the composite key of an addon value on an entity. Two values
// with equal identities may not coexist on the same entity.
type Identity struct {
	Group  string `json:"group"`
	Key    string `json:"key"`
	Source string `json:"source"`
}

// AddonValue is the entity-side container holding the stored value of one
// addon field. A nil Value means the container exists but was never filled.
type AddonValue struct {
	Key    string    `json:"key" yaml:"key" toml:"key"`
	Group  string    `json:"group" yaml:"group" toml:"group"`
	Source string    `json:"source" yaml:"source" toml:"source"`
	Type   FieldType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Value  any       `json:"value" yaml:"value" toml:"value,omitempty"`
}

// Identity returns the (group, key, source) triple of the value.
func (v AddonValue) Identity() Identity {
	return Identity{Group: v.Group, Key: v.Key, Source: v.Source}
}

// Addons is the ordered addon sequence of an entity.
type Addons []AddonValue

// Index returns the position of the first value matching id, or -1.
func (a Addons) Index(id Identity) int {
	for idx, value := range a {
		if value.Key == id.Key && value.Source == id.Source && value.Group == id.Group {
			return idx
		}
	}
	return -1
}

// Get returns the value matching id.
func (a Addons) Get(id Identity) (AddonValue, bool) {
	idx := a.Index(id)
	if idx < 0 {
		return AddonValue{}, false
	}
	return a[idx], true
}

// Holder is implemented by domain entities that carry addon values. The
// resolver appends to the sequence returned by AddonValues in place; a nil
// sequence means the holder cannot store values.
type Holder interface {
	AddonValues() *Addons
}

// Entity is a minimal Holder for callers without their own entity types.
type Entity struct {
	Type   string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Addons Addons `json:"addons" yaml:"addons" toml:"addons"`
}

// AddonValues implements Holder. A nil entity has no sequence and returns nil.
func (e *Entity) AddonValues() *Addons {
	if e == nil {
		return nil
	}
	return &e.Addons
}
