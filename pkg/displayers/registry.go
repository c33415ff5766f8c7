package displayers

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-addons/pkg/model"
)

// Built-in displayer identifiers registered by NewRegistry.
const (
	DisplayerString    = "string"
	DisplayerTextarea  = "textarea"
	DisplayerWysiwyg   = "wysiwyg"
	DisplayerSelectBox = "selectBox"
)

// Displayer is a named rendering behaviour. Type reports the kind of value the
// displayer edits and ExtraAttributes contributes raw attributes to the
// generated markup.
type Displayer interface {
	Type() model.FieldType
	ExtraAttributes() string
}

// Descriptor adapts plain functions to the Displayer interface. A nil
// ExtraAttributesFn contributes nothing; a nil TypeFn declares no type.
type Descriptor struct {
	TypeFn            func() model.FieldType
	ExtraAttributesFn func() string
}

// Type implements Displayer.
func (d Descriptor) Type() model.FieldType {
	if d.TypeFn == nil {
		return ""
	}
	return d.TypeFn()
}

// ExtraAttributes implements Displayer.
func (d Descriptor) ExtraAttributes() string {
	if d.ExtraAttributesFn == nil {
		return ""
	}
	return d.ExtraAttributesFn()
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger routes registration diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStrictRegistration turns duplicate registrations into errors. The first
// registration still wins.
func WithStrictRegistration() Option {
	return func(r *Registry) {
		r.strict = true
	}
}

// WithoutBuiltins skips the built-in displayers.
func WithoutBuiltins() Option {
	return func(r *Registry) {
		r.skipBuiltins = true
	}
}

// WithDefaultDisplayer maps a field type to the displayer used when a field
// definition names none.
func WithDefaultDisplayer(fieldType model.FieldType, name string) Option {
	return func(r *Registry) {
		name = strings.TrimSpace(name)
		if fieldType == "" || name == "" {
			return
		}
		r.defaults[fieldType] = name
	}
}

// Registry maps displayer names to behaviours and field types to default
// displayers. It is populated during start-up and read concurrently
// afterwards.
type Registry struct {
	mu           sync.RWMutex
	displayers   map[string]Displayer
	defaults     map[model.FieldType]string
	logger       *slog.Logger
	strict       bool
	skipBuiltins bool
}

// NewRegistry constructs a registry with the default type table and, unless
// WithoutBuiltins is given, the built-in displayers registered.
func NewRegistry(options ...Option) *Registry {
	reg := &Registry{
		displayers: make(map[string]Displayer),
		defaults: map[model.FieldType]string{
			model.FieldTypeHTML:   DisplayerWysiwyg,
			model.FieldTypeString: DisplayerString,
			model.FieldTypeJSON:   DisplayerTextarea,
		},
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	if !reg.skipBuiltins {
		reg.registerBuiltins()
	}
	return reg
}

// Register adds displayer under name. When name is already taken the existing
// displayer is kept and a warning is logged; strict registries additionally
// return a *RegistrationConflictError.
func (r *Registry) Register(name string, displayer Displayer) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDisplayer)
	}
	if displayer == nil {
		return fmt.Errorf("%w: displayer %q is nil", ErrInvalidDisplayer, trimmed)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.displayers[trimmed]; exists {
		r.logger.Warn("displayer already registered", "name", trimmed)
		if r.strict {
			return &RegistrationConflictError{Name: trimmed}
		}
		return nil
	}

	r.displayers[trimmed] = displayer
	r.logger.Debug("registered displayer", "name", trimmed)
	return nil
}

// MustRegister panics when Register fails. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, displayer Displayer) {
	if err := r.Register(name, displayer); err != nil {
		panic(err)
	}
}

// Lookup returns the displayer registered under name.
func (r *Registry) Lookup(name string) (Displayer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	displayer, ok := r.displayers[name]
	return displayer, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered displayer names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.displayers))
	for name := range r.displayers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultDisplayer returns the displayer name configured for fieldType.
func (r *Registry) DefaultDisplayer(fieldType model.FieldType) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.defaults[fieldType]
	return name, ok
}

// InferType returns the effective type of a field: the explicit type when set,
// otherwise the type declared by the named displayer, otherwise string.
func (r *Registry) InferType(explicit model.FieldType, displayerName string) model.FieldType {
	if explicit != "" {
		return explicit
	}
	if displayer, ok := r.Lookup(displayerName); ok {
		if declared := displayer.Type(); declared != "" {
			return declared
		}
	}
	return model.FieldTypeString
}

// ResolveName returns the explicit displayer name when set, otherwise the
// default displayer for fieldType. It fails with *UnresolvedDisplayerError
// when neither applies.
func (r *Registry) ResolveName(fieldType model.FieldType, explicit string) (string, error) {
	if name := strings.TrimSpace(explicit); name != "" {
		return name, nil
	}
	if name, ok := r.DefaultDisplayer(fieldType); ok {
		return name, nil
	}
	return "", &UnresolvedDisplayerError{FieldType: fieldType, Displayer: explicit}
}

func (r *Registry) registerBuiltins() {
	builtins := []struct {
		name      string
		displayer Displayer
	}{
		{DisplayerString, Descriptor{TypeFn: fieldType(model.FieldTypeString)}},
		{DisplayerTextarea, Descriptor{TypeFn: fieldType(model.FieldTypeString)}},
		{DisplayerWysiwyg, Descriptor{TypeFn: fieldType(model.FieldTypeHTML)}},
		{DisplayerSelectBox, Descriptor{
			TypeFn: fieldType(model.FieldTypeString),
			ExtraAttributesFn: func() string {
				return "options=addon.properties.listValues"
			},
		}},
	}
	for _, builtin := range builtins {
		_ = r.Register(builtin.name, builtin.displayer)
	}
}

func fieldType(t model.FieldType) func() model.FieldType {
	return func() model.FieldType { return t }
}
