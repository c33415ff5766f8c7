package displayers

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/goliatone/go-addons/pkg/model"
)

// TagPrefix is prepended to every dasherized displayer name to form the
// custom element tag.
const TagPrefix = "addon-"

// RenderOptions tweak descriptor generation per call.
type RenderOptions struct {
	// IgnoreReadOnly keeps read-only fields editable, e.g. for administrators.
	IgnoreReadOnly bool
}

// RenderDescriptor is the structured form of the markup handed to the
// renderer. When Template is set it is the whole descriptor.
type RenderDescriptor struct {
	Displayer  string
	Tag        string
	Disabled   bool
	Extra      string
	Template   string
	IsTemplate bool
}

// Markup renders the descriptor as the element string consumed by renderers.
func (d RenderDescriptor) Markup() string {
	if d.IsTemplate {
		return d.Template
	}

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(d.Tag)
	b.WriteString(` placeholder="{{addon.placeholder}}" value=value `)
	if d.Disabled {
		b.WriteString("disabled='disabled' ")
	}
	b.WriteString(d.Extra)
	b.WriteString("/>")
	return b.String()
}

// String implements fmt.Stringer.
func (d RenderDescriptor) String() string {
	return d.Markup()
}

// BuildRenderDescriptor produces the descriptor for displayerName and
// definition. A template on the definition overrides every other rule.
func (r *Registry) BuildRenderDescriptor(displayerName string, definition model.FieldDefinition, opts RenderOptions) RenderDescriptor {
	if definition.Template != nil {
		return RenderDescriptor{
			Displayer:  displayerName,
			Template:   *definition.Template,
			IsTemplate: true,
		}
	}

	descriptor := RenderDescriptor{
		Displayer: displayerName,
		Tag:       TagPrefix + Dasherize(displayerName),
		Disabled:  definition.Properties.ReadOnly && !opts.IgnoreReadOnly,
	}
	if displayer, ok := r.Lookup(displayerName); ok {
		descriptor.Extra = displayer.ExtraAttributes()
	}
	return descriptor
}

// Displayer resolves the displayer for a field of the given type and returns
// its descriptor. Fields carrying a template never fail to resolve.
func (r *Registry) Displayer(fieldType model.FieldType, definition model.FieldDefinition, opts RenderOptions) (RenderDescriptor, error) {
	if definition.Template != nil {
		return r.BuildRenderDescriptor(definition.Displayer, definition, opts), nil
	}
	name, err := r.ResolveName(fieldType, definition.Displayer)
	if err != nil {
		var unresolved *UnresolvedDisplayerError
		if errors.As(err, &unresolved) {
			unresolved.Field = definition.Key
		}
		return RenderDescriptor{}, err
	}
	return r.BuildRenderDescriptor(name, definition, opts), nil
}

// Dasherize converts each upper-case letter into "-" followed by its lower
// case form: "selectBox" becomes "select-box".
func Dasherize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Placeholder returns a visible element describing why a field could not be
// displayed, so broken schemas do not render as blank fields.
func Placeholder(field string, err error) string {
	message := "unresolved displayer"
	if err != nil {
		message = err.Error()
	}
	return fmt.Sprintf(
		`<addon-unresolved data-field="%s" data-error="%s">%s</addon-unresolved>`,
		html.EscapeString(field),
		html.EscapeString(message),
		html.EscapeString(message),
	)
}
