package render

import (
	"context"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
)

// Renderer turns resolved addon groups into a byte representation (HTML,
// terminal prompts, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View) ([]byte, error)
}

// View is the renderer input: the resolved group tree together with the entity
// it was merged into. Field indexes in Groups point into Holder's addons.
type View struct {
	Groups   []model.ResolvedGroup
	Holder   model.Holder
	Registry *displayers.Registry
	Options  RenderOptions
}

// Value returns the stored value of field, or nil when the holder is missing
// or the index is out of range.
func (v View) Value(field model.ResolvedField) any {
	addon, ok := v.Addon(field)
	if !ok {
		return nil
	}
	return addon.Value
}

// Addon returns the entity-side container of field.
func (v View) Addon(field model.ResolvedField) (model.AddonValue, bool) {
	if v.Holder == nil {
		return model.AddonValue{}, false
	}
	addons := v.Holder.AddonValues()
	if addons == nil || field.Index < 0 || field.Index >= len(*addons) {
		return model.AddonValue{}, false
	}
	return (*addons)[field.Index], true
}

// DisplayerRegistry returns the view registry, falling back to the built-ins.
func (v View) DisplayerRegistry() *displayers.Registry {
	if v.Registry != nil {
		return v.Registry
	}
	return displayers.NewRegistry()
}
