// Package html renders resolved addon groups as HTML fieldsets whose controls
// are the custom elements described by each field's displayer.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/render"
	rendertemplate "github.com/goliatone/go-addons/pkg/render/template"
	"github.com/goliatone/go-addons/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	ignoreReadOnly   bool
	placeholders     bool
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle. It must provide the
// template named by DefaultTemplate or the theme's "addons.form" partial.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a template engine, bypassing the built-in
// pongo2 engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies theme classes, CSS variables, the stylesheet asset and
// template partial overrides.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithIgnoreReadOnly renders read-only fields as editable.
func WithIgnoreReadOnly(ignore bool) Option {
	return func(cfg *config) {
		cfg.ignoreReadOnly = ignore
	}
}

// WithPlaceholders renders fields whose displayer cannot be resolved as a
// visible <addon-unresolved> element instead of failing the whole render.
func WithPlaceholders(enabled bool) Option {
	return func(cfg *config) {
		cfg.placeholders = enabled
	}
}

// WithLogger routes render diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer is the reference HTML renderer.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	theme          themeContext
	ignoreReadOnly bool
	placeholders   bool
	logger         *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithSetName("addons-html"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:      templates,
		theme:          buildThemeContext(cfg.theme),
		ignoreReadOnly: cfg.ignoreReadOnly,
		placeholders:   cfg.placeholders,
		logger:         cfg.logger,
	}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	registry := view.DisplayerRegistry()
	opts := displayers.RenderOptions{
		IgnoreReadOnly: r.ignoreReadOnly || view.Options.IgnoreReadOnly,
	}

	groups := render.ApplySubset(view.Groups, view.Options.Subset)
	groupData := make([]any, 0, len(groups))
	for _, group := range groups {
		fields := make([]any, 0, len(group.Fields))
		for _, field := range group.Fields {
			data, err := r.renderField(registry, view, field, opts)
			if err != nil {
				return nil, fmt.Errorf("html renderer: group %q: %w", group.Key, err)
			}
			fields = append(fields, data)
		}
		groupData = append(groupData, map[string]any{
			"key":        group.Key,
			"source":     group.Source,
			"name":       group.Name,
			"text":       sanitizeText(group.Text),
			"properties": group.Properties,
			"fields":     fields,
		})
	}

	name := DefaultTemplate
	if r.theme.template != "" {
		name = r.theme.template
	}
	out, err := r.templates.RenderTemplate(name, map[string]any{
		"groups":     groupData,
		"theme":      r.theme.data(),
		"stylesheet": r.theme.stylesheet,
		"classes":    defaultClasses(),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) renderField(registry *displayers.Registry, view render.View, field model.ResolvedField, opts displayers.RenderOptions) (map[string]any, error) {
	value := view.Value(field)
	data := map[string]any{
		"key":   field.Key,
		"index": field.Index,
		"type":  string(field.Type),
		"value": value,
	}

	descriptor, err := registry.Displayer(field.Type, field.Definition, opts)
	if err != nil {
		if !r.placeholders {
			return nil, err
		}
		r.logger.Warn("rendering placeholder for unresolved field", "field", field.Key, "error", err)
		data["control"] = displayers.Placeholder(field.Key, err)
		return data, nil
	}

	control, err := r.templates.RenderString(descriptor.Markup(), map[string]any{
		"addon": fieldContext(field.Definition),
		"value": value,
		"index": field.Index,
	})
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field.Key, err)
	}
	data["control"] = control
	data["displayer"] = descriptor.Displayer
	data["disabled"] = descriptor.Disabled
	return data, nil
}

// fieldContext exposes a definition to display templates. Free-form
// properties sit next to readOnly and listValues, as schema authors wrote
// them.
func fieldContext(definition model.FieldDefinition) map[string]any {
	properties := make(map[string]any, len(definition.Properties.Extra)+2)
	for key, value := range definition.Properties.Extra {
		properties[key] = value
	}
	properties["readOnly"] = definition.Properties.ReadOnly
	if definition.Properties.ListValues != nil {
		properties["listValues"] = definition.Properties.ListValues
	}

	return map[string]any{
		"key":         definition.Key,
		"type":        string(definition.Type),
		"displayer":   definition.Displayer,
		"placeholder": definition.Placeholder,
		"properties":  properties,
	}
}
