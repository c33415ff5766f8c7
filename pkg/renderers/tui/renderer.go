// Package tui edits addon values interactively in a terminal. Each resolved
// field is prompted according to its displayer and the answer is written into
// the entity's addon container.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions. Unlike the HTML
// renderer it mutates the view's holder.
type Renderer struct {
	driver         PromptDriver
	outputFormat   OutputFormat
	ignoreReadOnly bool
	maxAttempts    int
	theme          Theme
	logger         *slog.Logger
	state          *State
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  3,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialisation format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// State returns the changes recorded by the last Render call.
func (r *Renderer) State() *State {
	return r.state
}

// Render prompts for every resolved field of view and stores the answers in
// view.Holder. The returned payload is the serialised addon sequence.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if view.Holder == nil {
		return nil, errors.New("tui: view has no entity")
	}

	registry := view.DisplayerRegistry()
	ignoreReadOnly := r.ignoreReadOnly || view.Options.IgnoreReadOnly
	addons := view.Holder.AddonValues()
	if addons == nil {
		return nil, errors.New("tui: view has no entity")
	}
	r.state = NewState()

	groups := render.ApplySubset(view.Groups, view.Options.Subset)
	for _, group := range groups {
		if err := r.info(ctx, groupTitle(group)); err != nil {
			return nil, err
		}
		for _, field := range group.Fields {
			if field.Index < 0 || field.Index >= len(*addons) {
				return nil, fmt.Errorf("tui: field %q: index %d out of range", field.Key, field.Index)
			}
			if err := r.promptField(ctx, registry, group, field, addons, ignoreReadOnly); err != nil {
				return nil, err
			}
		}
	}
	return r.serialize(groups, *addons)
}

func (r *Renderer) promptField(ctx context.Context, registry *displayers.Registry, group model.ResolvedGroup, field model.ResolvedField, addons *model.Addons, ignoreReadOnly bool) error {
	definition := field.Definition
	current := (*addons)[field.Index].Value

	if definition.Properties.ReadOnly && !ignoreReadOnly {
		return r.info(ctx, fmt.Sprintf("%s: %s (read-only)", label(field), displayValue(current)))
	}

	name := definition.Displayer
	if definition.Template == nil {
		resolved, err := registry.ResolveName(field.Type, definition.Displayer)
		if err != nil {
			r.logger.Warn("skipping field without displayer", "group", group.Key, "field", field.Key, "error", err)
			return r.info(ctx, fmt.Sprintf("%s: skipped (%v)", label(field), err))
		}
		name = resolved
	}

	value, err := r.ask(ctx, name, field, current)
	if err != nil {
		return fmt.Errorf("tui: field %q: %w", field.Key, err)
	}
	if value == nil && current == nil {
		return nil
	}

	(*addons)[field.Index].Value = value
	if (*addons)[field.Index].Type == "" {
		(*addons)[field.Index].Type = field.Type
	}
	r.state.Set((*addons)[field.Index].Identity(), value)
	return nil
}

func (r *Renderer) ask(ctx context.Context, displayer string, field model.ResolvedField, current any) (any, error) {
	message := r.theme.PromptPrefix + label(field)
	help := field.Definition.Placeholder

	if displayer == displayers.DisplayerSelectBox && len(field.Definition.Properties.ListValues) > 0 {
		return r.askSelect(ctx, message, help, field.Definition.Properties.ListValues, current)
	}

	multiline := displayer == displayers.DisplayerTextarea || displayer == displayers.DisplayerWysiwyg
	if field.Type == model.FieldTypeJSON {
		return r.askJSON(ctx, message, help, current, multiline)
	}

	var (
		answer string
		err    error
	)
	if multiline {
		answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: message, Help: help, Default: displayValue(current)})
	} else {
		answer, err = r.driver.Input(ctx, InputConfig{Message: message, Help: help, Default: displayValue(current)})
	}
	if err != nil {
		return nil, err
	}
	if answer == "" && current == nil {
		return nil, nil
	}
	return answer, nil
}

func (r *Renderer) askSelect(ctx context.Context, message, help string, values []any, current any) (any, error) {
	options := make([]string, len(values))
	defaultIndex := 0
	for i, value := range values {
		options[i] = fmt.Sprint(value)
		if current != nil && options[i] == fmt.Sprint(current) {
			defaultIndex = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Help:         help,
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(values) {
		return nil, fmt.Errorf("selection %d out of range", idx)
	}
	return values[idx], nil
}

func (r *Renderer) askJSON(ctx context.Context, message, help string, current any, multiline bool) (any, error) {
	initial := ""
	if current != nil {
		if payload, err := json.MarshalIndent(current, "", "  "); err == nil {
			initial = string(payload)
		}
	}

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		var (
			answer string
			err    error
		)
		if multiline {
			answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: message, Help: help, Default: initial})
		} else {
			answer, err = r.driver.Input(ctx, InputConfig{Message: message, Help: help, Default: initial, Validator: validateJSON})
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			return current, nil
		}

		var decoded any
		err = json.Unmarshal([]byte(answer), &decoded)
		if err == nil {
			return decoded, nil
		}
		if err := r.info(ctx, fmt.Sprintf("invalid JSON: %v", err)); err != nil {
			return nil, err
		}
	}
	return nil, ErrInvalidJSON
}

func validateJSON(input string) error {
	if strings.TrimSpace(input) == "" || json.Valid([]byte(input)) {
		return nil
	}
	return ErrInvalidJSON
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) serialize(groups []model.ResolvedGroup, addons model.Addons) ([]byte, error) {
	if r.outputFormat != OutputFormatPrettyText {
		payload, err := json.MarshalIndent(addons, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode addons: %w", err)
		}
		return payload, nil
	}

	var b strings.Builder
	for _, group := range groups {
		for _, field := range group.Fields {
			fmt.Fprintf(&b, "%s/%s/%s = %s\n", group.Source, group.Key, field.Key, displayValue(addons[field.Index].Value))
		}
	}
	return []byte(b.String()), nil
}

func groupTitle(group model.ResolvedGroup) string {
	name := group.Name
	if name == "" {
		name = group.Key
	}
	return fmt.Sprintf("== %s (%s) ==", name, group.Source)
}

func label(field model.ResolvedField) string {
	if field.Type == "" {
		return field.Key
	}
	return fmt.Sprintf("%s [%s]", field.Key, field.Type)
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(payload)
	}
}
