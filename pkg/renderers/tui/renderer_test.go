package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addons/pkg/displayers"
	"github.com/goliatone/go-addons/pkg/model"
	"github.com/goliatone/go-addons/pkg/render"
	"github.com/goliatone/go-addons/pkg/resolver"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	selects      []SelectConfig
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func editSchema() model.EntityTypeSchema {
	return model.EntityTypeSchema{Sources: []model.SourceSchema{{
		Name: "platform",
		Groups: []model.GroupSchema{{
			Key:  "contact",
			Name: "Contact",
			Fields: []model.FieldDefinition{
				{Key: "email", Type: model.FieldTypeString, Placeholder: "you@example.com"},
				{Key: "bio", Type: model.FieldTypeHTML},
				{Key: "kind", Displayer: displayers.DisplayerSelectBox, Properties: model.FieldProperties{
					ListValues: []any{"sales", "support"},
				}},
				{Key: "locked", Type: model.FieldTypeString, Properties: model.FieldProperties{ReadOnly: true}},
				{Key: "settings", Type: model.FieldTypeJSON},
			},
		}},
	}}}
}

func newView(entity *model.Entity) render.View {
	r := resolver.New(nil)
	return render.View{
		Groups:   r.Merge(editSchema(), entity),
		Holder:   entity,
		Registry: r.Registry(),
	}
}

func TestRender_WritesAnswersIntoContainers(t *testing.T) {
	entity := &model.Entity{Addons: model.Addons{
		{Key: "kind", Group: "contact", Source: "platform", Value: "support"},
	}}
	driver := &stubDriver{
		inputs:    []string{"a@example.com"},
		textAreas: []string{"<p>hi</p>", "{bad", `{"a":1}`},
		selectIdx: []int{0},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), newView(entity))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := model.Addons{
		{Key: "kind", Group: "contact", Source: "platform", Type: model.FieldTypeString, Value: "sales"},
		{Key: "email", Group: "contact", Source: "platform", Type: model.FieldTypeString, Value: "a@example.com"},
		{Key: "bio", Group: "contact", Source: "platform", Type: model.FieldTypeHTML, Value: "<p>hi</p>"},
		{Key: "locked", Group: "contact", Source: "platform", Type: model.FieldTypeString},
		{Key: "settings", Group: "contact", Source: "platform", Type: model.FieldTypeJSON, Value: map[string]any{"a": float64(1)}},
	}
	if diff := cmp.Diff(want, entity.Addons); diff != "" {
		t.Fatalf("addons mismatch (-want +got):\n%s", diff)
	}

	if len(driver.selects) != 1 || driver.selects[0].DefaultIndex != 1 {
		t.Fatalf("select should default to the stored value: %+v", driver.selects)
	}
	if !containsMessage(driver.infoMessages, "(read-only)") {
		t.Fatalf("read-only field not reported: %v", driver.infoMessages)
	}
	if !containsMessage(driver.infoMessages, "invalid JSON") {
		t.Fatalf("invalid JSON not reported: %v", driver.infoMessages)
	}
	if got := r.State().Len(); got != 4 {
		t.Fatalf("expected 4 changed values, got %d", got)
	}

	var decoded model.Addons
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not an addon sequence: %v", err)
	}
	if len(decoded) != len(entity.Addons) {
		t.Fatalf("unexpected output length %d", len(decoded))
	}
}

func TestRender_IgnoreReadOnlyPrompts(t *testing.T) {
	entity := &model.Entity{}
	driver := &stubDriver{
		inputs:    []string{"", "unlocked"},
		textAreas: []string{"", ""},
		selectIdx: []int{1},
	}
	r, err := New(WithPromptDriver(driver), WithIgnoreReadOnly(true), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), newView(entity))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	locked, _ := entity.Addons.Get(model.Identity{Group: "contact", Key: "locked", Source: "platform"})
	if locked.Value != "unlocked" {
		t.Fatalf("read-only field should be editable: %#v", locked)
	}
	email, _ := entity.Addons.Get(model.Identity{Group: "contact", Key: "email", Source: "platform"})
	if email.Value != nil {
		t.Fatalf("blank answer must leave an empty container untouched: %#v", email)
	}
	if !strings.Contains(string(out), "platform/contact/locked = unlocked\n") {
		t.Fatalf("unexpected pretty output:\n%s", out)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRender_InvalidJSONExhaustsAttempts(t *testing.T) {
	entity := &model.Entity{}
	view := newView(entity)
	view.Options.Subset = render.Subset{Groups: []string{"contact"}}
	view.Groups[0].Fields = view.Groups[0].Fields[4:]

	driver := &stubDriver{textAreas: []string{"{", "[", "nope"}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(3))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if _, err := r.Render(context.Background(), view); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	entity := &model.Entity{}
	r, err := New(WithPromptDriver(abortingDriver{&stubDriver{}}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), newView(entity)); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_RequiresHolder(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), render.View{}); err == nil {
		t.Fatalf("expected error without holder")
	}
}

type abortingDriver struct{ *stubDriver }

func (abortingDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }

func (abortingDriver) Info(context.Context, string) error { return nil }

func containsMessage(messages []string, fragment string) bool {
	for _, msg := range messages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
