package gotemplate_test

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-addons/pkg/render/template/gotemplate"
	"github.com/goliatone/go-addons/pkg/testsupport"
)

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	options = append([]gotemplate.Option{gotemplate.WithFS(os.DirFS("testdata/templates"))}, options...)
	engine, err := gotemplate.New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if got != "Hello Ada!" {
		t.Fatalf("unexpected output %q", got)
	}
	if written != got {
		t.Fatalf("writer mismatch: %q", written)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))

	got, err := engine.Render("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RenderStringWithStructData(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type addon struct {
		Placeholder string `json:"placeholder"`
	}
	got, err := engine.Render(`<addon-string placeholder="{{ addon.placeholder }}"/>`, map[string]any{
		"addon": addon{Placeholder: "Your name"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != `<addon-string placeholder="Your name"/>` {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := engine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("engine without templates should reject named templates")
	}
}

func TestEngine_DefaultFilters(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString(`{{ name|dasherize }}|{{ values|tojson|safe }}|{{ pad|trim }}`, map[string]any{
		"name":   "selectBox",
		"values": []any{"a", "b"},
		"pad":    "  x  ",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != `select-box|["a","b"]|x` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	shout := func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}
	if err := engine.RegisterFilter("addons_shout", shout); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("addons_shout", shout); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	got, err := engine.RenderString(`{{ name|addons_shout }}`, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}
