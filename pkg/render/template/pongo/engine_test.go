package pongo

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-editorkit/pkg/testsupport"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tmpl":      {Data: []byte(`Hello {{ name }}`)},
		"use-global.tmpl": {Data: []byte(`env={{ settings.env }}`)},
		"use-filter.tmpl": {Data: []byte(`{{ name|editorkit_shout }}`)},
		"card.tmpl":       {Data: []byte(`{{ card.name }}:{{ card.query_count }}`)},
	}
	engine, err := New(append([]Option{WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineRenderTemplate(t *testing.T) {
	engine := newTestEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada" || written != result {
		t.Fatalf("unexpected output result=%q written=%q", result, written)
	}
}

func TestEngineEscapesByDefault(t *testing.T) {
	engine := newTestEngine(t)
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestEngineGlobalContext(t *testing.T) {
	engine := newTestEngine(t, WithGlobalData(map[string]any{"settings": map[string]any{"env": "dev"}}))
	if err := engine.GlobalContext(map[string]any{"settings": map[string]any{"env": "staging"}}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	got, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRegisterFilter(t *testing.T) {
	engine := newTestEngine(t)
	err := engine.RegisterFilter("editorkit_shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("editorkit_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	got, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineStructDataUsesJSONNames(t *testing.T) {
	type card struct {
		Name       string `json:"name"`
		QueryCount int    `json:"query_count"`
	}
	engine := newTestEngine(t)
	got, err := engine.RenderTemplate("card", map[string]any{"card": card{Name: "Users DB", QueryCount: 2}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Users DB:2" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRenderString(t *testing.T) {
	engine := newTestEngine(t)
	got, err := engine.Render(`{{ a }}-{{ b }}`, map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "1-two" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func TestEngineKeepsIntegersIntegral(t *testing.T) {
	type bar struct {
		Width int     `json:"width"`
		Ratio float64 `json:"ratio"`
	}
	engine := newTestEngine(t)
	got, err := engine.Render(`{{ bar.width }}px {{ bar.ratio }} {{ raw }}`, map[string]any{
		"bar": bar{Width: 138, Ratio: 1.5},
		"raw": float64(4),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "138px 1.500000 4" {
		t.Fatalf("unexpected output %q", got)
	}
}
