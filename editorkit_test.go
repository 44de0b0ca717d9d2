package editorkit

import (
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-editorkit/pkg/form"
	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/store"
	"github.com/goliatone/go-editorkit/pkg/testsupport"
	"github.com/goliatone/go-editorkit/pkg/widgets/themeselector"
)

func TestAssetsFSContainsStylesheetAndScript(t *testing.T) {
	for _, name := range []string{"editorkit.css", "editorkit.js"} {
		if _, err := fs.ReadFile(AssetsFS(), name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
	data, err := fs.ReadFile(AssetsFS(), "editorkit.js")
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(data), "/ws") {
		t.Fatalf("expected script to subscribe to store snapshots")
	}
	for _, route := range []string{`"/values"`, `"/submit"`, `"/reset"`, `"/items"`, `"/items/remove"`, `"create"`, "preventDefault"} {
		if !strings.Contains(string(data), route) {
			t.Fatalf("expected script to wire %s", route)
		}
	}
}

func TestRenderFormFromSample(t *testing.T) {
	src := Source{Kind: SourceSample, Data: []byte(`{"name":"Ada","email":"ada@example.com","active":true}`)}

	rendered, err := RenderForm(testsupport.Context(), src, WithValue(formvalue.Value{"name": "Grace", "unknown": 1}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := testsupport.CountOccurrences(rendered.HTML, `data-field-path="`); got != 3 {
		t.Fatalf("expected 3 fields, got %d:\n%s", got, rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, `value="Grace"`) {
		t.Fatalf("expected prefilled value:\n%s", rendered.HTML)
	}
	if rendered.Theme != nil {
		t.Fatalf("no theme requested")
	}
}

func TestRenderSchemaAppliesThemeVariables(t *testing.T) {
	state, err := store.LoadStateFile(os.DirFS("pkg/store/testdata"), "workspace.yaml")
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	selector := themeselector.NewSelector(store.NewMemory(state))

	rendered, err := RenderSchema(testsupport.Context(), testsupport.SchemaOf("title"),
		WithThemeSelector(selector, "modern", "dark"),
		WithFormOptions(form.WithTitle("Profile")),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rendered.Theme == nil || rendered.Theme.Tokens["brand"] != "#a78bfa" {
		t.Fatalf("expected dark variant tokens, got %+v", rendered.Theme)
	}
	for _, want := range []string{`data-theme="modern"`, `data-variant="dark"`, "--brand: #a78bfa", "Profile"} {
		if !strings.Contains(rendered.HTML, want) {
			t.Fatalf("expected %q in output:\n%s", want, rendered.HTML)
		}
	}
}

func TestRenderFormOverLimit(t *testing.T) {
	rendered, err := RenderSchema(testsupport.Context(), testsupport.SchemaOf("a", "b", "c"),
		WithMaxAllowedFields(2),
		WithFormOptions(form.WithRenderMode(form.RenderModePage)),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !rendered.Form.LimitExceeded {
		t.Fatalf("expected over-limit result")
	}
	if !strings.Contains(rendered.HTML, "Source data exceeds 2 fields.") {
		t.Fatalf("expected limit message:\n%s", rendered.HTML)
	}
}

func TestLoadSchemaRejectsUnknownKind(t *testing.T) {
	if _, err := LoadSchema(testsupport.Context(), Source{Kind: "xml"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
