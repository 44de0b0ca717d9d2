package form

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

func newTestComposite(t *testing.T, opts ...Option) *Composite {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("new composite: %v", err)
	}
	return c
}

func customerSchema() schema.Schema {
	return schema.New(
		&schema.Node{Key: "name", FieldType: schema.FieldTypeText, Config: schema.Config{
			Validation: schema.Validation{Required: true},
		}},
		&schema.Node{Key: "age", FieldType: schema.FieldTypeNumber},
		&schema.Node{Key: "active", FieldType: schema.FieldTypeSwitch},
		&schema.Node{Key: "plan", FieldType: schema.FieldTypeSelect, Config: schema.Config{
			Options: []schema.Option{{Label: "Free", Value: "free"}, {Label: "Pro", Value: "pro"}},
		}},
		&schema.Node{Key: "address", FieldType: schema.FieldTypeObject, Children: []*schema.Node{
			{Key: "city", FieldType: schema.FieldTypeText},
			{Key: "zip", FieldType: schema.FieldTypeText},
		}},
	)
}

func paths(elements []Element) []string {
	out := make([]string, 0, len(elements))
	for _, element := range elements {
		out = append(out, element.Path)
	}
	return out
}

func TestRenderOneElementPerNodeInSchemaOrder(t *testing.T) {
	c := newTestComposite(t)
	s := customerSchema()

	result, err := c.Render(nil, Props{Schema: s, Value: formvalue.Defaults(s)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{"name", "age", "active", "plan", "address", "address.city", "address.zip"}
	if diff := cmp.Diff(want, paths(result.Elements)); diff != "" {
		t.Fatalf("element order mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Count(result.HTML, `data-field-path="`); got != s.CountFields() {
		t.Fatalf("expected %d field elements in HTML, got %d", s.CountFields(), got)
	}

	last := -1
	for _, path := range want {
		idx := strings.Index(result.HTML, fmt.Sprintf(`data-field-path="%s"`, path))
		if idx <= last {
			t.Fatalf("field %q rendered out of order", path)
		}
		last = idx
	}
	if !strings.Contains(result.HTML, `data-action="submit"`) || !strings.Contains(result.HTML, `data-action="reset"`) {
		t.Fatalf("expected submit and reset controls")
	}
}

func TestRenderUnknownTypeRendersNothing(t *testing.T) {
	c := newTestComposite(t)
	s := schema.New(
		&schema.Node{Key: "before", FieldType: schema.FieldTypeText},
		&schema.Node{Key: "mystery", FieldType: "hologram"},
		&schema.Node{Key: "after", FieldType: schema.FieldTypeEmail},
	)

	result, err := c.Render(nil, Props{Schema: s, Value: formvalue.Defaults(s)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"before", "after"}, paths(result.Elements)); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(result.HTML, "mystery") {
		t.Fatalf("unknown field leaked into output")
	}
}

func TestRenderOverLimitSuppressesFields(t *testing.T) {
	c := newTestComposite(t)
	keys := make([]*schema.Node, 0, 51)
	for i := 0; i < 51; i++ {
		keys = append(keys, &schema.Node{Key: fmt.Sprintf("f%d", i), FieldType: schema.FieldTypeText})
	}
	s := schema.New(keys...)
	if !schema.ExceedsLimit(s, 0) {
		t.Fatalf("expected 51 fields to exceed the default ceiling")
	}

	for _, tc := range []struct {
		mode RenderMode
		want string
	}{
		{RenderModeCanvas, MessageLimitCanvas},
		{RenderModePage, MessageLimitPage},
	} {
		result, err := c.Render(nil, Props{Schema: s, FieldLimitExceeded: true, RenderMode: tc.mode})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !result.LimitExceeded || len(result.Elements) != 0 {
			t.Fatalf("expected limit state without elements, got %+v", result.Elements)
		}
		if strings.Contains(result.HTML, "data-field-path") || strings.Contains(result.HTML, `data-action="submit"`) {
			t.Fatalf("fields or controls rendered over the limit")
		}
		if !strings.Contains(result.HTML, "Source data exceeds 50 fields.") || !strings.Contains(result.HTML, tc.want) {
			t.Fatalf("missing limit message for %s: %s", tc.mode, result.HTML)
		}
	}
}

func TestRenderOverLimitWinsOverEmpty(t *testing.T) {
	c := newTestComposite(t)
	result, err := c.Render(nil, Props{FieldLimitExceeded: true, MaxAllowedFields: 10})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Empty || !result.LimitExceeded {
		t.Fatalf("expected limit state, got empty=%v limit=%v", result.Empty, result.LimitExceeded)
	}
	if !strings.Contains(result.HTML, "Source data exceeds 10 fields.") {
		t.Fatalf("expected configured ceiling in message: %s", result.HTML)
	}
}

func TestRenderEmptySchema(t *testing.T) {
	c := newTestComposite(t)
	for _, s := range []schema.Schema{{}, schema.New()} {
		result, err := c.Render(nil, Props{Schema: s})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !result.Empty {
			t.Fatalf("expected empty state")
		}
		if !strings.Contains(result.HTML, MessageEmpty) {
			t.Fatalf("missing empty message: %s", result.HTML)
		}
		if strings.Contains(result.HTML, `data-action="submit"`) || strings.Contains(result.HTML, `data-action="reset"`) {
			t.Fatalf("controls rendered for empty schema")
		}
	}
}

func TestRenderArrayItemsAndHiddenNodes(t *testing.T) {
	c := newTestComposite(t)
	s := schema.New(
		&schema.Node{Key: "secret", FieldType: schema.FieldTypeText, Config: schema.Config{Hidden: true}},
		&schema.Node{Key: "tags", FieldType: schema.FieldTypeArray, Children: []*schema.Node{
			{Key: schema.ArrayItemKey, FieldType: schema.FieldTypeText},
		}},
	)
	value := formvalue.Value{"secret": "", "tags": []any{"a", "b"}}

	elements, err := c.Walk(nil, s.Root, value)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if diff := cmp.Diff([]string{"secret", "tags", "tags.0", "tags.1"}, paths(elements)); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
	if !elements[0].Hidden || !strings.Contains(elements[0].HTML, " hidden>") {
		t.Fatalf("expected hidden element, got %q", elements[0].HTML)
	}
	if elements[2].Depth != 1 || !strings.Contains(elements[1].HTML, `value="b"`) {
		t.Fatalf("expected nested item markup, got %q", elements[1].HTML)
	}
}

func TestRenderReportsMetaState(t *testing.T) {
	c := newTestComposite(t)
	s := customerSchema()
	var meta MetaState
	rc := &RenderContext{
		SetMetaInternalFieldState: func(update func(MetaState) MetaState) {
			meta = update(MetaState{FieldState: map[string]FieldState{}})
		},
	}

	if _, err := c.Render(rc, Props{Schema: s, Value: formvalue.Defaults(s)}); err != nil {
		t.Fatalf("render: %v", err)
	}
	name, ok := meta.FieldState["name"]
	if !ok {
		t.Fatalf("name field state not reported: %+v", meta)
	}
	if name.IsValid || !name.IsRequired || !name.IsVisible {
		t.Fatalf("unexpected name state %+v", name)
	}
	if _, ok := meta.FieldState["address"]; ok {
		t.Fatalf("containers should not report field state")
	}
	if _, ok := meta.FieldState["address.city"]; !ok {
		t.Fatalf("nested leaf not reported")
	}
}

func TestRenderUsesPartialOverrides(t *testing.T) {
	engine := newStubRenderer(map[string]string{
		"custom/input.tmpl": "<custom-input/>",
	})
	c := newTestComposite(t, WithTemplates(engine), WithPartials(map[string]string{"forms.input": "custom/input.tmpl"}))
	s := schema.New(&schema.Node{Key: "name", FieldType: schema.FieldTypeText})

	elements, err := c.Walk(nil, s.Root, formvalue.Defaults(s))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !strings.Contains(elements[0].HTML, "<custom-input/>") {
		t.Fatalf("expected partial override, got %q", elements[0].HTML)
	}
}

func TestStyleCSS(t *testing.T) {
	style := Style{BackgroundColor: "#fff", BorderWidth: "1px", BorderRadius: "4px"}
	want := "background-color: #fff; border-width: 1px; border-radius: 4px; border-style: solid"
	if got := style.CSS(); got != want {
		t.Fatalf("css mismatch\nwant: %q\n got: %q", want, got)
	}
}
