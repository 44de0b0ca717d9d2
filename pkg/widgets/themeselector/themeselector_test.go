package themeselector

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/store"
)

func newStore(t *testing.T) *store.Memory {
	t.Helper()
	state, err := store.LoadStateFile(os.DirFS("../../store/testdata"), "workspace.yaml")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return store.NewMemory(state)
}

func TestPartitionKeepsOrder(t *testing.T) {
	themes := []entities.AppTheme{
		{ID: "a", IsSystemTheme: true},
		{ID: "b"},
		{ID: "c", IsSystemTheme: true},
		{ID: "d"},
	}
	user, featured := Partition(themes)

	ids := func(items []entities.AppTheme) []string {
		var out []string
		for _, item := range items {
			out = append(out, item.ID)
		}
		return out
	}
	if diff := cmp.Diff([]string{"b", "d"}, ids(user)); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "c"}, ids(featured)); diff != "" {
		t.Fatalf("featured mismatch (-want +got):\n%s", diff)
	}
}

func TestBackPopsThemingStack(t *testing.T) {
	mem := newStore(t)
	pane, err := New(Deps{Store: mem, Dispatch: mem})
	if err != nil {
		t.Fatalf("new pane: %v", err)
	}

	pane.Back()
	if diff := cmp.Diff([]string{"properties"}, mem.State().ThemingStack); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
	pane.Back()
	pane.Back()

	dispatched := mem.Dispatched()
	if len(dispatched) != 3 {
		t.Fatalf("expected 3 dispatches, got %d", len(dispatched))
	}
	for _, action := range dispatched {
		if action.Type != store.SetAppThemingStack {
			t.Fatalf("unexpected action %s", action.Type)
		}
	}
	if got := dispatched[1].Payload.(store.ThemingStackPayload).Stack; len(got) != 0 {
		t.Fatalf("one-entry stack must pop to empty, got %v", got)
	}
	if got := dispatched[2].Payload.(store.ThemingStackPayload).Stack; len(got) != 0 {
		t.Fatalf("empty stack must stay empty, got %v", got)
	}
}

func TestViewSections(t *testing.T) {
	mem := newStore(t)
	pane, err := New(Deps{Store: mem, Dispatch: mem})
	if err != nil {
		t.Fatalf("new pane: %v", err)
	}

	view := pane.View()
	var titles []string
	for _, section := range view.Sections {
		titles = append(titles, section.Title)
	}
	if diff := cmp.Diff([]string{TitleApplied, TitleUser, TitleFeatured}, titles); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if !view.Sections[0].Collapsed || view.Sections[0].Themes[0].ID != "th-classic" {
		t.Fatalf("unexpected applied section %+v", view.Sections[0])
	}
	if !view.Sections[1].Themes[0].Deletable || view.Sections[2].Themes[0].Deletable {
		t.Fatalf("only user themes are deletable")
	}

	state := mem.State()
	state.Themes = state.Themes[:2]
	mem.Replace(state)
	view = pane.View()
	for _, section := range view.Sections {
		if section.Title == TitleUser {
			t.Fatalf("user section must be hidden without user themes")
		}
	}

	html, err := pane.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Applied Theme", "Featured Themes", `data-theme-id="th-modern"`, "--theme-primary: #553de9"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in pane html:\n%s", want, html)
		}
	}
	if strings.Contains(html, "Your Themes") {
		t.Fatalf("user section rendered without user themes:\n%s", html)
	}
}

func TestApplyDispatchesSelection(t *testing.T) {
	mem := newStore(t)
	pane, err := New(Deps{Store: mem, Dispatch: mem})
	if err != nil {
		t.Fatalf("new pane: %v", err)
	}
	if pane.Apply("missing") {
		t.Fatalf("unknown theme must not apply")
	}
	if !pane.Apply("th-mine") {
		t.Fatalf("expected apply")
	}
	if mem.State().SelectedThemeID != "th-mine" {
		t.Fatalf("selection not stored")
	}
}

func TestResolveMergesVariantOverBase(t *testing.T) {
	manifest := &theme.Manifest{
		Name:      "acme",
		Version:   "1.0.0",
		Tokens:    map[string]string{"brand": "#123456", "radius": "4px"},
		Templates: map[string]string{"forms.input": "themes/acme/input.tmpl"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#654321"},
				Templates: map[string]string{"forms.switch": "themes/acme/dark/switch.tmpl"},
				Assets:    theme.Assets{Files: map[string]string{"vendor": "vendor.dark.js"}},
			},
		},
	}

	cfg := Resolve(manifest, "dark", DefaultPartials())

	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials["forms.input"] != "themes/acme/input.tmpl" {
		t.Fatalf("expected base template override, got %s", cfg.Partials["forms.input"])
	}
	if cfg.Partials["forms.switch"] != "themes/acme/dark/switch.tmpl" {
		t.Fatalf("expected variant template override, got %s", cfg.Partials["forms.switch"])
	}
	if cfg.Partials["forms.textarea"] != templates.FormTextarea {
		t.Fatalf("fallback partial not applied for textarea")
	}
	wantVars := map[string]string{"--brand": "#654321", "--radius": "4px"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("vendor"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("unexpected vendor asset url: %s", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %s", got)
	}
	if got := StyleDeclarations(cfg); got != "--brand: #654321; --radius: 4px" {
		t.Fatalf("unexpected declarations %q", got)
	}

	base := Resolve(manifest, "unknown", nil)
	if base.Tokens["brand"] != "#123456" {
		t.Fatalf("unknown variant must resolve to base tokens, got %s", base.Tokens["brand"])
	}
}

func TestSelectorSelectsFromStore(t *testing.T) {
	mem := newStore(t)
	selector := NewSelector(mem, WithDefaults("modern", ""))

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select applied: %v", err)
	}
	if selection.Theme != "classic" {
		t.Fatalf("empty name must select the applied theme, got %s", selection.Theme)
	}
	if selection.Manifest.Tokens["primaryColor"] != "#16a34a" {
		t.Fatalf("theme properties must seed tokens, got %v", selection.Manifest.Tokens)
	}

	cfg, err := selector.Config("modern", "dark")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Tokens["brand"] != "#a78bfa" {
		t.Fatalf("expected dark brand token, got %s", cfg.Tokens["brand"])
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/modern/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url %s", got)
	}
	if cfg.Partials["forms.input"] != "themes/modern/input.tmpl" {
		t.Fatalf("expected manifest partial, got %s", cfg.Partials["forms.input"])
	}

	if _, err := selector.Select("nope", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}

	state := mem.State()
	state.SelectedThemeID = ""
	mem.Replace(state)
	selection, err = selector.Select("", "")
	if err != nil || selection.Theme != "modern" {
		t.Fatalf("expected default theme, got %+v (%v)", selection, err)
	}

	if selector.Provider() == nil {
		t.Fatalf("expected provider")
	}
}
