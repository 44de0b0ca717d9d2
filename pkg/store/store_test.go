package store

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editorkit/pkg/entities"
)

func loadFixture(t *testing.T) State {
	t.Helper()
	state, err := LoadStateFile(os.DirFS("testdata"), "workspace.yaml")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return state
}

func TestLoadStateFixture(t *testing.T) {
	state := loadFixture(t)

	if state.CurrentPageID != "page-1" {
		t.Fatalf("unexpected page id %q", state.CurrentPageID)
	}
	if len(state.Plugins) != 2 || len(state.Datasources) != 2 || len(state.Themes) != 3 {
		t.Fatalf("unexpected fixture sizes: %d plugins, %d datasources, %d themes",
			len(state.Plugins), len(state.Datasources), len(state.Themes))
	}
	modern, ok := ThemeByName(state, "modern")
	if !ok || modern.Manifest == nil {
		t.Fatalf("expected modern theme with manifest")
	}
	if got := modern.Manifest.Variants["dark"].Tokens["brand"]; got != "#a78bfa" {
		t.Fatalf("unexpected dark brand token %q", got)
	}
}

func TestSelectors(t *testing.T) {
	state := loadFixture(t)

	actions := ActionsForDatasourceOnPage(state, "ds-1")
	var names []string
	for _, action := range actions {
		names = append(names, action.Name)
	}
	if diff := cmp.Diff([]string{"listUsers", "getUser"}, names); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if got := ActionsForDatasourceOnPage(state, "ds-2"); len(got) != 0 {
		t.Fatalf("expected no actions for ds-2, got %v", got)
	}

	if !CanGenerateCRUDPage(state, "plg-postgres") || CanGenerateCRUDPage(state, "plg-sheets") {
		t.Fatalf("unexpected generate capability flags")
	}
	if got := PluginImage(state, "plg-postgres"); got != "https://assets.example.com/postgres.svg" {
		t.Fatalf("expected icon location fallback, got %q", got)
	}
	state.PluginImages = map[string]string{"plg-postgres": "<svg></svg>"}
	if got := PluginImage(state, "plg-postgres"); got != "<svg></svg>" {
		t.Fatalf("expected plugin image override, got %q", got)
	}

	selected, ok := SelectedTheme(state)
	if !ok || selected.Name != "classic" {
		t.Fatalf("unexpected selected theme %+v", selected)
	}
	if !DatasourceViewMode(state, "ds-1") {
		t.Fatalf("editors start in view mode")
	}
}

func TestReduce(t *testing.T) {
	state := loadFixture(t)

	next := Reduce(state, EditorMode("ds-1", false))
	if DatasourceViewMode(next, "ds-1") {
		t.Fatalf("expected edit mode after SET_DATASOURCE_EDITOR_MODE")
	}
	if !DatasourceViewMode(state, "ds-1") {
		t.Fatalf("reduce mutated the previous state")
	}

	next = Reduce(next, DeleteDatasource("ds-1"))
	if _, ok := DatasourceByID(next, "ds-1"); ok {
		t.Fatalf("expected ds-1 to be removed")
	}
	if diff := cmp.Diff([]string{"ds-1"}, next.DeletedDatasources); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}

	next = Reduce(next, ThemingStack([]string{"properties"}))
	if diff := cmp.Diff([]string{"properties"}, CurrentThemingStack(next)); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}

	next = Reduce(next, SelectTheme("th-mine"))
	if next.SelectedThemeID != "th-mine" {
		t.Fatalf("expected th-mine selected, got %q", next.SelectedThemeID)
	}

	created := entities.Action{ID: "act-9", Name: "Query1", PageID: "page-1", DatasourceID: "ds-2"}
	before := len(next.Actions)
	next = Reduce(next, CreateAction(created, "active-datasources"))
	if len(next.Actions) != before+1 || next.Actions[before] != created {
		t.Fatalf("expected created action appended, got %+v", next.Actions)
	}

	unchanged := Reduce(next, Action{Type: "UNKNOWN"})
	if diff := cmp.Diff(next, unchanged); diff != "" {
		t.Fatalf("unknown action changed state (-want +got):\n%s", diff)
	}
}

func TestMemoryDispatchNotifiesSubscribers(t *testing.T) {
	mem := NewMemory(loadFixture(t))

	var seen []ActionType
	var stacks [][]string
	unsubscribe := mem.Subscribe(func(action Action, state State) {
		seen = append(seen, action.Type)
		stacks = append(stacks, state.ThemingStack)
	})

	mem.Dispatch(ThemingStack([]string{"properties"}))
	unsubscribe()
	unsubscribe()
	mem.Dispatch(ThemingStack(nil))

	if diff := cmp.Diff([]ActionType{SetAppThemingStack}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"properties"}}, stacks); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if got := len(mem.Dispatched()); got != 2 {
		t.Fatalf("expected 2 dispatched actions, got %d", got)
	}
	if got := mem.State().ThemingStack; len(got) != 0 {
		t.Fatalf("expected empty stack, got %v", got)
	}
}
