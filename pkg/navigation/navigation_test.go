package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRouteBuilders(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "datasource editor",
			got: DatasourceEditorURL(DatasourceEditorParams{
				PageID:       "page-1",
				DatasourceID: "ds-1",
				Params:       map[string]string{"from": "datasources", "branch": "main"},
			}),
			want: "/pages/page-1/edit/datasource/ds-1?branch=main&from=datasources",
		},
		{
			name: "saas datasource",
			got: SaaSDatasourceURL(SaaSDatasourceParams{
				PageID:            "page-1",
				PluginPackageName: "google-sheets-plugin",
				DatasourceID:      "ds 2",
			}),
			want: "/pages/page-1/edit/saas/google-sheets-plugin/datasources/ds%202",
		},
		{
			name: "generate page form",
			got: GenerateTemplateFormURL(GenerateTemplateParams{
				PageID: "page-1",
				Params: map[string]string{"datasourceId": "ds-1", "new_page": "true"},
			}),
			want: "/pages/page-1/edit/generate-page/form?datasourceId=ds-1&new_page=true",
		},
		{
			name: "query editor",
			got: ActionEditorURL(ActionEditorParams{
				PageID:   "page-1",
				ActionID: "act-9",
				Params:   map[string]string{"from": "datasources"},
			}),
			want: "/pages/page-1/edit/queries/act-9?from=datasources",
		},
		{
			name: "api editor",
			got:  ActionEditorURL(ActionEditorParams{PageID: "page-1", ActionID: "act-9", API: true}),
			want: "/pages/page-1/edit/api/act-9",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("url mismatch: want %s, got %s", tc.want, tc.got)
			}
		})
	}
}

func TestHistoryRecordsPushes(t *testing.T) {
	var history History
	if history.Current() != "" {
		t.Fatalf("expected empty history")
	}
	history.Push("/a")
	history.Push("/b")
	if diff := cmp.Diff([]string{"/a", "/b"}, history.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if history.Current() != "/b" {
		t.Fatalf("unexpected current %q", history.Current())
	}
}

func TestMergeParamsPrefersExtra(t *testing.T) {
	got := MergeParams(map[string]string{"from": "old", "branch": "main"}, map[string]string{"from": "datasources"})
	want := map[string]string{"from": "datasources", "branch": "main"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}
