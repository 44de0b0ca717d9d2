package datasourcecard

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/sanitize"
	"github.com/goliatone/go-editorkit/pkg/store"
)

const (
	labelGeneratePage = "GENERATE NEW PAGE"
	labelNewAPI       = "NEW API"
	labelNewQuery     = "NEW QUERY"
	labelReconnect    = "RECONNECT"
	labelDelete       = "Delete"
	labelConfirm      = "Are you sure?"
	labelEdit         = "Edit"

	maskedValue = "••••••••"
)

// Detail is one configured property shown under "Show More".
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is the template model of a card.
type View struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PluginName    string   `json:"plugin_name"`
	IconSVG       string   `json:"icon_svg,omitempty"`
	IconURL       string   `json:"icon_url,omitempty"`
	QueryUsage    string   `json:"query_usage"`
	Configured    bool     `json:"configured"`
	CanGenerate   bool     `json:"can_generate"`
	GenerateText  string   `json:"generate_text"`
	NewActionText string   `json:"new_action_text"`
	ReconnectText string   `json:"reconnect_text"`
	EditText      string   `json:"edit_text"`
	DeleteText    string   `json:"delete_text"`
	Armed         bool     `json:"armed"`
	DetailsTitle  string   `json:"details_title,omitempty"`
	Details       []Detail `json:"details,omitempty"`
}

// QueryUsage describes how many queries of the current page use a datasource.
func QueryUsage(count int) string {
	switch count {
	case 0:
		return "No query in this application is using this datasource"
	case 1:
		return "1 query on this page"
	default:
		return fmt.Sprintf("%d queries on this page", count)
	}
}

// View assembles the template model from the current store state.
func (c *Card) View() View {
	state := c.deps.Store.State()
	view := View{
		ID:            c.datasource.ID,
		Name:          c.datasource.Name,
		PluginName:    c.plugin.Name,
		QueryUsage:    QueryUsage(len(store.ActionsForDatasourceOnPage(state, c.datasource.ID))),
		Configured:    c.datasource.IsConfigured,
		CanGenerate:   store.CanGenerateCRUDPage(state, c.datasource.PluginID),
		GenerateText:  labelGeneratePage,
		NewActionText: labelNewQuery,
		ReconnectText: labelReconnect,
		EditText:      labelEdit,
		DeleteText:    labelDelete,
		Armed:         c.Armed(),
	}
	if c.plugin.Type == entities.PluginTypeAPI {
		view.NewActionText = labelNewAPI
	}
	if view.Armed {
		view.DeleteText = labelConfirm
	}

	image := strings.TrimSpace(store.PluginImage(state, c.datasource.PluginID))
	switch {
	case strings.HasPrefix(image, "<"):
		view.IconSVG = sanitize.Icon(image)
	case sanitize.IsImageURL(image):
		view.IconURL = image
	}

	view.DetailsTitle, view.Details = details(c.plugin, c.datasource)
	return view
}

// details renders the first section of the plugin form against the
// datasource values. Plugins without a form config have no details.
func details(plugin entities.Plugin, datasource entities.Datasource) (string, []Detail) {
	if len(plugin.FormConfig) == 0 {
		return "", nil
	}
	section := plugin.FormConfig[0]
	values := formvalue.Value(datasource.ConfigValues())
	var out []Detail
	for _, control := range section.Children {
		raw, ok := values.Get(control.ConfigProperty)
		if !ok || raw == nil {
			continue
		}
		text := strings.TrimSpace(fmt.Sprint(raw))
		if text == "" {
			continue
		}
		if control.Hidden {
			text = maskedValue
		}
		out = append(out, Detail{Label: control.Label, Value: text})
	}
	return section.SectionName, out
}

// Render returns the card HTML.
func (c *Card) Render() (string, error) {
	html, err := c.templates.RenderTemplate(templates.DatasourceCard, map[string]any{"card": c.View()})
	if err != nil {
		return "", fmt.Errorf("datasourcecard: render %s: %w", c.datasource.ID, err)
	}
	return html, nil
}
