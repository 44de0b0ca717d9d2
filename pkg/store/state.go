package store

import (
	"maps"
	"slices"

	"github.com/goliatone/go-editorkit/pkg/entities"
)

// State is the slice of application state the widgets read.
type State struct {
	CurrentPageID string            `json:"currentPageId" yaml:"currentPageId"`
	QueryParams   map[string]string `json:"queryParams,omitempty" yaml:"queryParams,omitempty"`

	Plugins                    []entities.Plugin     `json:"plugins" yaml:"plugins"`
	PluginImages               map[string]string     `json:"pluginImages,omitempty" yaml:"pluginImages,omitempty"`
	GenerateCRUDEnabledPlugins map[string]string     `json:"generateCRUDEnabledPlugins,omitempty" yaml:"generateCRUDEnabledPlugins,omitempty"`
	Datasources                []entities.Datasource `json:"datasources" yaml:"datasources"`
	Actions                    []entities.Action     `json:"actions" yaml:"actions"`
	DatasourceViewMode         map[string]bool       `json:"datasourceViewMode,omitempty" yaml:"-"`
	DeletedDatasources         []string              `json:"deletedDatasources,omitempty" yaml:"-"`

	Themes          []entities.AppTheme `json:"themes" yaml:"themes"`
	SelectedThemeID string              `json:"selectedThemeId" yaml:"selectedThemeId"`
	ThemingStack    []string            `json:"themingStack" yaml:"themingStack"`
}

// Clone returns a copy whose slices and maps can be mutated independently.
func (s State) Clone() State {
	out := s
	out.QueryParams = maps.Clone(s.QueryParams)
	out.Plugins = slices.Clone(s.Plugins)
	out.PluginImages = maps.Clone(s.PluginImages)
	out.GenerateCRUDEnabledPlugins = maps.Clone(s.GenerateCRUDEnabledPlugins)
	out.Datasources = slices.Clone(s.Datasources)
	out.Actions = slices.Clone(s.Actions)
	out.DatasourceViewMode = maps.Clone(s.DatasourceViewMode)
	out.DeletedDatasources = slices.Clone(s.DeletedDatasources)
	out.Themes = slices.Clone(s.Themes)
	out.ThemingStack = slices.Clone(s.ThemingStack)
	return out
}

// Reduce applies action to state and returns the next state. Unknown actions
// leave the state untouched.
func Reduce(state State, action Action) State {
	next := state.Clone()
	switch action.Type {
	case DeleteDatasourceInit:
		payload, ok := action.Payload.(DeleteDatasourcePayload)
		if !ok {
			return state
		}
		next.Datasources = slices.DeleteFunc(next.Datasources, func(ds entities.Datasource) bool {
			return ds.ID == payload.ID
		})
		next.DeletedDatasources = append(next.DeletedDatasources, payload.ID)
	case SetDatasourceEditorMode:
		payload, ok := action.Payload.(EditorModePayload)
		if !ok {
			return state
		}
		if next.DatasourceViewMode == nil {
			next.DatasourceViewMode = make(map[string]bool)
		}
		next.DatasourceViewMode[payload.ID] = payload.ViewMode
	case SetAppThemingStack:
		payload, ok := action.Payload.(ThemingStackPayload)
		if !ok {
			return state
		}
		next.ThemingStack = slices.Clone(payload.Stack)
	case SetSelectedTheme:
		payload, ok := action.Payload.(SelectedThemePayload)
		if !ok {
			return state
		}
		next.SelectedThemeID = payload.ThemeID
	case CreateActionInit:
		payload, ok := action.Payload.(CreateActionPayload)
		if !ok || payload.Action.ID == "" {
			return state
		}
		next.Actions = append(next.Actions, payload.Action)
	default:
		return state
	}
	return next
}
