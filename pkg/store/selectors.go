package store

import (
	"github.com/goliatone/go-editorkit/pkg/entities"
)

// PluginByID returns the plugin with id.
func PluginByID(s State, id string) (entities.Plugin, bool) {
	for _, plugin := range s.Plugins {
		if plugin.ID == id {
			return plugin, true
		}
	}
	return entities.Plugin{}, false
}

// PluginImage returns the icon source of a plugin: a URL or inline SVG markup.
// The plugin's own icon location is the fallback.
func PluginImage(s State, pluginID string) string {
	if image := s.PluginImages[pluginID]; image != "" {
		return image
	}
	if plugin, ok := PluginByID(s, pluginID); ok {
		return plugin.IconLocation
	}
	return ""
}

// CanGenerateCRUDPage reports whether the plugin supports page generation.
func CanGenerateCRUDPage(s State, pluginID string) bool {
	_, ok := s.GenerateCRUDEnabledPlugins[pluginID]
	return ok
}

// DatasourceByID returns the datasource with id.
func DatasourceByID(s State, id string) (entities.Datasource, bool) {
	for _, ds := range s.Datasources {
		if ds.ID == id {
			return ds, true
		}
	}
	return entities.Datasource{}, false
}

// ActionsForDatasourceOnPage returns the actions of the current page that use
// datasourceID.
func ActionsForDatasourceOnPage(s State, datasourceID string) []entities.Action {
	var out []entities.Action
	for _, action := range s.Actions {
		if action.DatasourceID == datasourceID && action.PageID == s.CurrentPageID {
			out = append(out, action)
		}
	}
	return out
}

// SelectedTheme returns the applied theme.
func SelectedTheme(s State) (entities.AppTheme, bool) {
	return ThemeByID(s, s.SelectedThemeID)
}

// ThemeByID returns the theme with id.
func ThemeByID(s State, id string) (entities.AppTheme, bool) {
	for _, theme := range s.Themes {
		if theme.ID == id {
			return theme, true
		}
	}
	return entities.AppTheme{}, false
}

// ThemeByName returns the first theme named name.
func ThemeByName(s State, name string) (entities.AppTheme, bool) {
	for _, theme := range s.Themes {
		if theme.Name == name {
			return theme, true
		}
	}
	return entities.AppTheme{}, false
}

// CurrentThemingStack returns a copy of the theming navigation stack.
func CurrentThemingStack(s State) []string {
	return append([]string{}, s.ThemingStack...)
}

// DatasourceViewMode reports whether the datasource editor is in view mode.
// Editors start in view mode.
func DatasourceViewMode(s State, id string) bool {
	viewMode, ok := s.DatasourceViewMode[id]
	if !ok {
		return true
	}
	return viewMode
}
