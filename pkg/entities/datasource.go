// Package entities holds the records the editor widgets display: plugins,
// datasources, actions, app themes and tabs.
package entities

import (
	"strings"
)

// PluginType is the connector category of a plugin.
type PluginType string

const (
	PluginTypeSaaS   PluginType = "SAAS"
	PluginTypeDB     PluginType = "DB"
	PluginTypeAPI    PluginType = "API"
	PluginTypeRemote PluginType = "REMOTE"
	PluginTypeJS     PluginType = "JS"
)

// Plugin describes a connector.
type Plugin struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	PackageName  string     `json:"packageName" yaml:"packageName"`
	Type         PluginType `json:"type" yaml:"type"`
	IconLocation string     `json:"iconLocation,omitempty" yaml:"iconLocation,omitempty"`
	// FormConfig lists the configuration sections of the datasource form.
	FormConfig []FormSection `json:"formConfig,omitempty" yaml:"formConfig,omitempty"`
}

// IsSaaS reports whether datasources of this plugin are edited in the SaaS
// editor.
func (p Plugin) IsSaaS() bool {
	return strings.EqualFold(string(p.Type), string(PluginTypeSaaS))
}

// FormSection is one section of a plugin datasource form.
type FormSection struct {
	SectionName string        `json:"sectionName" yaml:"sectionName"`
	Children    []FormControl `json:"children,omitempty" yaml:"children,omitempty"`
}

// FormControl is one configurable property. ConfigProperty is a dotted path
// into the datasource record ("datasourceConfiguration.url").
type FormControl struct {
	Label          string `json:"label" yaml:"label"`
	ConfigProperty string `json:"configProperty" yaml:"configProperty"`
	ControlType    string `json:"controlType,omitempty" yaml:"controlType,omitempty"`
	// Hidden values (passwords) are masked when displayed.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Datasource is a configured connection of a plugin.
type Datasource struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	PluginID     string `json:"pluginId" yaml:"pluginId"`
	WorkspaceID  string `json:"workspaceId,omitempty" yaml:"workspaceId,omitempty"`
	IsConfigured bool   `json:"isConfigured" yaml:"isConfigured"`
	// DatasourceConfiguration holds the values FormControl.ConfigProperty
	// points into, rooted at "datasourceConfiguration".
	DatasourceConfiguration map[string]any `json:"datasourceConfiguration,omitempty" yaml:"datasourceConfiguration,omitempty"`
}

// ConfigValues returns the record as a nested map addressable by the dotted
// config properties of the plugin form.
func (d Datasource) ConfigValues() map[string]any {
	return map[string]any{
		"name":                    d.Name,
		"datasourceConfiguration": d.DatasourceConfiguration,
	}
}

// Action is a query or API bound to a datasource on a page.
type Action struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	PageID       string     `json:"pageId" yaml:"pageId"`
	PluginType   PluginType `json:"pluginType,omitempty" yaml:"pluginType,omitempty"`
	DatasourceID string     `json:"datasourceId" yaml:"datasourceId"`
}
