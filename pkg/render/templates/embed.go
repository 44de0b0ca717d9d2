// Package templates embeds the default widget templates rendered through the
// pongo engine.
package templates

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/render/template/pongo"
)

//go:embed form/*.tmpl widgets/*.tmpl
var embedded embed.FS

// Template names, relative to FS.
const (
	FormShell      = "form/shell.tmpl"
	FormInput      = "form/input.tmpl"
	FormTextarea   = "form/textarea.tmpl"
	FormSwitch     = "form/switch.tmpl"
	FormSelect     = "form/select.tmpl"
	FormRadio      = "form/radio.tmpl"
	DatasourceCard = "widgets/datasource_card.tmpl"
	ThemeSelector  = "widgets/theme_selector.tmpl"
	PageTabs       = "widgets/page_tabs.tmpl"
	Preview        = "widgets/preview.tmpl"
)

// FS exposes the embedded template bundle.
func FS() fs.FS {
	return embedded
}

// NewEngine returns a pongo2 engine over the embedded templates.
func NewEngine() (template.TemplateRenderer, error) {
	engine, err := pongo.New(pongo.WithFS(FS()))
	if err != nil {
		return nil, err
	}
	return engine, nil
}
