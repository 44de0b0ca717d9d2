package entities

import (
	"maps"

	"github.com/goliatone/go-theme"
)

// ThemeProperties are the style tokens of an app theme.
type ThemeProperties struct {
	Colors       map[string]string `json:"colors,omitempty" yaml:"colors,omitempty"`
	BorderRadius map[string]string `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	BoxShadow    map[string]string `json:"boxShadow,omitempty" yaml:"boxShadow,omitempty"`
	FontFamily   map[string]string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
}

// AppTheme is a theme applicable to an application. System themes ship with
// the product; the rest were saved by users.
type AppTheme struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	DisplayName   string          `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	IsSystemTheme bool            `json:"isSystemTheme" yaml:"isSystemTheme"`
	Properties    ThemeProperties `json:"properties,omitempty" yaml:"properties,omitempty"`
	// Manifest optionally carries the template partials, assets and variants
	// of the theme.
	Manifest *ThemeManifest `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// ThemeManifest is the file form of a go-theme manifest.
type ThemeManifest struct {
	Version     string                  `json:"version,omitempty" yaml:"version,omitempty"`
	Tokens      map[string]string       `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Templates   map[string]string       `json:"templates,omitempty" yaml:"templates,omitempty"`
	AssetPrefix string                  `json:"assetPrefix,omitempty" yaml:"assetPrefix,omitempty"`
	Assets      map[string]string       `json:"assets,omitempty" yaml:"assets,omitempty"`
	Variants    map[string]ThemeVariant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// ThemeVariant overrides tokens, templates and assets of a manifest.
type ThemeVariant struct {
	Tokens    map[string]string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Templates map[string]string `json:"templates,omitempty" yaml:"templates,omitempty"`
	Assets    map[string]string `json:"assets,omitempty" yaml:"assets,omitempty"`
}

// ThemeManifest converts the theme into a go-theme manifest. The theme
// properties seed the token set so every theme resolves to CSS variables,
// with explicit manifest tokens taking precedence.
func (t AppTheme) ThemeManifest() *theme.Manifest {
	out := &theme.Manifest{
		Name:     t.Name,
		Version:  "1.0.0",
		Tokens:   t.Properties.Tokens(),
		Variants: map[string]theme.Variant{},
	}
	src := t.Manifest
	if src == nil {
		return out
	}
	if src.Version != "" {
		out.Version = src.Version
	}
	for key, value := range src.Tokens {
		out.Tokens[key] = value
	}
	out.Templates = maps.Clone(src.Templates)
	out.Assets = theme.Assets{Prefix: src.AssetPrefix, Files: maps.Clone(src.Assets)}
	for name, variant := range src.Variants {
		out.Variants[name] = theme.Variant{
			Tokens:    maps.Clone(variant.Tokens),
			Templates: maps.Clone(variant.Templates),
			Assets:    theme.Assets{Files: maps.Clone(variant.Assets)},
		}
	}
	return out
}

// Tokens flattens the properties into "group-key" tokens, colors keeping
// their bare names.
func (p ThemeProperties) Tokens() map[string]string {
	out := make(map[string]string)
	for key, value := range p.Colors {
		out[key] = value
	}
	for key, value := range p.BorderRadius {
		out["border-radius-"+key] = value
	}
	for key, value := range p.BoxShadow {
		out["box-shadow-"+key] = value
	}
	for key, value := range p.FontFamily {
		out["font-family-"+key] = value
	}
	return out
}

// Label returns the display name, falling back to the name.
func (t AppTheme) Label() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.Name
}

// PrimaryColor returns the primary color token or "inherit".
func (t AppTheme) PrimaryColor() string {
	if color := t.Properties.Colors["primaryColor"]; color != "" {
		return color
	}
	return "inherit"
}
