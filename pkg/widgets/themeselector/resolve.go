package themeselector

import (
	"maps"
	"sort"
	"strings"

	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-editorkit/pkg/render/templates"
)

// DefaultPartials maps the form partial keys onto the embedded templates.
// Theme templates override them key by key.
func DefaultPartials() map[string]string {
	return map[string]string{
		"forms.input":    templates.FormInput,
		"forms.textarea": templates.FormTextarea,
		"forms.switch":   templates.FormSwitch,
		"forms.checkbox": templates.FormSwitch,
		"forms.select":   templates.FormSelect,
		"forms.radio":    templates.FormRadio,
		"forms.shell":    templates.FormShell,
	}
}

// Resolve flattens a manifest and one of its variants into the renderer
// configuration. Variant tokens, templates and assets override the base;
// fallbacks fill partial keys neither defines. An unknown variant resolves to
// the base manifest.
func Resolve(manifest *theme.Manifest, variant string, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Variant:  variant,
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}
	if manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}
	cfg.Theme = manifest.Name

	overrides := manifest.Variants[variant]
	for key, value := range manifest.Templates {
		cfg.Partials[key] = value
	}
	for key, value := range overrides.Templates {
		cfg.Partials[key] = value
	}
	for key, value := range manifest.Tokens {
		cfg.Tokens[key] = value
	}
	for key, value := range overrides.Tokens {
		cfg.Tokens[key] = value
	}
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}
	for key, value := range overrides.Assets.Files {
		files[key] = value
	}
	prefix := manifest.Assets.Prefix
	if overrides.Assets.Prefix != "" {
		prefix = overrides.Assets.Prefix
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

// StyleDeclarations renders the CSS variables as one inline declaration
// list in key order.
func StyleDeclarations(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+cfg.CSSVars[key])
	}
	return strings.Join(parts, "; ")
}
