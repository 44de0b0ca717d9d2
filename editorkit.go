// Package editorkit is the quick-start entry point: load a schema from a
// data sample, a schema file or an OpenAPI document and render it as a
// themed JSON form.
package editorkit

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"strings"

	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-editorkit/pkg/form"
	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/widgets/themeselector"
)

// SourceKind says how the bytes of a Source are interpreted.
type SourceKind string

const (
	SourceSample  SourceKind = "sample"
	SourceConfig  SourceKind = "config"
	SourceOpenAPI SourceKind = "openapi"
)

// Source is schema input.
type Source struct {
	Kind SourceKind
	Data []byte
	// OperationID selects the request body of an OpenAPI document.
	OperationID string
}

// SourceFromFile reads name from fsys and guesses its kind from the file
// name: "*.sample.json" is a sample, "openapi*" or "*.openapi.*" a document.
func SourceFromFile(fsys fs.FS, name, operationID string) (Source, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Source{}, fmt.Errorf("editorkit: read %s: %w", name, err)
	}
	kind := SourceConfig
	lower := strings.ToLower(name)
	switch {
	case schema.IsSampleFile(name):
		kind = SourceSample
	case operationID != "" || strings.Contains(lower, "openapi"):
		kind = SourceOpenAPI
	}
	return Source{Kind: kind, Data: data, OperationID: operationID}, nil
}

// LoadSchema builds a schema from src.
func LoadSchema(ctx context.Context, src Source) (schema.Schema, error) {
	switch src.Kind {
	case SourceSample:
		return schema.FromSample(src.Data)
	case SourceOpenAPI:
		return schema.FromOpenAPI(ctx, src.Data, src.OperationID)
	case SourceConfig, "":
		return schema.Load(src.Data)
	default:
		return schema.Schema{}, fmt.Errorf("editorkit: unknown source kind %q", src.Kind)
	}
}

// Option configures RenderForm.
type Option func(*renderConfig)

type renderConfig struct {
	formOptions []form.Option
	value       formvalue.Value
	selector    theme.ThemeSelector
	themeName   string
	variant     string
	partials    bool
}

// WithFormOptions forwards options to the form composite.
func WithFormOptions(opts ...form.Option) Option {
	return func(c *renderConfig) {
		c.formOptions = append(c.formOptions, opts...)
	}
}

// WithValue prefills the form. Missing paths take schema defaults.
func WithValue(value formvalue.Value) Option {
	return func(c *renderConfig) {
		c.value = value
	}
}

// WithMaxAllowedFields overrides the field ceiling.
func WithMaxAllowedFields(max int) Option {
	return func(c *renderConfig) {
		c.formOptions = append(c.formOptions, form.WithMaxAllowedFields(max))
	}
}

// WithThemeSelector resolves name and variant through selector and wraps the
// form in the theme's CSS variables.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(c *renderConfig) {
		c.selector = selector
		c.themeName = name
		c.variant = variant
	}
}

// WithThemePartials also routes field templates through the theme's
// partials. The template renderer given with form.WithTemplates must know
// them.
func WithThemePartials() Option {
	return func(c *renderConfig) {
		c.partials = true
	}
}

// Rendered is the output of RenderForm.
type Rendered struct {
	HTML   string
	Form   form.Result
	Theme  *theme.RendererConfig
	Schema schema.Schema
}

// RenderForm loads src and renders it as a form.
func RenderForm(ctx context.Context, src Source, opts ...Option) (Rendered, error) {
	s, err := LoadSchema(ctx, src)
	if err != nil {
		return Rendered{}, err
	}
	return RenderSchema(ctx, s, opts...)
}

// RenderSchema renders s as a form.
func RenderSchema(ctx context.Context, s schema.Schema, opts ...Option) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}
	cfg := &renderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	var themeCfg *theme.RendererConfig
	formOptions := append([]form.Option(nil), cfg.formOptions...)
	if cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.variant)
		if err != nil {
			return Rendered{}, fmt.Errorf("editorkit: select theme: %w", err)
		}
		themeCfg = themeselector.Resolve(selection.Manifest, selection.Variant, themeselector.DefaultPartials())
		themeCfg.Theme = selection.Theme
		if cfg.partials {
			formOptions = append(formOptions, form.WithPartials(themeCfg.Partials))
		}
	}

	controller, err := form.NewController(s, formOptions...)
	if err != nil {
		return Rendered{}, err
	}
	for path, value := range cfg.value.Flatten() {
		if _, ok := s.Resolve(path); !ok {
			continue
		}
		if err := controller.SetValue(path, value); err != nil {
			return Rendered{}, fmt.Errorf("editorkit: prefill %s: %w", path, err)
		}
	}
	result, err := controller.Render()
	if err != nil {
		return Rendered{}, err
	}

	out := Rendered{HTML: result.HTML, Form: result, Theme: themeCfg, Schema: s}
	if themeCfg != nil {
		out.HTML = fmt.Sprintf(`<div class="editorkit-theme" data-theme="%s" data-variant="%s" style="%s">%s</div>`,
			html.EscapeString(themeCfg.Theme),
			html.EscapeString(themeCfg.Variant),
			html.EscapeString(themeselector.StyleDeclarations(themeCfg)),
			result.HTML,
		)
	}
	return out, nil
}

// EmbeddedTemplates exposes the built-in widget templates so callers can
// reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return templates.FS()
}
