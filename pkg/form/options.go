package form

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/visibility"
	"github.com/goliatone/go-editorkit/pkg/visibility/expr"
)

// RenderMode selects the over-limit wording: editors on the canvas can fix the
// source data, viewers of a published page cannot.
type RenderMode string

const (
	RenderModeCanvas RenderMode = "canvas"
	RenderModePage   RenderMode = "page"
)

// ParseRenderMode maps configuration strings onto a RenderMode, defaulting to
// canvas.
func ParseRenderMode(raw string) RenderMode {
	if strings.EqualFold(strings.TrimSpace(raw), string(RenderModePage)) {
		return RenderModePage
	}
	return RenderModeCanvas
}

// Style is the presentation configuration of the shell.
type Style struct {
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	BorderWidth     string `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	BoxShadow       string `json:"boxShadow,omitempty" yaml:"boxShadow,omitempty"`
}

// Option configures a Composite or a Controller.
type Option func(*options)

type options struct {
	registry  *Registry
	templates template.TemplateRenderer
	partials  map[string]string
	logger    *zap.Logger

	renderContext       *RenderContext
	maxAllowedFields    int
	renderMode          RenderMode
	disabledWhenInvalid bool
	onSubmit            string
	style               Style
	title               string
	hideReset           bool
	visibility          visibility.Evaluator
	extras              map[string]any
}

func defaultOptions() *options {
	return &options{
		maxAllowedFields: schema.DefaultMaxAllowedFields,
		renderMode:       RenderModeCanvas,
		logger:           zap.NewNop(),
		visibility:       expr.New(),
	}
}

func applyOptions(opts []Option) *options {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithRegistry replaces the default field registry.
func WithRegistry(registry *Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithTemplates replaces the embedded template engine.
func WithTemplates(renderer template.TemplateRenderer) Option {
	return func(o *options) {
		o.templates = renderer
	}
}

// WithPartials overrides template names per partial key ("forms.input").
// Theme renderer configs carry these.
func WithPartials(partials map[string]string) Option {
	return func(o *options) {
		if len(partials) == 0 {
			return
		}
		if o.partials == nil {
			o.partials = make(map[string]string, len(partials))
		}
		for key, value := range partials {
			o.partials[strings.TrimSpace(key)] = value
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRenderContext wires the owning widget callbacks into a Controller.
func WithRenderContext(rc *RenderContext) Option {
	return func(o *options) {
		o.renderContext = rc
	}
}

// WithMaxAllowedFields sets the field ceiling. Non-positive values keep the
// default.
func WithMaxAllowedFields(max int) Option {
	return func(o *options) {
		if max > 0 {
			o.maxAllowedFields = max
		}
	}
}

// WithRenderMode sets the render mode.
func WithRenderMode(mode RenderMode) Option {
	return func(o *options) {
		if mode != "" {
			o.renderMode = mode
		}
	}
}

// WithDisabledWhenInvalid blocks submit while validation fails.
func WithDisabledWhenInvalid(enabled bool) Option {
	return func(o *options) {
		o.disabledWhenInvalid = enabled
	}
}

// WithOnSubmit sets the dynamic string executed on submit.
func WithOnSubmit(action string) Option {
	return func(o *options) {
		o.onSubmit = action
	}
}

// WithStyle sets the shell style.
func WithStyle(style Style) Option {
	return func(o *options) {
		o.style = style
	}
}

// WithTitle sets the form title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithHideReset removes the reset button.
func WithHideReset(hide bool) Option {
	return func(o *options) {
		o.hideReset = hide
	}
}

// WithVisibility replaces the evaluator of Config.VisibleWhen rules. A nil
// evaluator ignores the rules.
func WithVisibility(eval visibility.Evaluator) Option {
	return func(o *options) {
		o.visibility = eval
	}
}

// WithVisibilityExtras exposes extra values to rules under "extras.".
func WithVisibilityExtras(extras map[string]any) Option {
	return func(o *options) {
		o.extras = extras
	}
}
