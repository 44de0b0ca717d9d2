package form

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/sanitize"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/validation"
)

// Empty and over-limit messages.
const (
	MessageEmpty        = "Connect data or paste JSON to add items to this form."
	messageLimitFormat  = "Source data exceeds %d fields."
	MessageLimitPage    = "Please contact your developer for more information"
	MessageLimitCanvas  = "Please update the source data."
	defaultSubmitLabel  = "Submit"
	defaultResetLabel   = "Reset"
	messageKindEmpty    = "empty"
	messageKindOverflow = "limit"
)

// LimitMessage returns the over-limit message lines for mode.
func LimitMessage(max int, mode RenderMode) []string {
	if max <= 0 {
		max = schema.DefaultMaxAllowedFields
	}
	second := MessageLimitCanvas
	if mode == RenderModePage {
		second = MessageLimitPage
	}
	return []string{fmt.Sprintf(messageLimitFormat, max), second}
}

// Props is the input of a render pass.
type Props struct {
	Schema              schema.Schema
	Value               formvalue.Value
	Title               string
	Disabled            bool
	DisabledWhenInvalid bool
	FieldLimitExceeded  bool
	MaxAllowedFields    int
	RenderMode          RenderMode
	Style               Style
	ScrollContents      bool
	HideReset           bool
	SubmitLabel         string
	ResetLabel          string
	// Errors shown next to fields, keyed by value path. Validity of the whole
	// form is computed independently.
	Errors validation.Result
}

// Element is one rendered field. HTML holds the field and its descendants.
type Element struct {
	Path      string
	NodePath  string
	FieldType schema.FieldType
	Depth     int
	Hidden    bool
	HTML      string
}

// Result is the output of Render.
type Result struct {
	HTML          string
	Elements      []Element
	Message       []string
	Empty         bool
	LimitExceeded bool
	Validation    validation.Result
	ShowControls  bool
}

// Composite turns schema trees into HTML.
type Composite struct {
	registry  *Registry
	templates template.TemplateRenderer
	partials  map[string]string
	logger    *zap.Logger
}

// New constructs a Composite. Without WithTemplates the embedded templates
// are rendered through pongo2.
func New(opts ...Option) (*Composite, error) {
	return newComposite(applyOptions(opts))
}

func newComposite(cfg *options) (*Composite, error) {
	registry := cfg.registry
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	renderer := cfg.templates
	if renderer == nil {
		engine, err := templates.NewEngine()
		if err != nil {
			return nil, fmt.Errorf("form: default templates: %w", err)
		}
		renderer = engine
	}
	return &Composite{
		registry:  registry,
		templates: renderer,
		partials:  cfg.partials,
		logger:    cfg.logger,
	}, nil
}

// Registry exposes the registry used for lookups.
func (c *Composite) Registry() *Registry {
	return c.registry
}

// Walk renders every child of root in schema order and returns one element
// per rendered node, depth first. Unknown field types are skipped.
func (c *Composite) Walk(rc *RenderContext, root *schema.Node, value formvalue.Value) ([]Element, error) {
	w := &walker{composite: c, rc: rc, value: value}
	if err := w.walkRoot(root); err != nil {
		return nil, err
	}
	return w.elements, nil
}

// Render produces the complete form including the shell. Over-limit wins
// over emptiness; both suppress fields and controls.
func (c *Composite) Render(rc *RenderContext, props Props) (Result, error) {
	result := Result{}
	mode := props.RenderMode
	if mode == "" {
		mode = RenderModeCanvas
	}

	var fields strings.Builder
	switch {
	case props.FieldLimitExceeded:
		result.LimitExceeded = true
		result.Message = LimitMessage(props.MaxAllowedFields, mode)
	case props.Schema.Empty():
		result.Empty = true
		result.Message = []string{MessageEmpty}
	default:
		w := &walker{composite: c, rc: rc, value: props.Value, disabled: props.Disabled, errors: props.Errors}
		if err := w.walkRoot(props.Schema.Root); err != nil {
			return Result{}, err
		}
		result.Elements = w.elements
		for _, element := range w.elements {
			if element.Depth == 0 {
				fields.WriteString(element.HTML)
			}
		}
		result.Validation = validation.Validate(props.Schema, props.Value)
		result.ShowControls = true
		w.reportMeta(result.Validation)
	}

	kind := ""
	switch {
	case result.LimitExceeded:
		kind = messageKindOverflow
	case result.Empty:
		kind = messageKindEmpty
	}

	submitLabel := strings.TrimSpace(props.SubmitLabel)
	if submitLabel == "" {
		submitLabel = defaultSubmitLabel
	}
	resetLabel := strings.TrimSpace(props.ResetLabel)
	if resetLabel == "" {
		resetLabel = defaultResetLabel
	}

	shell := map[string]any{
		"title":           props.Title,
		"render_mode":     string(mode),
		"style":           props.Style.CSS(),
		"scroll_contents": props.ScrollContents,
		"message":         result.Message,
		"message_kind":    kind,
		"fields":          fields.String(),
		"show_controls":   result.ShowControls,
		"show_reset":      !props.HideReset,
		"disabled":        props.Disabled,
		"submit_disabled": props.Disabled || (props.DisabledWhenInvalid && !result.Validation.Valid()),
		"submit_label":    submitLabel,
		"reset_label":     resetLabel,
	}
	name := templates.FormShell
	if candidate := strings.TrimSpace(c.partials["forms.shell"]); candidate != "" {
		name = candidate
	}
	rendered, err := c.templates.RenderTemplate(name, map[string]any{"shell": shell})
	if err != nil {
		return Result{}, fmt.Errorf("form: render shell: %w", err)
	}
	result.HTML = rendered
	return result, nil
}

// CSS renders the style as an inline declaration list.
func (s Style) CSS() string {
	var parts []string
	add := func(property, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, property+": "+value)
		}
	}
	add("background-color", s.BackgroundColor)
	add("border-color", s.BorderColor)
	add("border-width", s.BorderWidth)
	add("border-radius", s.BorderRadius)
	add("box-shadow", s.BoxShadow)
	if len(parts) > 0 && strings.TrimSpace(s.BorderWidth) != "" {
		parts = append(parts, "border-style: solid")
	}
	return strings.Join(parts, "; ")
}

type walker struct {
	composite *Composite
	rc        *RenderContext
	value     formvalue.Value
	disabled  bool
	errors    validation.Result
	elements  []Element
	nodes     []*schema.Node
}

func (w *walker) walkRoot(root *schema.Node) error {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if child == nil {
			continue
		}
		if _, err := w.render(child, child.Key, 0); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) render(node *schema.Node, path string, depth int) (string, error) {
	descriptor, ok := w.composite.registry.Lookup(node.FieldType)
	if !ok {
		w.composite.logger.Debug("form: no strategy for field type",
			zap.String("path", path),
			zap.String("field_type", string(node.FieldType)),
		)
		return "", nil
	}

	// Reserve the slot so elements stay in pre-order when children render.
	index := len(w.elements)
	w.nodes = append(w.nodes, node)
	w.elements = append(w.elements, Element{
		Path:      path,
		NodePath:  node.Path,
		FieldType: node.FieldType,
		Depth:     depth,
		Hidden:    !node.Config.IsVisible(),
	})

	current, _ := w.value.Get(path)
	field := Field{
		Node:     node,
		Path:     path,
		ID:       controlID(path),
		Value:    current,
		Disabled: w.disabled,
		Errors:   w.errors.For(path),
	}
	data := FieldData{
		Template: w.composite.templates,
		Partials: w.composite.partials,
		Context:  w.rc,
		RenderChild: func(child *schema.Node, childPath string) (string, error) {
			return w.render(child, childPath, depth+1)
		},
	}

	var control bytes.Buffer
	if err := descriptor.Strategy(&control, field, data); err != nil {
		return "", fmt.Errorf("form: render %s field %q: %w", node.FieldType, path, err)
	}

	markup := fieldMarkup(field, descriptor, control.String())
	w.elements[index].HTML = markup
	return markup, nil
}

// reportMeta registers every rendered leaf with the owning widget.
func (w *walker) reportMeta(result validation.Result) {
	if w.rc == nil || len(w.elements) == 0 {
		return
	}
	states := make(map[string]FieldState, len(w.elements))
	for idx, element := range w.elements {
		if element.FieldType.IsContainer() {
			continue
		}
		node := w.nodes[idx]
		states[element.Path] = FieldState{
			IsValid:    len(result.For(element.Path)) == 0,
			IsRequired: node.Config.Validation.Required,
			IsVisible:  !element.Hidden,
			IsDisabled: w.disabled || node.Config.Disabled,
		}
	}
	w.rc.SetMeta(func(prev MetaState) MetaState {
		next := prev.Clone()
		for path, state := range states {
			state.Touched = prev.FieldState[path].Touched
			next.FieldState[path] = state
		}
		return next
	})
}

func fieldMarkup(field Field, descriptor Descriptor, control string) string {
	node := field.Node
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="editorkit-field editorkit-field--`)
	builder.WriteString(html.EscapeString(string(node.FieldType)))
	builder.WriteString(`" data-field-path="`)
	builder.WriteString(html.EscapeString(field.Path))
	builder.WriteString(`" data-field-type="`)
	builder.WriteString(html.EscapeString(string(node.FieldType)))
	builder.WriteString(`"`)
	if !node.Config.IsVisible() {
		builder.WriteString(` hidden`)
	}
	builder.WriteString(`>`)

	if label := node.DisplayLabel(); label != "" && !descriptor.OwnsLabel {
		builder.WriteString(`<label class="editorkit-field__label" for="`)
		builder.WriteString(html.EscapeString(field.ID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(label))
		if node.Config.Validation.Required {
			builder.WriteString(`<span class="editorkit-field__required" aria-hidden="true">*</span>`)
		}
		builder.WriteString(`</label>`)
	}
	if tooltip := sanitize.Tooltip(node.Config.Tooltip); tooltip != "" {
		builder.WriteString(`<span class="editorkit-field__tooltip" role="tooltip">`)
		builder.WriteString(tooltip)
		builder.WriteString(`</span>`)
	}

	builder.WriteString(control)

	for _, message := range field.Errors {
		builder.WriteString(`<p class="editorkit-field__error">`)
		builder.WriteString(html.EscapeString(message))
		builder.WriteString(`</p>`)
	}
	builder.WriteString(`</div>`)
	return builder.String()
}

func controlID(path string) string {
	var builder strings.Builder
	builder.WriteString("editorkit-")
	for _, r := range path {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteByte('-')
		}
	}
	return builder.String()
}
