package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/validation"
	"github.com/goliatone/go-editorkit/pkg/visibility"
)

// ErrInvalidForm is returned by Submit when submission is blocked by failed
// validation.
var ErrInvalidForm = errors.New("form: form is invalid")

// FormDataProperty is the widget meta property holding the form value.
const FormDataProperty = "formData"

// SubmitTrigger is the trigger property name used on submit.
const SubmitTrigger = "onSubmit"

// Controller owns the value and meta state of one form instance. It is safe
// for concurrent use.
type Controller struct {
	mu sync.Mutex

	composite *Composite
	cfg       *options
	rc        *RenderContext
	logger    *zap.Logger

	schema schema.Schema
	value  formvalue.Value
	meta   MetaState
}

// NewController builds a controller for s, seeding the value from the schema
// defaults.
func NewController(s schema.Schema, opts ...Option) (*Controller, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	cfg := applyOptions(opts)
	composite, err := newComposite(cfg)
	if err != nil {
		return nil, err
	}
	return &Controller{
		composite: composite,
		cfg:       cfg,
		rc:        cfg.renderContext,
		logger:    cfg.logger,
		schema:    s,
		value:     formvalue.Defaults(s),
		meta:      MetaState{FieldState: map[string]FieldState{}},
	}, nil
}

// Schema returns the current schema.
func (c *Controller) Schema() schema.Schema {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schema
}

// Value returns a snapshot of the form value.
func (c *Controller) Value() formvalue.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value.Clone()
}

// Meta returns a snapshot of the meta state.
func (c *Controller) Meta() MetaState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta.Clone()
}

// LimitExceeded reports whether the schema is over the field ceiling.
func (c *Controller) LimitExceeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return schema.ExceedsLimit(c.schema, c.cfg.maxAllowedFields)
}

// SetValue writes v at path and reports the new value and field state.
func (c *Controller) SetValue(path string, v any) error {
	c.mu.Lock()
	if _, ok := c.schema.Resolve(path); !ok {
		c.mu.Unlock()
		return fmt.Errorf("form: unknown field path %q", path)
	}
	if err := c.checkItemsLocked(path); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.value.Set(path, v); err != nil {
		c.mu.Unlock()
		return err
	}
	c.touch(path)
	snapshot, meta := c.refreshLocked()
	c.mu.Unlock()

	c.logger.Debug("form: value changed", zap.String("path", path))
	c.report(snapshot, meta)
	return nil
}

// checkItemsLocked rejects array segments that point past the existing
// elements. Arrays only grow through AddItem.
func (c *Controller) checkItemsLocked(path string) error {
	segments := strings.Split(path, ".")
	for i := 1; i < len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")
		node, ok := c.schema.Resolve(prefix)
		if !ok || node.FieldType != schema.FieldTypeArray {
			continue
		}
		current, _ := c.value.Get(prefix)
		items, _ := current.([]any)
		idx, err := strconv.Atoi(segments[i])
		if err != nil || idx < 0 || idx >= len(items) {
			return fmt.Errorf("form: no item %s at %q", segments[i], prefix)
		}
	}
	return nil
}

// AddItem appends the item default to the array at path.
func (c *Controller) AddItem(path string) error {
	c.mu.Lock()
	node, ok := c.schema.Resolve(path)
	if !ok || node.FieldType != schema.FieldTypeArray {
		c.mu.Unlock()
		return fmt.Errorf("form: %q is not an array field", path)
	}
	current, _ := c.value.Get(path)
	items, _ := current.([]any)
	items = append(append([]any(nil), items...), formvalue.ItemDefault(node))
	if err := c.value.Set(path, items); err != nil {
		c.mu.Unlock()
		return err
	}
	snapshot, meta := c.refreshLocked()
	c.mu.Unlock()

	c.report(snapshot, meta)
	return nil
}

// RemoveItem removes element idx of the array at path.
func (c *Controller) RemoveItem(path string, idx int) error {
	c.mu.Lock()
	current, _ := c.value.Get(path)
	items, ok := current.([]any)
	if !ok || idx < 0 || idx >= len(items) {
		c.mu.Unlock()
		return fmt.Errorf("form: no item %d at %q", idx, path)
	}
	next := append(append([]any(nil), items[:idx]...), items[idx+1:]...)
	if err := c.value.Set(path, next); err != nil {
		c.mu.Unlock()
		return err
	}
	snapshot, meta := c.refreshLocked()
	c.mu.Unlock()

	c.report(snapshot, meta)
	return nil
}

// Reset restores the schema defaults and clears touched state.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.value = formvalue.Defaults(c.schema)
	c.meta = MetaState{FieldState: map[string]FieldState{}}
	snapshot, meta := c.refreshLocked()
	c.mu.Unlock()

	c.report(snapshot, meta)
}

// Submit executes the submit action with the current value. With
// DisabledWhenInvalid set, failed validation returns ErrInvalidForm and no
// action runs. Errors from the action are returned as is.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	result := validation.Validate(c.visibleLocked(), c.value)
	blocked := c.cfg.disabledWhenInvalid && !result.Valid()
	snapshot := c.value.Clone()
	onSubmit := c.cfg.onSubmit
	c.mu.Unlock()

	if blocked {
		c.logger.Debug("form: submit blocked", zap.Strings("paths", result.Paths()))
		return ErrInvalidForm
	}
	return c.rc.Execute(ctx, ExecuteTriggerPayload{
		TriggerPropertyName: SubmitTrigger,
		DynamicString:       onSubmit,
		Event:               NewEvent(EventSubmit),
		FormData:            snapshot,
	})
}

// ReplaceSchema swaps the schema wholesale. Values at paths that survive are
// kept, the rest start from the new defaults.
func (c *Controller) ReplaceSchema(next schema.Schema) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("form: %w", err)
	}
	c.mu.Lock()
	c.schema = next
	c.value = formvalue.Conform(next, c.value)
	for path := range c.meta.FieldState {
		if _, ok := next.Resolve(path); !ok {
			delete(c.meta.FieldState, path)
		}
	}
	snapshot, meta := c.refreshLocked()
	c.mu.Unlock()

	c.logger.Debug("form: schema replaced", zap.Int("fields", next.CountFields()))
	c.report(snapshot, meta)
	return nil
}

// Render renders the form with the controller's state. Errors are only shown
// for touched fields.
func (c *Controller) Render() (Result, error) {
	c.mu.Lock()
	props := c.propsLocked()
	c.mu.Unlock()
	return c.composite.Render(c.rc, props)
}

// visibleLocked is the schema with VisibleWhen rules applied to the current
// value.
func (c *Controller) visibleLocked() schema.Schema {
	resolved, err := visibility.Apply(c.schema, visibility.Context{Value: c.value, Extras: c.cfg.extras}, c.cfg.visibility)
	if err != nil {
		c.logger.Warn("form: visibility rule failed", zap.Error(err))
	}
	return resolved
}

func (c *Controller) propsLocked() Props {
	visible := c.visibleLocked()
	result := validation.Validate(visible, c.value)
	shown := make(validation.Result)
	for path, messages := range result {
		if c.meta.FieldState[path].Touched {
			shown[path] = messages
		}
	}
	return Props{
		Schema:              visible,
		Value:               c.value.Clone(),
		Title:               c.cfg.title,
		DisabledWhenInvalid: c.cfg.disabledWhenInvalid,
		FieldLimitExceeded:  schema.ExceedsLimit(c.schema, c.cfg.maxAllowedFields),
		MaxAllowedFields:    c.cfg.maxAllowedFields,
		RenderMode:          c.cfg.renderMode,
		Style:               c.cfg.style,
		HideReset:           c.cfg.hideReset,
		Errors:              shown,
	}
}

func (c *Controller) touch(path string) {
	state := c.meta.FieldState[path]
	state.Touched = true
	c.meta.FieldState[path] = state
}

// refreshLocked recomputes the state of every leaf present in the value.
func (c *Controller) refreshLocked() (formvalue.Value, MetaState) {
	visible := c.visibleLocked()
	result := validation.Validate(visible, c.value)
	next := c.meta.Clone()
	for path, node := range leafPaths(visible, c.value) {
		state := next.FieldState[path]
		state.IsValid = len(result.For(path)) == 0
		state.IsRequired = node.Config.Validation.Required
		state.IsVisible = node.Config.IsVisible()
		state.IsDisabled = node.Config.Disabled
		next.FieldState[path] = state
	}
	c.meta = next
	return c.value.Clone(), next.Clone()
}

func (c *Controller) report(snapshot formvalue.Value, meta MetaState) {
	c.rc.SetMeta(func(MetaState) MetaState { return meta })
	c.rc.UpdateData(snapshot)
	c.rc.UpdateMeta(FormDataProperty, snapshot)
	c.rc.UpdateMeta("isValid", meta.Valid())
}

// leafPaths maps the value path of every leaf field to its node. Array items
// expand once per element present in value.
func leafPaths(s schema.Schema, value formvalue.Value) map[string]*schema.Node {
	out := make(map[string]*schema.Node)
	if s.Root == nil {
		return out
	}
	var collect func(node *schema.Node, path string)
	collect = func(node *schema.Node, path string) {
		switch node.FieldType {
		case schema.FieldTypeObject:
			for _, child := range node.Children {
				if child != nil {
					collect(child, schema.JoinPath(path, child.Key))
				}
			}
		case schema.FieldTypeArray:
			item, ok := node.ItemNode()
			if !ok {
				return
			}
			current, _ := value.Get(path)
			items, _ := current.([]any)
			for idx := range items {
				collect(item, schema.JoinPath(path, strconv.Itoa(idx)))
			}
		default:
			out[path] = node
		}
	}
	for _, child := range s.Root.Children {
		if child != nil {
			collect(child, child.Key)
		}
	}
	return out
}
