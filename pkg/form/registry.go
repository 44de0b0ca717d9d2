package form

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

// Strategy renders the control of a single field into buf. Container
// strategies render their children through data.RenderChild.
type Strategy func(buf *bytes.Buffer, field Field, data FieldData) error

// Field is the node being rendered together with its slot in the form value.
type Field struct {
	Node     *schema.Node
	Path     string
	ID       string
	Value    any
	Disabled bool
	Errors   []string
}

// FieldData carries helpers strategies need.
type FieldData struct {
	Template    template.TemplateRenderer
	Partials    map[string]string
	Context     *RenderContext
	RenderChild func(node *schema.Node, path string) (string, error)
}

// Descriptor bundles a strategy with how the field chrome treats it.
type Descriptor struct {
	Name     string
	Strategy Strategy
	// OwnsLabel suppresses the chrome label for strategies that render their
	// own (containers, toggles).
	OwnsLabel bool
}

// NullStrategy renders nothing.
func NullStrategy(*bytes.Buffer, Field, FieldData) error {
	return nil
}

// Registry maps field-type tags to descriptors.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Clone returns a copy that can be extended without touching r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry()
	for name, descriptor := range r.descriptors {
		cloned.descriptors[name] = descriptor
	}
	return cloned
}

// Register associates a descriptor with a field type. Existing entries are
// replaced.
func (r *Registry) Register(fieldType schema.FieldType, descriptor Descriptor) error {
	name := normalize(string(fieldType))
	if name == "" {
		return fmt.Errorf("form: field type is required")
	}
	if descriptor.Strategy == nil {
		return fmt.Errorf("form: strategy for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.descriptors[name] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(fieldType schema.FieldType, descriptor Descriptor) {
	if err := r.Register(fieldType, descriptor); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered for fieldType.
func (r *Registry) Lookup(fieldType schema.FieldType) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.descriptors[normalize(string(fieldType))]
	return descriptor, ok
}

// Resolve never fails: unknown tags yield the null strategy.
func (r *Registry) Resolve(fieldType schema.FieldType) Descriptor {
	if descriptor, ok := r.Lookup(fieldType); ok {
		return descriptor
	}
	return Descriptor{Name: normalize(string(fieldType)), Strategy: NullStrategy}
}

// Names returns the registered field types in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
