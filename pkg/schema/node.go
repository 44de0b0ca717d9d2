package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrDuplicatePath reports two nodes sharing the same dotted path.
	ErrDuplicatePath = errors.New("schema: duplicate path")
	// ErrPathMismatch reports a node whose path is not parent path + key.
	ErrPathMismatch = errors.New("schema: path does not match parent and key")
)

// Node describes one field of a dynamic form.
type Node struct {
	Key       string    `json:"key" yaml:"key"`
	Path      string    `json:"path,omitempty" yaml:"path,omitempty"`
	FieldType FieldType `json:"fieldType" yaml:"fieldType"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	Children  []*Node   `json:"children,omitempty" yaml:"children,omitempty"`
	Config    Config    `json:"config,omitempty" yaml:"config,omitempty"`
}

// Schema wraps the root object node of a form.
type Schema struct {
	Root *Node `json:"root,omitempty" yaml:"root,omitempty"`
}

// New builds a schema whose root object holds the supplied children. Paths are
// derived from keys.
func New(children ...*Node) Schema {
	root := &Node{
		Key:       RootKey,
		FieldType: FieldTypeObject,
		Children:  children,
	}
	return Build(root)
}

// Build assigns paths from keys across the tree rooted at root. The root path
// is always empty so top-level paths equal their keys.
func Build(root *Node) Schema {
	if root == nil {
		return Schema{}
	}
	if root.Key == "" {
		root.Key = RootKey
	}
	root.Path = ""
	assignPaths(root)
	return Schema{Root: root}
}

func assignPaths(node *Node) {
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		child.Path = JoinPath(node.Path, child.Key)
		assignPaths(child)
	}
}

// Empty reports whether the schema has nothing to render.
func (s Schema) Empty() bool {
	return s.Root == nil || len(s.Root.Children) == 0
}

// Validate checks the path invariants of the tree.
func (s Schema) Validate() error {
	if s.Root == nil {
		return nil
	}
	if s.Root.Path != "" {
		return fmt.Errorf("%w: root path %q", ErrPathMismatch, s.Root.Path)
	}
	seen := make(map[string]struct{})
	return validateNode(s.Root, seen)
}

func validateNode(node *Node, seen map[string]struct{}) error {
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if strings.TrimSpace(child.Key) == "" {
			return fmt.Errorf("schema: node under %q has an empty key", node.Path)
		}
		if want := JoinPath(node.Path, child.Key); child.Path != want {
			return fmt.Errorf("%w: %q (want %q)", ErrPathMismatch, child.Path, want)
		}
		if _, exists := seen[child.Path]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicatePath, child.Path)
		}
		seen[child.Path] = struct{}{}
		if child.FieldType == FieldTypeArray {
			if len(child.Children) != 1 || child.Children[0] == nil || child.Children[0].Key != ArrayItemKey {
				return fmt.Errorf("schema: array %q must own exactly one %s child", child.Path, ArrayItemKey)
			}
		}
		if err := validateNode(child, seen); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every node depth-first in schema order, root included. Returning
// false from fn skips the node's children.
func (s Schema) Walk(fn func(node *Node) bool) {
	if s.Root == nil || fn == nil {
		return
	}
	walk(s.Root, fn)
}

func walk(node *Node, fn func(*Node) bool) {
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		if child != nil {
			walk(child, fn)
		}
	}
}

// CountFields returns the number of nodes below the root.
func (s Schema) CountFields() int {
	count := 0
	s.Walk(func(node *Node) bool {
		if node != s.Root {
			count++
		}
		return true
	})
	return count
}

// ExceedsLimit derives the field limit flag. A non-positive max falls back to
// DefaultMaxAllowedFields.
func ExceedsLimit(s Schema, max int) bool {
	if max <= 0 {
		max = DefaultMaxAllowedFields
	}
	return s.CountFields() > max
}

// Find returns the node stored at path.
func (s Schema) Find(path string) (*Node, bool) {
	var found *Node
	s.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Path == path {
			found = node
			return false
		}
		return node.Path == "" || strings.HasPrefix(path, node.Path+".")
	})
	return found, found != nil
}

// Clone returns a deep copy of the schema.
func (s Schema) Clone() Schema {
	if s.Root == nil {
		return Schema{}
	}
	return Schema{Root: s.Root.Clone()}
}

// Clone returns a deep copy of the node and its children.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Config.Options = append([]Option(nil), n.Config.Options...)
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return &out
}

// Child returns the direct child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, child := range n.Children {
		if child != nil && child.Key == key {
			return child, true
		}
	}
	return nil, false
}

// ItemNode returns the element descriptor of an array node.
func (n *Node) ItemNode() (*Node, bool) {
	if n == nil || n.FieldType != FieldTypeArray {
		return nil, false
	}
	return n.Child(ArrayItemKey)
}

// DisplayLabel returns the label, falling back to a humanised key.
func (n *Node) DisplayLabel() string {
	if n == nil {
		return ""
	}
	if label := strings.TrimSpace(n.Label); label != "" {
		return label
	}
	if n.Key == RootKey || n.Key == ArrayItemKey {
		return ""
	}
	return Humanize(n.Key)
}

// JoinPath concatenates dotted path segments, skipping empty parts.
func JoinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

// Resolve maps a value path, where numeric segments index array elements, to
// the node describing it. "tags.0" resolves to the item node of "tags".
func (s Schema) Resolve(valuePath string) (*Node, bool) {
	if s.Root == nil || strings.TrimSpace(valuePath) == "" {
		return nil, false
	}
	current := s.Root
	for _, segment := range strings.Split(valuePath, ".") {
		if current.FieldType == FieldTypeArray {
			if _, err := strconv.Atoi(segment); err != nil {
				return nil, false
			}
			item, ok := current.ItemNode()
			if !ok {
				return nil, false
			}
			current = item
			continue
		}
		child, ok := current.Child(segment)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}
