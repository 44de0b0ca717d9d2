package formvalue

import (
	"github.com/goliatone/go-editorkit/pkg/schema"
)

// Defaults derives the initial value of a form from the node defaults of s.
// Every node below the root gets an entry so the value mirrors the tree.
func Defaults(s schema.Schema) Value {
	out := New()
	if s.Root == nil {
		return out
	}
	for _, child := range s.Root.Children {
		if child == nil {
			continue
		}
		out[child.Key] = nodeDefault(child)
	}
	return out
}

// ItemDefault returns the value a freshly added element of the array node
// starts with.
func ItemDefault(array *schema.Node) any {
	item, ok := array.ItemNode()
	if !ok {
		return nil
	}
	return nodeDefault(item)
}

func nodeDefault(node *schema.Node) any {
	switch node.FieldType {
	case schema.FieldTypeObject:
		values := make(map[string]any, len(node.Children))
		for _, child := range node.Children {
			if child == nil {
				continue
			}
			values[child.Key] = nodeDefault(child)
		}
		return values
	case schema.FieldTypeArray, schema.FieldTypeMultiSelect:
		if items, ok := node.Config.Default.([]any); ok {
			return DeepCopy(items)
		}
		return []any{}
	}

	if node.Config.Default != nil {
		return DeepCopy(node.Config.Default)
	}
	switch node.FieldType {
	case schema.FieldTypeSwitch, schema.FieldTypeCheckbox:
		return false
	case schema.FieldTypeNumber, schema.FieldTypeCurrency:
		return nil
	case schema.FieldTypeText, schema.FieldTypeEmail, schema.FieldTypePassword,
		schema.FieldTypeMultiline, schema.FieldTypeSelect, schema.FieldTypeRadio,
		schema.FieldTypeDate, schema.FieldTypePhone:
		return ""
	default:
		return nil
	}
}

// Conform shapes prev to s: values stored at paths that still exist in s are
// kept when their shape suits the node there, everything else comes from
// Defaults(s). Arrays are carried over whole or not at all.
func Conform(s schema.Schema, prev Value) Value {
	out := Defaults(s)
	if len(prev) == 0 || s.Root == nil {
		return out
	}
	s.Walk(func(node *schema.Node) bool {
		if node == s.Root {
			return true
		}
		if node.FieldType == schema.FieldTypeObject {
			return true
		}
		if existing, ok := prev.Get(node.Path); ok && fits(node, existing) {
			_ = out.Set(node.Path, DeepCopy(existing))
		}
		return false
	})
	return out
}

// fits reports whether value can be held by node. Unknown field types accept
// anything.
func fits(node *schema.Node, value any) bool {
	if value == nil {
		return true
	}
	switch node.FieldType {
	case schema.FieldTypeObject:
		fields, ok := value.(map[string]any)
		if !ok {
			return false
		}
		for _, child := range node.Children {
			if child == nil {
				continue
			}
			if item, present := fields[child.Key]; present && !fits(child, item) {
				return false
			}
		}
		return true
	case schema.FieldTypeArray:
		items, ok := value.([]any)
		if !ok {
			return false
		}
		item, hasItem := node.ItemNode()
		if !hasItem {
			return true
		}
		for _, element := range items {
			if !fits(item, element) {
				return false
			}
		}
		return true
	case schema.FieldTypeMultiSelect:
		_, ok := value.([]any)
		return ok
	case schema.FieldTypeSwitch, schema.FieldTypeCheckbox:
		_, ok := value.(bool)
		return ok
	case schema.FieldTypeNumber, schema.FieldTypeCurrency:
		switch value.(type) {
		case float64, float32, int, int64, int32:
			return true
		}
		return false
	case schema.FieldTypeText, schema.FieldTypeEmail, schema.FieldTypePassword,
		schema.FieldTypeMultiline, schema.FieldTypeSelect, schema.FieldTypeRadio,
		schema.FieldTypeDate, schema.FieldTypePhone:
		switch value.(type) {
		case map[string]any, Value, []any:
			return false
		}
		return true
	default:
		return true
	}
}
