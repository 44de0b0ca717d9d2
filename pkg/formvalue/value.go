// Package formvalue holds the aggregate value of a form instance. Values are
// nested maps and slices that mirror the schema tree and are addressed with the
// same dotted paths schema nodes use; numeric segments index arrays.
package formvalue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the current value object of a form.
type Value map[string]any

// New returns an empty value.
func New() Value {
	return make(Value)
}

// Get resolves a dotted path.
func (v Value) Get(path string) (any, bool) {
	if v == nil || strings.TrimSpace(path) == "" {
		return nil, false
	}
	return getPath(map[string]any(v), path)
}

// Set writes value at path, creating intermediate maps and slices.
func (v Value) Set(path string, value any) error {
	if v == nil {
		return fmt.Errorf("formvalue: value is nil")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("formvalue: path is required")
	}
	return setPath(map[string]any(v), path, value)
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	if v == nil {
		return nil
	}
	out := make(Value, len(v))
	for key, item := range v {
		out[key] = DeepCopy(item)
	}
	return out
}

// Flatten returns the path -> leaf value view of v. Empty containers are kept
// as leaves so they survive a round trip.
func (v Value) Flatten() map[string]any {
	out := make(map[string]any)
	flatten("", map[string]any(v), out)
	return out
}

// Paths returns the flattened paths in sorted order.
func (v Value) Paths() []string {
	flat := v.Flatten()
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func flatten(prefix string, value any, out map[string]any) {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 && prefix != "" {
			out[prefix] = typed
			return
		}
		for key, item := range typed {
			flatten(join(prefix, key), item, out)
		}
	case []any:
		if len(typed) == 0 {
			out[prefix] = typed
			return
		}
		for idx, item := range typed {
			flatten(join(prefix, strconv.Itoa(idx)), item, out)
		}
	default:
		if prefix != "" {
			out[prefix] = typed
		}
	}
}

func join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

// DeepCopy copies nested maps and slices; other values are returned as is.
func DeepCopy(value any) any {
	switch typed := value.(type) {
	case Value:
		return typed.Clone()
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = DeepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = DeepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	current := any(root)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case Value:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath walks the segments keeping a setter for the slot that holds the
// current container, so slices that grow are written back into their parent.
func setPath(root map[string]any, path string, value any) error {
	segments := strings.Split(path, ".")

	var (
		current any = root
		store       = func(any) {}
	)

	for i, segment := range segments {
		last := i == len(segments)-1

		switch node := current.(type) {
		case map[string]any:
			if last {
				node[segment] = value
				return nil
			}
			child := ensureContainer(node[segment], segments[i+1])
			node[segment] = child
			key := segment
			store = func(updated any) { node[key] = updated }
			current = child

		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return fmt.Errorf("formvalue: expected numeric segment, got %q in %q", segment, path)
			}
			if idx < 0 {
				return fmt.Errorf("formvalue: negative index in path %q", path)
			}
			if len(node) <= idx {
				node = append(node, make([]any, idx+1-len(node))...)
				store(node)
			}
			if last {
				node[idx] = value
				return nil
			}
			child := ensureContainer(node[idx], segments[i+1])
			node[idx] = child
			slice, slot := node, idx
			store = func(updated any) { slice[slot] = updated }
			current = child

		default:
			return fmt.Errorf("formvalue: segment %q of %q is not a container", segment, path)
		}
	}
	return nil
}

// ensureContainer returns existing when it already has the container kind the
// next segment needs, otherwise a fresh one.
func ensureContainer(existing any, next string) any {
	if _, err := strconv.Atoi(next); err == nil {
		if slice, ok := existing.([]any); ok {
			return slice
		}
		return []any{}
	}
	switch typed := existing.(type) {
	case map[string]any:
		return typed
	case Value:
		return map[string]any(typed)
	default:
		return map[string]any{}
	}
}
