package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	j "github.com/goccy/go-json"
)

// FromSample infers a schema from a JSON data sample. Object key order in the
// sample becomes field order. The sample values become field defaults.
func FromSample(data []byte) (Schema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Schema{}, nil
	}

	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeOrdered(dec)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: decode sample: %w", err)
	}
	object, ok := value.(orderedObject)
	if !ok {
		return Schema{}, errors.New("schema: sample must be a JSON object")
	}

	root := &Node{Key: RootKey, FieldType: FieldTypeObject}
	for _, entry := range object {
		root.Children = append(root.Children, inferNode(entry.key, entry.value))
	}
	return Build(root), nil
}

type orderedEntry struct {
	key   string
	value any
}

// orderedObject keeps object members in document order, which map[string]any
// cannot do.
type orderedObject []orderedEntry

func decodeOrdered(dec *j.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("unexpected end of input")
		}
		return nil, err
	}

	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			var object orderedObject
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				member, err := decodeOrdered(dec)
				if err != nil {
					return nil, err
				}
				object = append(object, orderedEntry{key: key, value: member})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			if object == nil {
				object = orderedObject{}
			}
			return object, nil
		case '[':
			items := []any{}
			for dec.More() {
				item, err := decodeOrdered(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	default:
		return v, nil
	}
}

func inferNode(key string, value any) *Node {
	node := &Node{Key: key, Label: Humanize(key)}

	switch v := value.(type) {
	case orderedObject:
		node.FieldType = FieldTypeObject
		for _, entry := range v {
			node.Children = append(node.Children, inferNode(entry.key, entry.value))
		}
	case []any:
		node.FieldType = FieldTypeArray
		var first any = ""
		if len(v) > 0 {
			first = v[0]
		}
		item := inferNode(ArrayItemKey, first)
		item.Label = ""
		item.Config.Default = nil
		node.Children = []*Node{item}
		node.Config.Default = plainValue(v)
	case bool:
		node.FieldType = FieldTypeSwitch
		node.Config.Default = v
	case j.Number:
		node.FieldType = FieldTypeNumber
		if f, err := v.Float64(); err == nil {
			node.Config.Default = f
		}
	case string:
		node.FieldType = inferStringType(v)
		node.Config.Default = v
	default:
		node.FieldType = FieldTypeText
	}
	return node
}

func inferStringType(value string) FieldType {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return FieldTypeText
	}
	if strings.Contains(trimmed, "@") && !strings.ContainsAny(trimmed, " <>") {
		if addr, err := mail.ParseAddress(trimmed); err == nil && addr.Address == trimmed {
			return FieldTypeEmail
		}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return FieldTypeDate
		}
	}
	return FieldTypeText
}

// plainValue converts ordered decode output into map/slice values suitable
// for defaults.
func plainValue(value any) any {
	switch v := value.(type) {
	case orderedObject:
		out := make(map[string]any, len(v))
		for _, entry := range v {
			out[entry.key] = plainValue(entry.value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainValue(item)
		}
		return out
	case j.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}
