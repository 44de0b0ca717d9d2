package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FieldTypeExtension lets OpenAPI authors pin the field type of a property.
const FieldTypeExtension = "x-editorkit-field-type"

var errOperationNotFound = errors.New("schema: openapi operation or component not found")

// FromOpenAPI builds a schema from the JSON request body of the operation
// identified by ref. When no operation matches, ref names a component schema,
// either bare or as "#/components/schemas/<name>". Properties are ordered by
// name since OpenAPI objects carry no ordering.
func FromOpenAPI(ctx context.Context, data []byte, ref string) (Schema, error) {
	if err := ctx.Err(); err != nil {
		return Schema{}, err
	}
	if len(data) == 0 {
		return Schema{}, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: load openapi document: %w", err)
	}

	var body *openapi3.SchemaRef
	if operation := findOperation(spec, ref); operation != nil {
		body = requestSchema(operation.RequestBody)
	} else if component := findComponent(spec, ref); component != nil {
		body = component
	} else {
		return Schema{}, fmt.Errorf("%w: %q", errOperationNotFound, ref)
	}
	if body == nil || body.Value == nil {
		return Schema{}, nil
	}

	root := &Node{Key: RootKey, FieldType: FieldTypeObject}
	root.Children = convertProperties(body.Value)
	s := Build(root)
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if id == operationID {
				return op
			}
		}
	}
	return nil
}

func findComponent(spec *openapi3.T, ref string) *openapi3.SchemaRef {
	if spec == nil || spec.Components == nil {
		return nil
	}
	name := strings.TrimPrefix(strings.TrimSpace(ref), "#/components/schemas/")
	if name == "" {
		return nil
	}
	return spec.Components.Schemas[name]
}

func requestSchema(requestBody *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return mt.Schema
		}
	}
	return nil
}

func convertProperties(src *openapi3.Schema) []*Node {
	if src == nil || len(src.Properties) == 0 {
		return nil
	}
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		node := convertSchemaRef(name, src.Properties[name])
		if _, ok := required[name]; ok {
			node.Config.Validation.Required = true
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func convertSchemaRef(key string, ref *openapi3.SchemaRef) *Node {
	node := &Node{Key: key, Label: Humanize(key), FieldType: FieldTypeText}
	if ref == nil || ref.Value == nil {
		return node
	}
	src := ref.Value
	if title := strings.TrimSpace(src.Title); title != "" && key != ArrayItemKey {
		node.Label = title
	}
	node.Config.Tooltip = src.Description
	node.Config.Default = src.Default

	for _, value := range src.Enum {
		node.Config.Options = append(node.Config.Options, Option{Label: fmt.Sprint(value), Value: value})
	}

	switch firstType(src.Type) {
	case "object":
		node.FieldType = FieldTypeObject
		node.Children = convertProperties(src)
	case "array":
		node.FieldType = FieldTypeArray
		item := convertSchemaRef(ArrayItemKey, src.Items)
		item.Label = ""
		node.Children = []*Node{item}
		if item.FieldType == FieldTypeSelect {
			node.FieldType = FieldTypeMultiSelect
			node.Config.Options = item.Config.Options
			node.Children = nil
		}
	case "boolean":
		node.FieldType = FieldTypeSwitch
	case "integer", "number":
		node.FieldType = FieldTypeNumber
	default:
		node.FieldType = stringFieldType(src.Format)
	}
	if len(node.Config.Options) > 0 && !node.FieldType.IsContainer() && node.FieldType != FieldTypeMultiSelect {
		node.FieldType = FieldTypeSelect
	}
	if pinned, ok := src.Extensions[FieldTypeExtension].(string); ok && strings.TrimSpace(pinned) != "" {
		node.FieldType = FieldType(strings.TrimSpace(pinned))
	}

	if src.Min != nil {
		value := *src.Min
		node.Config.Validation.Min = &value
	}
	if src.Max != nil {
		value := *src.Max
		node.Config.Validation.Max = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		node.Config.Validation.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		node.Config.Validation.MaxLength = &value
	}
	node.Config.Validation.Pattern = src.Pattern
	return node
}

func stringFieldType(format string) FieldType {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "email":
		return FieldTypeEmail
	case "password":
		return FieldTypePassword
	case "date", "date-time":
		return FieldTypeDate
	case "textarea":
		return FieldTypeMultiline
	default:
		return FieldTypeText
	}
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
