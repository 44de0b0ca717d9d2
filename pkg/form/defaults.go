package form

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

// NewDefaultRegistry registers a strategy for every built-in field type.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()

	for fieldType, inputType := range map[schema.FieldType]string{
		schema.FieldTypeText:     "text",
		schema.FieldTypeNumber:   "number",
		schema.FieldTypeEmail:    "email",
		schema.FieldTypePassword: "password",
		schema.FieldTypeDate:     "date",
		schema.FieldTypePhone:    "tel",
		schema.FieldTypeCurrency: "number",
	} {
		registry.MustRegister(fieldType, Descriptor{
			Strategy: templateStrategy("forms.input", templates.FormInput, inputPayload(inputType)),
		})
	}
	registry.MustRegister(schema.FieldTypeMultiline, Descriptor{
		Strategy: templateStrategy("forms.textarea", templates.FormTextarea, inputPayload("")),
	})
	registry.MustRegister(schema.FieldTypeSwitch, Descriptor{
		Strategy:  templateStrategy("forms.switch", templates.FormSwitch, togglePayload("switch")),
		OwnsLabel: true,
	})
	registry.MustRegister(schema.FieldTypeCheckbox, Descriptor{
		Strategy:  templateStrategy("forms.switch", templates.FormSwitch, togglePayload("checkbox")),
		OwnsLabel: true,
	})
	registry.MustRegister(schema.FieldTypeSelect, Descriptor{
		Strategy: templateStrategy("forms.select", templates.FormSelect, optionsPayload(false)),
	})
	registry.MustRegister(schema.FieldTypeMultiSelect, Descriptor{
		Strategy: templateStrategy("forms.select", templates.FormSelect, optionsPayload(true)),
	})
	registry.MustRegister(schema.FieldTypeRadio, Descriptor{
		Strategy: templateStrategy("forms.radio", templates.FormRadio, optionsPayload(false)),
	})
	registry.MustRegister(schema.FieldTypeObject, Descriptor{
		Strategy:  objectStrategy,
		OwnsLabel: true,
	})
	registry.MustRegister(schema.FieldTypeArray, Descriptor{
		Strategy:  arrayStrategy,
		OwnsLabel: true,
	})

	return registry
}

type payloadFunc func(field Field) map[string]any

// templateStrategy renders templateName, or the theme partial registered
// under partialKey when one is configured.
func templateStrategy(partialKey, templateName string, build payloadFunc) Strategy {
	return func(buf *bytes.Buffer, field Field, data FieldData) error {
		if data.Template == nil {
			return fmt.Errorf("form: template renderer not configured for %q", templateName)
		}
		resolved := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}
		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{"field": build(field)})
		if err != nil {
			return fmt.Errorf("form: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func basePayload(field Field) map[string]any {
	node := field.Node
	rules := node.Config.Validation
	return map[string]any{
		"id":          field.ID,
		"name":        field.Path,
		"label":       node.DisplayLabel(),
		"placeholder": node.Config.Placeholder,
		"required":    rules.Required,
		"disabled":    field.Disabled || node.Config.Disabled,
		"invalid":     len(field.Errors) > 0,
	}
}

func inputPayload(inputType string) payloadFunc {
	return func(field Field) map[string]any {
		payload := basePayload(field)
		rules := field.Node.Config.Validation
		payload["input_type"] = inputType
		payload["value"] = displayValue(field.Node.FieldType, field.Value)
		payload["min"] = formatBound(rules.Min)
		payload["max"] = formatBound(rules.Max)
		payload["pattern"] = rules.Pattern
		payload["step"] = ""
		switch field.Node.FieldType {
		case schema.FieldTypeNumber:
			payload["step"] = "any"
		case schema.FieldTypeCurrency:
			payload["step"] = "0.01"
		}
		return payload
	}
}

func togglePayload(variant string) payloadFunc {
	return func(field Field) map[string]any {
		payload := basePayload(field)
		payload["variant"] = variant
		payload["checked"] = truthy(field.Value)
		return payload
	}
}

func optionsPayload(multiple bool) payloadFunc {
	return func(field Field) map[string]any {
		payload := basePayload(field)
		payload["multiple"] = multiple

		selected := make(map[string]struct{})
		if values, ok := field.Value.([]any); ok {
			for _, value := range values {
				selected[fmt.Sprint(value)] = struct{}{}
			}
		} else if field.Value != nil {
			selected[fmt.Sprint(field.Value)] = struct{}{}
		}

		options := make([]map[string]any, 0, len(field.Node.Config.Options))
		for _, option := range field.Node.Config.Options {
			value := fmt.Sprint(option.Value)
			label := strings.TrimSpace(option.Label)
			if label == "" {
				label = value
			}
			_, isSelected := selected[value]
			options = append(options, map[string]any{
				"label":    label,
				"value":    value,
				"selected": isSelected,
			})
		}
		payload["options"] = options
		return payload
	}
}

func objectStrategy(buf *bytes.Buffer, field Field, data FieldData) error {
	var builder strings.Builder
	builder.WriteString(`<fieldset id="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString(`" class="editorkit-object">`)
	if label := field.Node.DisplayLabel(); label != "" {
		builder.WriteString(`<legend class="editorkit-object__legend">`)
		builder.WriteString(html.EscapeString(label))
		builder.WriteString(`</legend>`)
	}
	if data.RenderChild != nil {
		for _, child := range field.Node.Children {
			if child == nil {
				continue
			}
			rendered, err := data.RenderChild(child, schema.JoinPath(field.Path, child.Key))
			if err != nil {
				return err
			}
			builder.WriteString(rendered)
		}
	}
	builder.WriteString(`</fieldset>`)
	buf.WriteString(builder.String())
	return nil
}

func arrayStrategy(buf *bytes.Buffer, field Field, data FieldData) error {
	var builder strings.Builder
	label := field.Node.DisplayLabel()
	labelID := field.ID + "-label"

	builder.WriteString(`<div id="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString(`" class="editorkit-array" role="group"`)
	if label != "" {
		builder.WriteString(` aria-labelledby="`)
		builder.WriteString(html.EscapeString(labelID))
		builder.WriteString(`"`)
	}
	builder.WriteString(`>`)
	if label != "" {
		builder.WriteString(`<div id="`)
		builder.WriteString(html.EscapeString(labelID))
		builder.WriteString(`" class="editorkit-array__label">`)
		builder.WriteString(html.EscapeString(label))
		builder.WriteString(`</div>`)
	}

	disabled := field.Disabled || field.Node.Config.Disabled
	item, hasItem := field.Node.ItemNode()
	items, _ := field.Value.([]any)
	if hasItem && data.RenderChild != nil {
		for idx := range items {
			itemPath := schema.JoinPath(field.Path, strconv.Itoa(idx))
			rendered, err := data.RenderChild(item, itemPath)
			if err != nil {
				return err
			}
			builder.WriteString(`<div class="editorkit-array__item" data-index="`)
			builder.WriteString(strconv.Itoa(idx))
			builder.WriteString(`">`)
			builder.WriteString(rendered)
			builder.WriteString(`<button type="button" class="editorkit-array__remove" data-action="remove-item" data-item-path="`)
			builder.WriteString(html.EscapeString(itemPath))
			builder.WriteString(`" data-array-path="`)
			builder.WriteString(html.EscapeString(field.Path))
			builder.WriteString(`" data-index="`)
			builder.WriteString(strconv.Itoa(idx))
			builder.WriteString(`"`)
			if disabled {
				builder.WriteString(` disabled`)
			}
			builder.WriteString(`>Remove</button></div>`)
		}
	}

	builder.WriteString(`<button type="button" class="editorkit-array__add" data-action="add-item" data-array-path="`)
	builder.WriteString(html.EscapeString(field.Path))
	builder.WriteString(`"`)
	if disabled {
		builder.WriteString(` disabled`)
	}
	builder.WriteString(`>Add New</button></div>`)
	buf.WriteString(builder.String())
	return nil
}

func displayValue(fieldType schema.FieldType, value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		if fieldType == schema.FieldTypeDate {
			if parsed, err := time.Parse(time.RFC3339, typed); err == nil {
				return parsed.Format(time.DateOnly)
			}
		}
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'f', -1, 64)
}

func truthy(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	default:
		return false
	}
}
