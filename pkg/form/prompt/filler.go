// Package prompt fills a form value interactively, one prompt per schema
// field. Prompt strategies are keyed by field type like render strategies;
// unknown types are skipped.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/validation"
)

// ErrAborted signals the user aborted input (Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// maxAttempts bounds re-prompting after invalid answers.
const maxAttempts = 5

// Strategy asks for the value of one field and stores it in value.
type Strategy func(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error

// Option configures a Filler.
type Option func(*Filler)

// WithDriver replaces the survey driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithStrategy overrides the prompt strategy of a field type.
func WithStrategy(fieldType schema.FieldType, strategy Strategy) Option {
	return func(f *Filler) {
		if strategy != nil {
			f.strategies[fieldType] = strategy
		}
	}
}

// Filler walks a schema and prompts for every visible field.
type Filler struct {
	driver     Driver
	logger     *zap.Logger
	strategies map[schema.FieldType]Strategy
}

// New constructs a Filler using the survey driver by default.
func New(opts ...Option) *Filler {
	f := &Filler{
		driver:     NewSurveyDriver(),
		logger:     zap.NewNop(),
		strategies: defaultStrategies(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every field of s, starting from initial (or the schema
// defaults when initial is nil).
func (f *Filler) Fill(ctx context.Context, s schema.Schema, initial formvalue.Value) (formvalue.Value, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	value := formvalue.Conform(s, initial)
	if s.Root == nil {
		return value, nil
	}
	for _, child := range s.Root.Children {
		if child == nil {
			continue
		}
		if err := f.field(ctx, child, child.Key, value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (f *Filler) field(ctx context.Context, node *schema.Node, path string, value formvalue.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if node.Config.Hidden || node.Config.Disabled {
		return nil
	}
	strategy, ok := f.strategies[node.FieldType]
	if !ok {
		f.logger.Debug("prompt: no strategy for field type",
			zap.String("path", path),
			zap.String("field_type", string(node.FieldType)),
		)
		return nil
	}
	return strategy(ctx, f, node, path, value)
}

func defaultStrategies() map[schema.FieldType]Strategy {
	return map[schema.FieldType]Strategy{
		schema.FieldTypeText:        promptText,
		schema.FieldTypeEmail:       promptText,
		schema.FieldTypePhone:       promptText,
		schema.FieldTypeDate:        promptText,
		schema.FieldTypePassword:    promptText,
		schema.FieldTypeMultiline:   promptText,
		schema.FieldTypeNumber:      promptNumber,
		schema.FieldTypeCurrency:    promptNumber,
		schema.FieldTypeSwitch:      promptBool,
		schema.FieldTypeCheckbox:    promptBool,
		schema.FieldTypeSelect:      promptSelect,
		schema.FieldTypeRadio:       promptSelect,
		schema.FieldTypeMultiSelect: promptMultiSelect,
		schema.FieldTypeObject:      promptObject,
		schema.FieldTypeArray:       promptArray,
	}
}

// ask repeats question until the answer passes validation or attempts run
// out.
func (f *Filler) ask(ctx context.Context, node *schema.Node, path string, question func() (any, error)) (any, error) {
	var problems []string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := question()
		if err != nil {
			return nil, err
		}
		problems = validation.CheckField(node, answer)
		if len(problems) == 0 {
			return answer, nil
		}
		_ = f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", path, strings.Join(problems, ", ")))
	}
	return nil, fmt.Errorf("prompt: %s: %s", path, strings.Join(problems, ", "))
}

func label(node *schema.Node, path string) string {
	if l := node.DisplayLabel(); l != "" {
		return l
	}
	return path
}

func promptText(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error {
	current, _ := value.Get(path)
	def, _ := current.(string)
	answer, err := f.ask(ctx, node, path, func() (any, error) {
		switch node.FieldType {
		case schema.FieldTypePassword:
			return f.driver.Password(ctx, InputConfig{Message: label(node, path), Default: def, Help: node.Config.Tooltip})
		case schema.FieldTypeMultiline:
			return f.driver.TextArea(ctx, TextAreaConfig{Message: label(node, path), Default: def, Help: node.Config.Tooltip})
		default:
			return f.driver.Input(ctx, InputConfig{Message: label(node, path), Default: def, Help: node.Config.Tooltip})
		}
	})
	if err != nil {
		return err
	}
	return value.Set(path, answer)
}

func promptNumber(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error {
	current, _ := value.Get(path)
	def := ""
	if current != nil {
		def = fmt.Sprint(current)
	}
	answer, err := f.ask(ctx, node, path, func() (any, error) {
		raw, err := f.driver.Input(ctx, InputConfig{Message: label(node, path), Default: def, Help: node.Config.Tooltip})
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Keep the raw text so validation reports it.
			return raw, nil
		}
		return parsed, nil
	})
	if err != nil {
		return err
	}
	return value.Set(path, answer)
}

func promptBool(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error {
	current, _ := value.Get(path)
	def, _ := current.(bool)
	answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: label(node, path), Default: def, Help: node.Config.Tooltip})
	if err != nil {
		return err
	}
	return value.Set(path, answer)
}

func optionLabels(node *schema.Node) []string {
	labels := make([]string, 0, len(node.Config.Options))
	for _, option := range node.Config.Options {
		l := strings.TrimSpace(option.Label)
		if l == "" {
			l = fmt.Sprint(option.Value)
		}
		labels = append(labels, l)
	}
	return labels
}

func optionIndex(node *schema.Node, v any) int {
	if v == nil {
		return -1
	}
	want := fmt.Sprint(v)
	for i, option := range node.Config.Options {
		if fmt.Sprint(option.Value) == want {
			return i
		}
	}
	return -1
}

func promptSelect(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error {
	if len(node.Config.Options) == 0 {
		return promptText(ctx, f, node, path, value)
	}
	current, _ := value.Get(path)
	answer, err := f.ask(ctx, node, path, func() (any, error) {
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label(node, path),
			Options:      optionLabels(node),
			DefaultIndex: optionIndex(node, current),
			Help:         node.Config.Tooltip,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(node.Config.Options) {
			return nil, nil
		}
		return node.Config.Options[idx].Value, nil
	})
	if err != nil {
		return err
	}
	return value.Set(path, answer)
}

func promptMultiSelect(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error {
	current, _ := value.Get(path)
	var defaults []int
	if items, ok := current.([]any); ok {
		for _, item := range items {
			if idx := optionIndex(node, item); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
	}
	indices, err := f.driver.MultiSelect(ctx, SelectConfig{
		Message:  label(node, path),
		Options:  optionLabels(node),
		Defaults: defaults,
		Help:     node.Config.Tooltip,
	})
	if err != nil {
		return err
	}
	selected := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(node.Config.Options) {
			selected = append(selected, node.Config.Options[idx].Value)
		}
	}
	return value.Set(path, selected)
}

func promptObject(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error {
	if l := node.DisplayLabel(); l != "" {
		_ = f.driver.Info(ctx, l)
	}
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if err := f.field(ctx, child, schema.JoinPath(path, child.Key), value); err != nil {
			return err
		}
	}
	return nil
}

func promptArray(ctx context.Context, f *Filler, node *schema.Node, path string, value formvalue.Value) error {
	item, ok := node.ItemNode()
	if !ok {
		return fmt.Errorf("prompt: array field %s missing item node", path)
	}
	current, _ := value.Get(path)
	existing, _ := current.([]any)

	// Fresh slice so the item defaults do not alias prefilled values.
	if err := value.Set(path, []any{}); err != nil {
		return err
	}
	count := 0
	for _, prev := range existing {
		if err := value.Set(schema.JoinPath(path, strconv.Itoa(count)), prev); err != nil {
			return err
		}
		if err := f.field(ctx, item, schema.JoinPath(path, strconv.Itoa(count)), value); err != nil {
			return err
		}
		count++
	}

	for {
		message := "Add an item to " + label(node, path) + "?"
		if count > 0 {
			message = "Add another item to " + label(node, path) + "?"
		}
		more, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		itemPath := schema.JoinPath(path, strconv.Itoa(count))
		if err := value.Set(itemPath, formvalue.ItemDefault(node)); err != nil {
			return err
		}
		if err := f.field(ctx, item, itemPath, value); err != nil {
			return err
		}
		count++
	}
}
