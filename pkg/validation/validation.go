// Package validation checks a form value against the declarative rules
// carried by schema nodes. Hidden nodes are always valid.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

// Result maps dotted value paths to their error messages.
type Result map[string][]string

// Valid reports whether no path failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// For returns the messages attached to path.
func (r Result) For(path string) []string {
	if r == nil {
		return nil
	}
	return r[path]
}

// Paths returns the failing paths in sorted order.
func (r Result) Paths() []string {
	paths := make([]string, 0, len(r))
	for path := range r {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (r Result) add(path, message string) {
	r[path] = append(r[path], message)
}

// Validate checks every visible leaf of s against value. Array elements are
// checked with their index in the path ("tags.0").
func Validate(s schema.Schema, value formvalue.Value) Result {
	result := make(Result)
	if s.Root == nil {
		return result
	}
	for _, child := range s.Root.Children {
		if child == nil {
			continue
		}
		validateNode(child, child.Key, value, result)
	}
	return result
}

func validateNode(node *schema.Node, path string, value formvalue.Value, result Result) {
	if node.Config.Hidden {
		return
	}
	switch node.FieldType {
	case schema.FieldTypeObject:
		for _, child := range node.Children {
			if child == nil {
				continue
			}
			validateNode(child, schema.JoinPath(path, child.Key), value, result)
		}
		return
	case schema.FieldTypeArray:
		current, _ := value.Get(path)
		items, _ := current.([]any)
		if node.Config.Validation.Required && len(items) == 0 {
			result.add(path, message(node, "This field is required"))
		}
		item, ok := node.ItemNode()
		if !ok {
			return
		}
		for idx := range items {
			validateNode(item, schema.JoinPath(path, strconv.Itoa(idx)), value, result)
		}
		return
	}

	current, _ := value.Get(path)
	for _, msg := range CheckField(node, current) {
		result.add(path, msg)
	}
}

// CheckField validates a single leaf value against the node's rules.
func CheckField(node *schema.Node, value any) []string {
	if node == nil || node.Config.Hidden {
		return nil
	}
	rules := node.Config.Validation
	var problems []string

	if isEmpty(value) {
		if rules.Required {
			problems = append(problems, message(node, "This field is required"))
		}
		return problems
	}

	switch node.FieldType {
	case schema.FieldTypeNumber, schema.FieldTypeCurrency:
		number, ok := toFloat(value)
		if !ok {
			return append(problems, message(node, "Not a valid number"))
		}
		if rules.Min != nil && number < *rules.Min {
			problems = append(problems, message(node, fmt.Sprintf("Must be at least %v", *rules.Min)))
		}
		if rules.Max != nil && number > *rules.Max {
			problems = append(problems, message(node, fmt.Sprintf("Must be at most %v", *rules.Max)))
		}
		return problems
	case schema.FieldTypeEmail:
		text := fmt.Sprint(value)
		if addr, err := mail.ParseAddress(text); err != nil || addr.Address != text {
			problems = append(problems, message(node, "Not a valid email"))
		}
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		if len(node.Config.Options) > 0 && !hasOption(node.Config.Options, value) {
			problems = append(problems, message(node, "Not a valid option"))
		}
		return problems
	case schema.FieldTypeSwitch, schema.FieldTypeCheckbox:
		return problems
	}

	text, ok := value.(string)
	if !ok {
		return problems
	}
	length := len([]rune(text))
	if rules.MinLength != nil && length < *rules.MinLength {
		problems = append(problems, message(node, fmt.Sprintf("Must be at least %d characters", *rules.MinLength)))
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		problems = append(problems, message(node, fmt.Sprintf("Must be at most %d characters", *rules.MaxLength)))
	}
	if pattern := strings.TrimSpace(rules.Pattern); pattern != "" {
		re, err := compile(pattern)
		if err != nil || !re.MatchString(text) {
			problems = append(problems, message(node, "Does not match the expected format"))
		}
	}
	return problems
}

func message(node *schema.Node, fallback string) string {
	if custom := strings.TrimSpace(node.Config.Validation.Message); custom != "" {
		return custom
	}
	return fallback
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func hasOption(options []schema.Option, value any) bool {
	want := fmt.Sprint(value)
	for _, option := range options {
		if fmt.Sprint(option.Value) == want {
			return true
		}
	}
	return false
}

var (
	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp.Regexp)
)

func compile(pattern string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache[pattern] = re
	return re, nil
}
