// Package visibility resolves the conditional visibility of schema nodes.
// A node whose Config.VisibleWhen rule evaluates to false against the current
// form value is treated as hidden for rendering, validation and field state.
package visibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

// Context is what rules are evaluated against.
type Context struct {
	Value formvalue.Value
	// Extras is reachable from rules through the "extras." prefix.
	Extras map[string]any
}

// Evaluator decides a single rule.
type Evaluator interface {
	Eval(rule string, ctx Context) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, ctx Context) (bool, error)

func (fn EvaluatorFunc) Eval(rule string, ctx Context) (bool, error) {
	return fn(rule, ctx)
}

// HasRules reports whether any node of s carries a rule.
func HasRules(s schema.Schema) bool {
	found := false
	s.Walk(func(node *schema.Node) bool {
		if strings.TrimSpace(node.Config.VisibleWhen) != "" {
			found = true
		}
		return !found
	})
	return found
}

// Apply returns s with Hidden set on every node whose rule fails. s itself is
// never modified; without rules it is returned as is. Rules that cannot be
// evaluated leave their node visible and are reported in the joined error.
func Apply(s schema.Schema, ctx Context, eval Evaluator) (schema.Schema, error) {
	if eval == nil || !HasRules(s) {
		return s, nil
	}
	out := s.Clone()
	var errs []error
	out.Walk(func(node *schema.Node) bool {
		rule := strings.TrimSpace(node.Config.VisibleWhen)
		if rule == "" || node.Config.Hidden {
			return true
		}
		visible, err := eval.Eval(rule, ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("visibility: %s: %w", node.Path, err))
			return true
		}
		node.Config.Hidden = !visible
		return true
	})
	return out, errors.Join(errs...)
}
