// Package expr is the default visibility rule language.
//
// Rules are boolean expressions over form value paths:
//
//	enabled
//	status == "active" && !archived
//	(age >= 18 || extras.role == "admin") && address.country != null
//
// Identifiers are dotted value paths; numeric segments index arrays. The
// "extras." prefix reads from Context.Extras. Bare words on the right of a
// comparison are taken as strings.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-editorkit/pkg/visibility"
)

const extrasPrefix = "extras."

// Evaluator parses and evaluates rules. Parsed rules are not cached.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator { return &Evaluator{} }

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval evaluates rule against ctx. An empty rule is true.
func (e *Evaluator) Eval(rule string, ctx visibility.Context) (bool, error) {
	if strings.TrimSpace(rule) == "" {
		return true, nil
	}
	p := &parser{lex: lexer{src: rule}}
	if err := p.advance(); err != nil {
		return false, err
	}
	node, err := p.or()
	if err != nil {
		return false, err
	}
	if p.tok.kind != kindEOF {
		return false, fmt.Errorf("expr: unexpected %q at %d", p.tok.text, p.tok.pos)
	}
	return node(ctx), nil
}

type kind int

const (
	kindEOF kind = iota
	kindIdent
	kindString
	kindNumber
	kindTrue
	kindFalse
	kindNull
	kindOp
	kindLParen
	kindRParen
)

type tok struct {
	kind kind
	text string
	pos  int
}

type lexer struct {
	src string
	pos int
}

var operators = []string{"==", "!=", "<=", ">=", "&&", "||", "<", ">", "!"}

func (l *lexer) next() (tok, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return tok{kind: kindEOF, pos: start}, nil
	}
	rest := l.src[l.pos:]
	switch c := rest[0]; {
	case c == '(':
		l.pos++
		return tok{kind: kindLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return tok{kind: kindRParen, text: ")", pos: start}, nil
	case c == '"' || c == '\'':
		return l.quoted(c)
	}
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return tok{kind: kindOp, text: op, pos: start}, nil
		}
	}
	if rest[0] == '=' || rest[0] == '&' || rest[0] == '|' {
		return tok{}, fmt.Errorf("expr: stray %q at %d", rest[0], start)
	}

	end := l.pos
	for end < len(l.src) && isWordByte(l.src[end]) {
		end++
	}
	if end == l.pos {
		return tok{}, fmt.Errorf("expr: unexpected %q at %d", rest[0], start)
	}
	word := l.src[l.pos:end]
	l.pos = end
	switch strings.ToLower(word) {
	case "true":
		return tok{kind: kindTrue, text: word, pos: start}, nil
	case "false":
		return tok{kind: kindFalse, text: word, pos: start}, nil
	case "null", "nil", "undefined":
		return tok{kind: kindNull, text: word, pos: start}, nil
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return tok{kind: kindNumber, text: word, pos: start}, nil
	}
	return tok{kind: kindIdent, text: word, pos: start}, nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '+' || c == '$' ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (l *lexer) quoted(quote byte) (tok, error) {
	start := l.pos
	var b strings.Builder
	for i := l.pos + 1; i < len(l.src); i++ {
		c := l.src[i]
		switch {
		case c == '\\' && i+1 < len(l.src):
			i++
			b.WriteByte(l.src[i])
		case c == quote:
			l.pos = i + 1
			return tok{kind: kindString, text: b.String(), pos: start}, nil
		default:
			b.WriteByte(c)
		}
	}
	return tok{}, fmt.Errorf("expr: unterminated string at %d", start)
}

// pred is a compiled rule fragment.
type pred func(visibility.Context) bool

type parser struct {
	lex lexer
	tok tok
}

func (p *parser) advance() error {
	next, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = next
	return nil
}

func (p *parser) isOp(op string) bool {
	return p.tok.kind == kindOp && p.tok.text == op
}

func (p *parser) or() (pred, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isOp("||") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(ctx visibility.Context) bool { return l(ctx) || right(ctx) }
	}
	return left, nil
}

func (p *parser) and() (pred, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("&&") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(ctx visibility.Context) bool { return l(ctx) && right(ctx) }
	}
	return left, nil
}

func (p *parser) unary() (pred, error) {
	if p.isOp("!") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return func(ctx visibility.Context) bool { return !inner(ctx) }, nil
	}
	return p.primary()
}

func (p *parser) primary() (pred, error) {
	switch p.tok.kind {
	case kindLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != kindRParen {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, p.advance()
	case kindTrue, kindFalse:
		value := p.tok.kind == kindTrue
		return func(visibility.Context) bool { return value }, p.advance()
	case kindIdent:
	case kindEOF:
		return nil, errors.New("expr: incomplete expression")
	default:
		return nil, fmt.Errorf("expr: expected a value path, got %q", p.tok.text)
	}

	path := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != kindOp || p.tok.text == "&&" || p.tok.text == "||" || p.tok.text == "!" {
		return func(ctx visibility.Context) bool {
			value, ok := lookup(ctx, path)
			return ok && truthy(value)
		}, nil
	}

	op := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	lit := p.tok
	switch lit.kind {
	case kindString, kindNumber, kindTrue, kindFalse, kindNull, kindIdent:
	default:
		return nil, fmt.Errorf("expr: expected a literal after %q", op)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return compare(path, op, lit)
}

func compare(path, op string, lit tok) (pred, error) {
	ordered := op == "<" || op == "<=" || op == ">" || op == ">="
	switch lit.kind {
	case kindNull:
		if ordered {
			return nil, fmt.Errorf("expr: %q cannot compare with null", op)
		}
		return func(ctx visibility.Context) bool {
			value, _ := lookup(ctx, path)
			return (value == nil) == (op == "==")
		}, nil
	case kindTrue, kindFalse:
		if ordered {
			return nil, fmt.Errorf("expr: %q cannot compare booleans", op)
		}
		want := lit.kind == kindTrue
		return func(ctx visibility.Context) bool {
			value, _ := lookup(ctx, path)
			return (asBool(value) == want) == (op == "==")
		}, nil
	case kindNumber:
		want, _ := strconv.ParseFloat(lit.text, 64)
		return func(ctx visibility.Context) bool {
			value, _ := lookup(ctx, path)
			got, ok := asNumber(value)
			if !ok {
				return op == "!="
			}
			return compareOrdered(got, want, op)
		}, nil
	default:
		want := lit.text
		return func(ctx visibility.Context) bool {
			value, _ := lookup(ctx, path)
			return compareOrdered(strings.Compare(asString(value), want), 0, op)
		}, nil
	}
}

func compareOrdered[T int | float64](got, want T, op string) bool {
	switch op {
	case "==":
		return got == want
	case "!=":
		return got != want
	case "<":
		return got < want
	case "<=":
		return got <= want
	case ">":
		return got > want
	case ">=":
		return got >= want
	}
	return false
}

func lookup(ctx visibility.Context, path string) (any, bool) {
	if rest, ok := strings.CutPrefix(path, extrasPrefix); ok {
		return nestedLookup(ctx.Extras, rest)
	}
	return ctx.Value.Get(path)
}

func nestedLookup(values map[string]any, path string) (any, bool) {
	if value, ok := values[path]; ok {
		return value, true
	}
	var current any = values
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := asNumber(value); ok {
		return n != 0
	}
	return true
}

func asBool(value any) bool {
	if s, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return truthy(value)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(value)
}
