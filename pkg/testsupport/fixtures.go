// Package testsupport holds fixture and golden helpers shared by package
// tests.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editorkit/pkg/schema"
)

// MustLoadSchema reads a schema fixture (JSON, YAML or .sample.json).
func MustLoadSchema(t *testing.T, path string) schema.Schema {
	t.Helper()

	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return s
}

// LoadSchema returns a schema without requiring testing.T so fixtures can be
// wired in setup functions.
func LoadSchema(path string) (schema.Schema, error) {
	if path == "" {
		return schema.Schema{}, errors.New("testsupport: schema path is required")
	}
	s, err := schema.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return schema.Schema{}, fmt.Errorf("testsupport: %w", err)
	}
	return s, nil
}

// SchemaOf builds a flat schema with one text field per key.
func SchemaOf(keys ...string) schema.Schema {
	nodes := make([]*schema.Node, 0, len(keys))
	for _, key := range keys {
		nodes = append(nodes, &schema.Node{Key: key, FieldType: schema.FieldTypeText})
	}
	return schema.New(nodes...)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// rendered string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// CountOccurrences counts non-overlapping occurrences of needle in html.
func CountOccurrences(html, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(html, needle)
}
