package form

import (
	"fmt"
	"io"
)

type stubRenderer struct {
	templates map[string]string
}

func newStubRenderer(templates map[string]string) *stubRenderer {
	return &stubRenderer{templates: templates}
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return s.RenderTemplate(name, data, out...)
}

func (s *stubRenderer) RenderTemplate(name string, _ any, out ...io.Writer) (string, error) {
	content, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("stub: template %q not found", name)
	}
	for _, w := range out {
		_, _ = io.WriteString(w, content)
	}
	return content, nil
}

func (s *stubRenderer) RenderString(content string, _ any, _ ...io.Writer) (string, error) {
	return content, nil
}

func (s *stubRenderer) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (s *stubRenderer) GlobalContext(any) error {
	return nil
}
