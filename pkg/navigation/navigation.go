// Package navigation builds editor URLs and pushes them to a Router.
package navigation

import (
	"net/url"
	"strings"
	"sync"
)

// Router changes the current location.
type Router interface {
	Push(target string)
}

// RouterFunc adapts a function to Router.
type RouterFunc func(string)

// Push calls f.
func (f RouterFunc) Push(target string) {
	f(target)
}

// History is an in-memory Router recording every push.
type History struct {
	mu      sync.Mutex
	entries []string
}

// Push records target.
func (h *History) Push(target string) {
	h.mu.Lock()
	h.entries = append(h.entries, target)
	h.mu.Unlock()
}

// Entries returns the pushed URLs, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Current returns the last pushed URL.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// DatasourceEditorParams addresses the editor of a datasource.
type DatasourceEditorParams struct {
	PageID       string
	DatasourceID string
	Params       map[string]string
}

// SaaSDatasourceParams addresses the editor of a SaaS plugin datasource.
type SaaSDatasourceParams struct {
	PageID            string
	PluginPackageName string
	DatasourceID      string
	Params            map[string]string
}

// GenerateTemplateParams addresses the generate-page form.
type GenerateTemplateParams struct {
	PageID string
	Params map[string]string
}

// ActionEditorParams addresses the editor of a query or API.
type ActionEditorParams struct {
	PageID   string
	ActionID string
	// API selects the API editor instead of the query editor.
	API    bool
	Params map[string]string
}

// DatasourceEditorURL returns /pages/{page}/edit/datasource/{id}?params.
func DatasourceEditorURL(p DatasourceEditorParams) string {
	return build(p.Params, "pages", p.PageID, "edit", "datasource", p.DatasourceID)
}

// SaaSDatasourceURL returns /pages/{page}/edit/saas/{package}/datasources/{id}?params.
func SaaSDatasourceURL(p SaaSDatasourceParams) string {
	return build(p.Params, "pages", p.PageID, "edit", "saas", p.PluginPackageName, "datasources", p.DatasourceID)
}

// GenerateTemplateFormURL returns /pages/{page}/edit/generate-page/form?params.
func GenerateTemplateFormURL(p GenerateTemplateParams) string {
	return build(p.Params, "pages", p.PageID, "edit", "generate-page", "form")
}

// ActionEditorURL returns /pages/{page}/edit/queries/{id}?params, or
// /pages/{page}/edit/api/{id}?params for APIs.
func ActionEditorURL(p ActionEditorParams) string {
	kind := "queries"
	if p.API {
		kind = "api"
	}
	return build(p.Params, "pages", p.PageID, "edit", kind, p.ActionID)
}

// MergeParams overlays extra onto base; extra wins.
func MergeParams(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}

func build(params map[string]string, segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(strings.TrimSpace(segment)))
	}
	target := "/" + strings.Join(escaped, "/")
	if len(params) == 0 {
		return target
	}
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	// Encode sorts by key.
	return target + "?" + query.Encode()
}
