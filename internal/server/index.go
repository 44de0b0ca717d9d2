package server

import (
	"net/http"

	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/widgets/themeselector"
)

// stylesheetAsset is the manifest asset key linked into the preview page.
const stylesheetAsset = "stylesheet"

type previewForm struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

type previewPage struct {
	Title       string        `json:"title"`
	Theme       string        `json:"theme"`
	Variant     string        `json:"variant"`
	Style       string        `json:"style"`
	Stylesheets []string      `json:"stylesheets"`
	Tabs        string        `json:"tabs"`
	Forms       []previewForm `json:"forms"`
	Datasources string        `json:"datasources"`
	Themes      string        `json:"themes"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := previewPage{Title: "editorkit preview"}

	if cfg, err := s.selector.Config("", r.URL.Query().Get("variant")); err == nil {
		page.Theme = cfg.Theme
		page.Variant = cfg.Variant
		page.Style = themeselector.StyleDeclarations(cfg)
		if href := cfg.AssetURL(stylesheetAsset); href != "" {
			page.Stylesheets = append(page.Stylesheets, href)
		}
	}

	tabs, target, err := s.renderTabs(r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	page.Tabs = tabs

	for _, id := range s.FormIDs() {
		s.mu.Lock()
		controller := s.forms[id]
		s.mu.Unlock()
		result, err := controller.Render()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
			return
		}
		page.Forms = append(page.Forms, previewForm{ID: id, HTML: result.HTML})
	}

	if page.Datasources, err = s.renderDatasources(); err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	if page.Themes, err = s.pane.Render(); err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}

	html, err := s.templates.RenderTemplate(templates.Preview, map[string]any{"page": page})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	if target != "" {
		w.Header().Set(scrollHeader, target)
	}
	s.writeHTML(w, html)
}
