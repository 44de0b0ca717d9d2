package server

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/store"
	"github.com/goliatone/go-editorkit/pkg/widgets/datasourcecard"
	"github.com/goliatone/go-editorkit/pkg/widgets/pagetabs"
)

// scrollHeader carries the widget id the tab bar asked to scroll into view.
const scrollHeader = "X-Editorkit-Scroll-Into-View"

// scrollRecorder is the tab bar host of the preview: it remembers the last
// scroll request so handlers can hand it to the browser.
type scrollRecorder struct {
	mu     sync.Mutex
	target string
	arrows bool
}

func (r *scrollRecorder) ScrollIntoView(widgetID string) {
	r.mu.Lock()
	r.target = widgetID
	r.mu.Unlock()
}

func (r *scrollRecorder) SetShowScrollArrows(show bool) {
	r.mu.Lock()
	r.arrows = show
	r.mu.Unlock()
}

func (r *scrollRecorder) take() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := r.target
	r.target = ""
	return target, r.arrows
}

// card returns the live card of a datasource, creating it on first use so the
// delete confirmation survives between requests.
func (s *Server) card(id string) (*datasourcecard.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if card, ok := s.cards[id]; ok {
		return card, true
	}
	state := s.store.State()
	ds, ok := store.DatasourceByID(state, id)
	if !ok {
		return nil, false
	}
	plugin, _ := store.PluginByID(state, ds.PluginID)
	card, err := datasourcecard.New(ds, plugin, datasourcecard.Deps{
		Store:     s.store,
		Dispatch:  s.store,
		Router:    s.history,
		Analytics: s.analytics,
	},
		datasourcecard.WithDeleteTimeout(s.cfg.DeleteConfirmTimeout()),
		datasourcecard.WithTemplates(s.templates),
		datasourcecard.WithLogger(s.logger.Named("datasource")),
	)
	if err != nil {
		s.logger.Error("create datasource card", zap.String("datasource", id), zap.Error(err))
		return nil, false
	}
	s.cards[id] = card
	return card, true
}

func (s *Server) cardFromRequest(w http.ResponseWriter, r *http.Request) (*datasourcecard.Card, bool) {
	id := chi.URLParam(r, "id")
	card, ok := s.card(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "DATASOURCE_NOT_FOUND", "unknown datasource: "+id)
		return nil, false
	}
	return card, true
}

func (s *Server) renderDatasources() (string, error) {
	var out strings.Builder
	out.WriteString(`<div class="editorkit-datasources">`)
	for _, ds := range s.store.State().Datasources {
		card, ok := s.card(ds.ID)
		if !ok {
			continue
		}
		html, err := card.Render()
		if err != nil {
			return "", err
		}
		out.WriteString(html)
	}
	out.WriteString(`</div>`)
	return out.String(), nil
}

func (s *Server) handleDatasources(w http.ResponseWriter, _ *http.Request) {
	html, err := s.renderDatasources()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	s.writeHTML(w, html)
}

func (s *Server) handleDatasourceDelete(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cardFromRequest(w, r)
	if !ok {
		return
	}
	deleted := card.SelectDelete()
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted, "armed": card.Armed()})
}

func (s *Server) handleDatasourceCloseMenu(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cardFromRequest(w, r)
	if !ok {
		return
	}
	card.CloseMenu()
	s.writeJSON(w, http.StatusOK, map[string]bool{"armed": card.Armed()})
}

func (s *Server) handleDatasourceEdit(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cardFromRequest(w, r)
	if !ok {
		return
	}
	card.Edit()
	s.writeJSON(w, http.StatusOK, map[string]string{"location": s.history.Current()})
}

func (s *Server) handleDatasourceGenerate(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cardFromRequest(w, r)
	if !ok {
		return
	}
	if !card.GenerateCRUDPage() {
		s.writeError(w, http.StatusConflict, "GENERATE_UNSUPPORTED", "plugin cannot generate pages")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"location": s.history.Current()})
}

func (s *Server) handleDatasourceCreate(w http.ResponseWriter, r *http.Request) {
	card, ok := s.cardFromRequest(w, r)
	if !ok {
		return
	}
	id := card.CreateAction()
	s.writeJSON(w, http.StatusOK, map[string]string{"actionId": id, "location": s.history.Current()})
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	html, err := s.pane.Render()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	s.writeHTML(w, html)
}

func (s *Server) handleThemeConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.selector.Config(r.URL.Query().Get("name"), r.URL.Query().Get("variant"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "THEME_NOT_FOUND", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"theme":    cfg.Theme,
		"variant":  cfg.Variant,
		"tokens":   cfg.Tokens,
		"cssVars":  cfg.CSSVars,
		"partials": cfg.Partials,
	})
}

func (s *Server) handleThemeBack(w http.ResponseWriter, _ *http.Request) {
	s.pane.Back()
	s.writeJSON(w, http.StatusOK, map[string][]string{"stack": store.CurrentThemingStack(s.store.State())})
}

func (s *Server) handleThemeApply(w http.ResponseWriter, r *http.Request) {
	if !s.pane.Apply(chi.URLParam(r, "id")) {
		s.writeError(w, http.StatusNotFound, "THEME_NOT_FOUND", "unknown theme")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"selected": s.store.State().SelectedThemeID})
}

func (s *Server) tabProps(r *http.Request) pagetabs.Props {
	query := r.URL.Query()
	selected := query.Get("selected")
	if selected == "" {
		for _, tab := range s.tabs {
			if tab.Visible() {
				selected = tab.WidgetID
				break
			}
		}
	}
	props := pagetabs.Props{
		Tabs:                s.tabs,
		SelectedTabWidgetID: selected,
		TabsScrollable:      query.Get("scrollable") == "true",
	}
	if width, err := strconv.Atoi(query.Get("width")); err == nil {
		props.ContainerWidth = width
	}
	if selectedTheme, ok := store.SelectedTheme(s.store.State()); ok {
		props.PrimaryColor = selectedTheme.PrimaryColor()
	}
	return props
}

func (s *Server) renderTabs(r *http.Request) (string, string, error) {
	s.bar.Update(s.tabProps(r))
	html, err := s.bar.Render()
	if err != nil {
		return "", "", err
	}
	target, _ := s.scroller.take()
	return html, target, nil
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	html, target, err := s.renderTabs(r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	if target != "" {
		w.Header().Set(scrollHeader, target)
	}
	s.writeHTML(w, html)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"entries": s.history.Entries()})
}
