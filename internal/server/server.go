// Package server is the preview HTTP surface of the editor widgets. It wires
// the widgets to an in-memory store, a recording router and a zap analytics
// sink, and streams store snapshots over a websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	editorkit "github.com/goliatone/go-editorkit"
	"github.com/goliatone/go-editorkit/internal/config"
	"github.com/goliatone/go-editorkit/pkg/analytics"
	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/form"
	"github.com/goliatone/go-editorkit/pkg/navigation"
	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/store"
	"github.com/goliatone/go-editorkit/pkg/widgets/datasourcecard"
	"github.com/goliatone/go-editorkit/pkg/widgets/pagetabs"
	"github.com/goliatone/go-editorkit/pkg/widgets/themeselector"
)

const shutdownTimeout = 5 * time.Second

// Options are the inputs of New.
type Options struct {
	Config  *config.Config
	Fixture Fixture
	// Forms maps form ids to schemas.
	Forms  map[string]schema.Schema
	Logger *zap.Logger
}

// Server serves the widget previews.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	store     *store.Memory
	history   *navigation.History
	analytics analytics.Logger
	templates template.TemplateRenderer

	pane     *themeselector.Pane
	selector *themeselector.Selector
	bar      *pagetabs.Bar
	scroller *scrollRecorder
	tabs     []entities.Tab

	mu          sync.Mutex
	forms       map[string]*form.Controller
	submissions map[string][]form.ExecuteTriggerPayload
	cards       map[string]*datasourcecard.Card

	unsubscribe func()
}

// New builds a Server.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine, err := templates.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("server: templates: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		logger:      logger,
		store:       store.NewMemory(opts.Fixture.State, store.WithLogger(logger.Named("store"))),
		history:     &navigation.History{},
		analytics:   analytics.NewZap(logger),
		templates:   engine,
		scroller:    &scrollRecorder{},
		tabs:        opts.Fixture.Tabs,
		forms:       make(map[string]*form.Controller),
		submissions: make(map[string][]form.ExecuteTriggerPayload),
		cards:       make(map[string]*datasourcecard.Card),
	}

	s.pane, err = themeselector.New(themeselector.Deps{Store: s.store, Dispatch: s.store},
		themeselector.WithTemplates(engine),
		themeselector.WithLogger(logger.Named("themes")),
	)
	if err != nil {
		return nil, err
	}
	s.selector = themeselector.NewSelector(s.store,
		themeselector.WithDefaults(cfg.Theme.Default, cfg.Theme.Variant),
		themeselector.WithSelectorLogger(logger.Named("themes")),
	)
	s.bar, err = pagetabs.New(
		pagetabs.WithScroller(s.scroller),
		pagetabs.WithMaxLabelWidth(cfg.Tabs.MaxLabelWidth),
		pagetabs.WithTemplates(engine),
		pagetabs.WithLogger(logger.Named("tabs")),
	)
	if err != nil {
		return nil, err
	}

	for id, sc := range opts.Forms {
		if err := s.addForm(id, sc); err != nil {
			return nil, err
		}
	}
	s.unsubscribe = s.store.Subscribe(s.onDispatch)
	return s, nil
}

func (s *Server) formOptions(id string) []form.Option {
	return []form.Option{
		form.WithTemplates(s.templates),
		form.WithLogger(s.logger.Named("form").With(zap.String("form", id))),
		form.WithMaxAllowedFields(s.cfg.Form.MaxAllowedFields),
		form.WithRenderMode(s.cfg.RenderMode()),
		form.WithDisabledWhenInvalid(s.cfg.Form.DisabledWhenInvalid),
		form.WithTitle(id),
		form.WithRenderContext(&form.RenderContext{
			ExecuteAction: func(_ context.Context, payload form.ExecuteTriggerPayload) error {
				s.mu.Lock()
				s.submissions[id] = append(s.submissions[id], payload)
				s.mu.Unlock()
				s.logger.Info("form submitted",
					zap.String("form", id),
					zap.String("event", payload.Event.ID),
				)
				return nil
			},
			UpdateWidgetMetaProperty: func(name string, _ any) {
				s.logger.Debug("form meta property", zap.String("form", id), zap.String("property", name))
			},
		}),
	}
}

func (s *Server) addForm(id string, sc schema.Schema) error {
	controller, err := form.NewController(sc, s.formOptions(id)...)
	if err != nil {
		return fmt.Errorf("server: form %s: %w", id, err)
	}
	s.mu.Lock()
	s.forms[id] = controller
	s.mu.Unlock()
	return nil
}

// ReplaceSchema swaps the schema of form id, creating the form when it is
// new. Values at surviving paths are kept.
func (s *Server) ReplaceSchema(id string, sc schema.Schema) error {
	s.mu.Lock()
	controller, ok := s.forms[id]
	s.mu.Unlock()
	if !ok {
		return s.addForm(id, sc)
	}
	if err := controller.ReplaceSchema(sc); err != nil {
		return err
	}
	s.logger.Info("schema replaced", zap.String("form", id))
	s.store.Dispatch(store.NewAction(ActionSchemaReloaded, id))
	return nil
}

// ActionSchemaReloaded tells websocket clients a form schema changed.
const ActionSchemaReloaded store.ActionType = "EDITORKIT_SCHEMA_RELOADED"

// FormIDs returns the registered form ids in order.
func (s *Server) FormIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store exposes the backing store.
func (s *Server) Store() *store.Memory {
	return s.store
}

// History exposes the recording router.
func (s *Server) History() *navigation.History {
	return s.history
}

// Submissions returns the payloads the form id submitted.
func (s *Server) Submissions(id string) []form.ExecuteTriggerPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]form.ExecuteTriggerPayload(nil), s.submissions[id]...)
}

// onDispatch drops cards of deleted datasources.
func (s *Server) onDispatch(action store.Action, state store.State) {
	if action.Type != store.DeleteDatasourceInit {
		return
	}
	payload, ok := action.Payload.(store.DeleteDatasourcePayload)
	if !ok {
		return
	}
	s.mu.Lock()
	card, ok := s.cards[payload.ID]
	delete(s.cards, payload.ID)
	s.mu.Unlock()
	if ok {
		card.Close()
	}
}

// Close releases the cards and their timers.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.mu.Lock()
	cards := s.cards
	s.cards = make(map[string]*datasourcecard.Card)
	s.mu.Unlock()
	for _, card := range cards {
		card.Close()
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(editorkit.AssetsFS())))
	r.Get("/ws", s.handleWebsocket)
	r.Get("/state", s.handleState)
	r.Get("/history", s.handleHistory)

	r.Route("/forms/{id}", func(r chi.Router) {
		r.Get("/", s.handleFormRender)
		r.Post("/values", s.handleFormSetValue)
		r.Post("/items", s.handleFormAddItem)
		r.Post("/items/remove", s.handleFormRemoveItem)
		r.Post("/submit", s.handleFormSubmit)
		r.Post("/reset", s.handleFormReset)
	})

	r.Route("/datasources", func(r chi.Router) {
		r.Get("/", s.handleDatasources)
		r.Post("/{id}/delete", s.handleDatasourceDelete)
		r.Post("/{id}/edit", s.handleDatasourceEdit)
		r.Post("/{id}/generate", s.handleDatasourceGenerate)
		r.Post("/{id}/create", s.handleDatasourceCreate)
		r.Post("/{id}/close-menu", s.handleDatasourceCloseMenu)
	})

	r.Route("/themes", func(r chi.Router) {
		r.Get("/", s.handleThemes)
		r.Get("/config", s.handleThemeConfig)
		r.Post("/back", s.handleThemeBack)
		r.Post("/{id}/apply", s.handleThemeApply)
	})

	r.Get("/tabs", s.handleTabs)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// Run serves on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		<-errCh
		s.Close()
		return nil
	}
}
