// Package datasourcecard renders one datasource in the datasource list and
// handles its edit, generate-page and two-step delete actions.
package datasourcecard

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/analytics"
	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/navigation"
	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/store"
)

// DefaultDeleteTimeout is how long a first delete click stays armed.
const DefaultDeleteTimeout = 2200 * time.Millisecond

// FromDatasources is the "from" query value added to editor URLs.
const FromDatasources = "datasources"

// EventFromActiveDatasources tags actions created from the card.
const EventFromActiveDatasources = "active-datasources"

// Deps are the external collaborators of a card.
type Deps struct {
	Store     store.Reader
	Dispatch  store.Dispatcher
	Router    navigation.Router
	Analytics analytics.Logger
}

// Option configures a Card.
type Option func(*Card)

// WithClock replaces the clock driving the delete expiry.
func WithClock(clock Clock) Option {
	return func(c *Card) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDeleteTimeout overrides DefaultDeleteTimeout.
func WithDeleteTimeout(timeout time.Duration) Option {
	return func(c *Card) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Card) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTemplates replaces the template renderer.
func WithTemplates(renderer template.TemplateRenderer) Option {
	return func(c *Card) {
		if renderer != nil {
			c.templates = renderer
		}
	}
}

// WithOnChange registers a callback invoked after the armed state changes,
// including when the expiry timer disarms the card.
func WithOnChange(fn func(armed bool)) Option {
	return func(c *Card) {
		c.onChange = fn
	}
}

// Card is the datasource card. Its only state is the delete confirmation.
type Card struct {
	datasource entities.Datasource
	plugin     entities.Plugin
	deps       Deps

	clock     Clock
	timeout   time.Duration
	logger    *zap.Logger
	templates template.TemplateRenderer
	onChange  func(bool)

	mu         sync.Mutex
	armed      bool
	closed     bool
	generation uint64
	timer      Timer
}

// New constructs a card for datasource and its plugin.
func New(datasource entities.Datasource, plugin entities.Plugin, deps Deps, opts ...Option) (*Card, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("datasourcecard: store reader is required")
	}
	if deps.Dispatch == nil {
		deps.Dispatch = store.DispatcherFunc(func(store.Action) {})
	}
	if deps.Router == nil {
		deps.Router = navigation.RouterFunc(func(string) {})
	}
	if deps.Analytics == nil {
		deps.Analytics = analytics.Nop{}
	}
	card := &Card{
		datasource: datasource,
		plugin:     plugin,
		deps:       deps,
		clock:      SystemClock(),
		timeout:    DefaultDeleteTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(card)
		}
	}
	if card.templates == nil {
		engine, err := templates.NewEngine()
		if err != nil {
			return nil, fmt.Errorf("datasourcecard: default templates: %w", err)
		}
		card.templates = engine
	}
	return card, nil
}

// Datasource returns the datasource the card shows.
func (c *Card) Datasource() entities.Datasource {
	return c.datasource
}

// Armed reports whether a delete confirmation is pending.
func (c *Card) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

func (c *Card) props() analytics.Properties {
	return analytics.Properties{
		"datasourceId": c.datasource.ID,
		"pluginName":   c.plugin.Name,
	}
}

func (c *Card) editorParams(state store.State) map[string]string {
	return navigation.MergeParams(state.QueryParams, map[string]string{"from": FromDatasources})
}

// Edit opens the datasource editor. SaaS plugins have their own editor; the
// rest switch the regular editor out of view mode first.
func (c *Card) Edit() {
	state := c.deps.Store.State()
	c.deps.Analytics.LogEvent(analytics.DatasourceCardEdit, c.props())

	if c.plugin.IsSaaS() {
		c.deps.Router.Push(navigation.SaaSDatasourceURL(navigation.SaaSDatasourceParams{
			PageID:            state.CurrentPageID,
			PluginPackageName: c.plugin.PackageName,
			DatasourceID:      c.datasource.ID,
			Params:            c.editorParams(state),
		}))
		return
	}
	c.deps.Dispatch.Dispatch(store.EditorMode(c.datasource.ID, false))
	c.deps.Router.Push(navigation.DatasourceEditorURL(navigation.DatasourceEditorParams{
		PageID:       state.CurrentPageID,
		DatasourceID: c.datasource.ID,
		Params:       c.editorParams(state),
	}))
}

// GenerateCRUDPage opens the generate-page form for the datasource. It does
// nothing unless the plugin supports page generation, and reports whether it
// navigated.
func (c *Card) GenerateCRUDPage() bool {
	state := c.deps.Store.State()
	if !store.CanGenerateCRUDPage(state, c.datasource.PluginID) {
		c.logger.Debug("generate page unsupported", zap.String("plugin", c.datasource.PluginID))
		return false
	}
	c.deps.Analytics.LogEvent(analytics.DatasourceCardGenCRUDPage, c.props())
	c.deps.Router.Push(navigation.GenerateTemplateFormURL(navigation.GenerateTemplateParams{
		PageID: state.CurrentPageID,
		Params: map[string]string{
			"datasourceId": c.datasource.ID,
			"new_page":     "true",
		},
	}))
	return true
}

// CreateAction is the "NEW QUERY" / "NEW API" button. It dispatches a new
// action bound to the datasource on the current page, opens its editor and
// returns its id.
func (c *Card) CreateAction() string {
	state := c.deps.Store.State()
	api := c.plugin.Type == entities.PluginTypeAPI
	prefix := "Query"
	if api {
		prefix = "Api"
	}
	action := entities.Action{
		ID:           uuid.NewString(),
		Name:         nextActionName(state.Actions, state.CurrentPageID, prefix),
		PageID:       state.CurrentPageID,
		PluginType:   c.plugin.Type,
		DatasourceID: c.datasource.ID,
	}

	props := c.props()
	props["actionName"] = action.Name
	c.deps.Analytics.LogEvent(analytics.DatasourceCardNewAction, props)
	c.deps.Dispatch.Dispatch(store.CreateAction(action, EventFromActiveDatasources))
	c.deps.Router.Push(navigation.ActionEditorURL(navigation.ActionEditorParams{
		PageID:   state.CurrentPageID,
		ActionID: action.ID,
		API:      api,
		Params:   c.editorParams(state),
	}))
	return action.ID
}

// nextActionName returns prefix followed by the first free number on page.
func nextActionName(actions []entities.Action, pageID, prefix string) string {
	taken := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		if action.PageID == pageID {
			taken[action.Name] = struct{}{}
		}
	}
	for n := 1; ; n++ {
		name := prefix + strconv.Itoa(n)
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}

// SelectDelete is the delete menu item. The first call arms the confirmation
// and starts the expiry timer; a second call before expiry deletes. It
// reports whether the delete was dispatched.
func (c *Card) SelectDelete() bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if !c.armed {
		c.armed = true
		c.generation++
		gen := c.generation
		c.timer = c.clock.AfterFunc(c.timeout, func() { c.expire(gen) })
		c.mu.Unlock()
		c.logger.Debug("delete armed", zap.String("datasource", c.datasource.ID))
		c.changed(true)
		return false
	}
	c.disarmLocked()
	c.mu.Unlock()

	c.deps.Analytics.LogEvent(analytics.DatasourceCardDelete, c.props())
	c.deps.Dispatch.Dispatch(store.DeleteDatasource(c.datasource.ID))
	c.changed(false)
	return true
}

// CloseMenu disarms a pending delete.
func (c *Card) CloseMenu() {
	c.mu.Lock()
	wasArmed := c.armed
	c.disarmLocked()
	c.mu.Unlock()
	if wasArmed {
		c.changed(false)
	}
}

// Close releases the card. Pending timers are stopped and later fires are
// ignored.
func (c *Card) Close() {
	c.mu.Lock()
	c.closed = true
	c.disarmLocked()
	c.mu.Unlock()
}

func (c *Card) disarmLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.armed = false
	c.generation++
}

func (c *Card) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.armed || c.closed {
		c.mu.Unlock()
		return
	}
	c.armed = false
	c.timer = nil
	c.mu.Unlock()
	c.logger.Debug("delete confirmation expired", zap.String("datasource", c.datasource.ID))
	c.changed(false)
}

func (c *Card) changed(armed bool) {
	if c.onChange != nil {
		c.onChange(armed)
	}
}
