// Package themeselector renders the theme picker pane of the property panel
// and resolves app themes into go-theme renderer configuration.
package themeselector

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
	"github.com/goliatone/go-editorkit/pkg/store"
)

// Section titles.
const (
	TitleApplied  = "Applied Theme"
	TitleUser     = "Your Themes"
	TitleFeatured = "Featured Themes"
)

// Deps are the external collaborators of a Pane.
type Deps struct {
	Store    store.Reader
	Dispatch store.Dispatcher
}

// Option configures a Pane.
type Option func(*Pane)

// WithTemplates replaces the template renderer.
func WithTemplates(renderer template.TemplateRenderer) Option {
	return func(p *Pane) {
		if renderer != nil {
			p.templates = renderer
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pane) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pane is the theme selector pane. It holds no state of its own.
type Pane struct {
	deps      Deps
	templates template.TemplateRenderer
	logger    *zap.Logger
}

// New constructs a Pane.
func New(deps Deps, opts ...Option) (*Pane, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("themeselector: store reader is required")
	}
	if deps.Dispatch == nil {
		deps.Dispatch = store.DispatcherFunc(func(store.Action) {})
	}
	pane := &Pane{deps: deps, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(pane)
		}
	}
	if pane.templates == nil {
		engine, err := templates.NewEngine()
		if err != nil {
			return nil, fmt.Errorf("themeselector: default templates: %w", err)
		}
		pane.templates = engine
	}
	return pane, nil
}

// Partition splits themes into user-saved and featured (system) themes,
// keeping their order.
func Partition(themes []entities.AppTheme) (user, featured []entities.AppTheme) {
	for _, item := range themes {
		if item.IsSystemTheme {
			featured = append(featured, item)
			continue
		}
		user = append(user, item)
	}
	return user, featured
}

// Back leaves the pane by dropping the top of the theming stack. An empty
// stack stays empty.
func (p *Pane) Back() {
	stack := store.CurrentThemingStack(p.deps.Store.State())
	if len(stack) > 0 {
		stack = stack[:len(stack)-1]
	}
	p.deps.Dispatch.Dispatch(store.ThemingStack(stack))
}

// Apply selects the theme with id. Unknown ids are ignored and reported.
func (p *Pane) Apply(id string) bool {
	if _, ok := store.ThemeByID(p.deps.Store.State(), id); !ok {
		p.logger.Debug("apply unknown theme", zap.String("theme", id))
		return false
	}
	p.deps.Dispatch.Dispatch(store.SelectTheme(id))
	return true
}

// ThemeCard is the template model of one theme.
type ThemeCard struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Label           string `json:"label"`
	PrimaryColor    string `json:"primary_color"`
	BackgroundColor string `json:"background_color,omitempty"`
	Deletable       bool   `json:"deletable"`
	Selected        bool   `json:"selected"`
}

// Section groups theme cards under a title.
type Section struct {
	Key       string      `json:"key"`
	Title     string      `json:"title"`
	Collapsed bool        `json:"collapsed"`
	Themes    []ThemeCard `json:"themes"`
}

// View is the template model of the pane.
type View struct {
	Sections []Section `json:"sections"`
}

// View assembles the pane from the current state. The user section is left
// out when no user themes exist.
func (p *Pane) View() View {
	state := p.deps.Store.State()
	user, featured := Partition(state.Themes)
	var view View

	if applied, ok := store.SelectedTheme(state); ok {
		view.Sections = append(view.Sections, Section{
			Key:       "applied",
			Title:     TitleApplied,
			Collapsed: true,
			Themes:    []ThemeCard{card(applied, state.SelectedThemeID, false)},
		})
	}
	if len(user) > 0 {
		section := Section{Key: "user", Title: TitleUser}
		for _, item := range user {
			section.Themes = append(section.Themes, card(item, state.SelectedThemeID, true))
		}
		view.Sections = append(view.Sections, section)
	}
	section := Section{Key: "featured", Title: TitleFeatured}
	for _, item := range featured {
		section.Themes = append(section.Themes, card(item, state.SelectedThemeID, false))
	}
	view.Sections = append(view.Sections, section)
	return view
}

func card(item entities.AppTheme, selectedID string, deletable bool) ThemeCard {
	return ThemeCard{
		ID:              item.ID,
		Name:            item.Name,
		Label:           item.Label(),
		PrimaryColor:    item.PrimaryColor(),
		BackgroundColor: item.Properties.Colors["backgroundColor"],
		Deletable:       deletable,
		Selected:        item.ID == selectedID,
	}
}

// Render returns the pane HTML.
func (p *Pane) Render() (string, error) {
	html, err := p.templates.RenderTemplate(templates.ThemeSelector, map[string]any{"pane": p.View()})
	if err != nil {
		return "", fmt.Errorf("themeselector: render: %w", err)
	}
	return html, nil
}
