// Package pagetabs renders the tab strip of a tabs widget and keeps the
// active tab scrolled into view.
package pagetabs

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/render/template"
	"github.com/goliatone/go-editorkit/pkg/render/templates"
)

const (
	// DefaultMaxLabelWidth is the width after which labels are truncated.
	DefaultMaxLabelWidth = 138
	// TabGap is the horizontal gap between tabs.
	TabGap = 32

	tabClass    = "t--page-switch-tab"
	activeClass = "is-active"
)

// Scroller is the host element owning the tab strip.
type Scroller interface {
	ScrollIntoView(widgetID string)
	SetShowScrollArrows(show bool)
}

type nopScroller struct{}

func (nopScroller) ScrollIntoView(string)    {}
func (nopScroller) SetShowScrollArrows(bool) {}

// Props are the inputs of the bar.
type Props struct {
	Tabs                []entities.Tab
	SelectedTabWidgetID string
	TabsScrollable      bool
	// ContainerWidth is the visible strip width in pixels; zero disables
	// the overflow check.
	ContainerWidth int
	// PrimaryColor colors the active underline; empty means "inherit".
	PrimaryColor string
}

// Option configures a Bar.
type Option func(*Bar)

// WithScroller sets the host scroller.
func WithScroller(scroller Scroller) Option {
	return func(b *Bar) {
		if scroller != nil {
			b.scroller = scroller
		}
	}
}

// WithMeasurer replaces the label width estimate.
func WithMeasurer(measurer Measurer) Option {
	return func(b *Bar) {
		if measurer != nil {
			b.measurer = measurer
		}
	}
}

// WithMaxLabelWidth overrides DefaultMaxLabelWidth.
func WithMaxLabelWidth(px int) Option {
	return func(b *Bar) {
		if px > 0 {
			b.maxLabelWidth = px
		}
	}
}

// WithTabChange sets the callback invoked when a tab is clicked.
func WithTabChange(fn func(widgetID string)) Option {
	return func(b *Bar) {
		b.tabChange = fn
	}
}

// WithTemplates replaces the template renderer.
func WithTemplates(renderer template.TemplateRenderer) Option {
	return func(b *Bar) {
		if renderer != nil {
			b.templates = renderer
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bar) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type tabEffect struct {
	active     bool
	scrollable bool
}

// Bar is the page tab strip.
type Bar struct {
	scroller      Scroller
	measurer      Measurer
	maxLabelWidth int
	tabChange     func(string)
	templates     template.TemplateRenderer
	logger        *zap.Logger

	mu      sync.Mutex
	props   Props
	effects map[string]tabEffect
}

// New constructs a Bar.
func New(opts ...Option) (*Bar, error) {
	bar := &Bar{
		scroller:      nopScroller{},
		measurer:      RuneMeasurer{},
		maxLabelWidth: DefaultMaxLabelWidth,
		logger:        zap.NewNop(),
		effects:       make(map[string]tabEffect),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(bar)
		}
	}
	if bar.templates == nil {
		engine, err := templates.NewEngine()
		if err != nil {
			return nil, fmt.Errorf("pagetabs: default templates: %w", err)
		}
		bar.templates = engine
	}
	return bar, nil
}

// Update applies new props. A tab that is active and either was not active
// before or saw TabsScrollable change is scrolled into view, after which the
// scroll arrows are recomputed.
func (b *Bar) Update(props Props) {
	b.mu.Lock()
	b.props = props
	visible := visibleTabs(props.Tabs)
	next := make(map[string]tabEffect, len(visible))
	var scrollTo []string
	for _, tab := range visible {
		current := tabEffect{active: tab.WidgetID == props.SelectedTabWidgetID, scrollable: props.TabsScrollable}
		previous, seen := b.effects[tab.WidgetID]
		if current.active && (!seen || previous != current) {
			scrollTo = append(scrollTo, tab.WidgetID)
		}
		next[tab.WidgetID] = current
	}
	b.effects = next
	overflow := b.overflowsLocked(visible)
	b.mu.Unlock()

	for _, widgetID := range scrollTo {
		b.logger.Debug("scroll tab into view", zap.String("widget", widgetID))
		b.scroller.ScrollIntoView(widgetID)
		b.scroller.SetShowScrollArrows(overflow)
	}
}

// Select reports a click on the tab of widgetID. Hidden or unknown tabs are
// ignored.
func (b *Bar) Select(widgetID string) bool {
	b.mu.Lock()
	_, ok := b.effects[widgetID]
	b.mu.Unlock()
	if !ok {
		return false
	}
	if b.tabChange != nil {
		b.tabChange(widgetID)
	}
	return true
}

// Overflows reports whether the tabs exceed the container width.
func (b *Bar) Overflows() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflowsLocked(visibleTabs(b.props.Tabs))
}

func (b *Bar) overflowsLocked(tabs []entities.Tab) bool {
	if b.props.ContainerWidth <= 0 || len(tabs) == 0 {
		return false
	}
	total := TabGap * (len(tabs) - 1)
	for _, tab := range tabs {
		total += min(b.measurer.Width(tab.Label), b.maxLabelWidth)
	}
	return total > b.props.ContainerWidth
}

func visibleTabs(tabs []entities.Tab) []entities.Tab {
	out := make([]entities.Tab, 0, len(tabs))
	for _, tab := range tabs {
		if tab.Visible() {
			out = append(out, tab)
		}
	}
	return out
}

// TabView is the template model of one tab.
type TabView struct {
	ID        string `json:"id"`
	WidgetID  string `json:"widget_id"`
	Label     string `json:"label"`
	Class     string `json:"class"`
	Active    bool   `json:"active"`
	Truncated bool   `json:"truncated"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// View is the template model of the bar.
type View struct {
	Tabs          []TabView `json:"tabs"`
	PrimaryColor  string    `json:"primary_color"`
	MaxLabelWidth int       `json:"max_label_width"`
	ScrollArrows  bool      `json:"scroll_arrows"`
}

// View builds the template model from the last props.
func (b *Bar) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	color := strings.TrimSpace(b.props.PrimaryColor)
	if color == "" {
		color = "inherit"
	}
	visible := visibleTabs(b.props.Tabs)
	view := View{
		PrimaryColor:  color,
		MaxLabelWidth: b.maxLabelWidth,
		ScrollArrows:  b.overflowsLocked(visible),
	}
	for _, tab := range visible {
		active := tab.WidgetID == b.props.SelectedTabWidgetID
		class := tabClass
		if active {
			class += " " + activeClass
		}
		item := TabView{
			ID:       tab.ID,
			WidgetID: tab.WidgetID,
			Label:    tab.Label,
			Class:    class,
			Active:   active,
		}
		if b.measurer.Width(tab.Label) > b.maxLabelWidth {
			item.Truncated = true
			item.Tooltip = tab.Label
		}
		view.Tabs = append(view.Tabs, item)
	}
	return view
}

// Render returns the tab strip HTML.
func (b *Bar) Render() (string, error) {
	html, err := b.templates.RenderTemplate(templates.PageTabs, map[string]any{"bar": b.View()})
	if err != nil {
		return "", fmt.Errorf("pagetabs: render: %w", err)
	}
	return html, nil
}
