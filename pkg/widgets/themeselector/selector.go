package themeselector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/store"
)

// ErrThemeNotFound is returned when no theme matches the requested name.
var ErrThemeNotFound = errors.New("themeselector: theme not found")

// Selector resolves themes from the store's theme list. It satisfies
// theme.ThemeSelector.
type Selector struct {
	reader         store.Reader
	defaultTheme   string
	defaultVariant string
	logger         *zap.Logger
}

var _ theme.ThemeSelector = (*Selector)(nil)

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithDefaults sets the theme and variant used when Select gets empty
// arguments and the store has no applied theme.
func WithDefaults(name, variant string) SelectorOption {
	return func(s *Selector) {
		s.defaultTheme = strings.TrimSpace(name)
		s.defaultVariant = strings.TrimSpace(variant)
	}
}

// WithSelectorLogger sets the logger.
func WithSelectorLogger(logger *zap.Logger) SelectorOption {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSelector builds a selector over reader.
func NewSelector(reader store.Reader, opts ...SelectorOption) *Selector {
	s := &Selector{reader: reader, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Select returns the named theme. An empty name selects the applied theme,
// then the configured default.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	state := s.reader.State()
	found, ok := s.lookup(state, strings.TrimSpace(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest := found.ThemeManifest()
	if _, known := manifest.Variants[variant]; variant != "" && !known {
		s.logger.Debug("theme variant not defined, using base tokens",
			zap.String("theme", found.Name),
			zap.String("variant", variant),
		)
	}
	return &theme.Selection{Theme: found.Name, Variant: variant, Manifest: manifest}, nil
}

func (s *Selector) lookup(state store.State, name string) (entities.AppTheme, bool) {
	if name != "" {
		return store.ThemeByName(state, name)
	}
	if selected, ok := store.SelectedTheme(state); ok {
		return selected, true
	}
	if s.defaultTheme != "" {
		return store.ThemeByName(state, s.defaultTheme)
	}
	return entities.AppTheme{}, false
}

// Config selects a theme and resolves it against DefaultPartials.
func (s *Selector) Config(name, variant string) (*theme.RendererConfig, error) {
	selection, err := s.Select(name, variant)
	if err != nil {
		return nil, err
	}
	cfg := Resolve(selection.Manifest, selection.Variant, DefaultPartials())
	cfg.Theme = selection.Theme
	return cfg, nil
}

// Provider registers every stored theme manifest in a go-theme registry.
// Manifests the registry rejects are skipped and logged.
func (s *Selector) Provider() theme.ThemeProvider {
	registry := theme.NewRegistry()
	for _, item := range s.reader.State().Themes {
		if err := registry.Register(item.ThemeManifest()); err != nil {
			s.logger.Warn("theme manifest rejected",
				zap.String("theme", item.Name),
				zap.Error(err),
			)
		}
	}
	return registry
}
