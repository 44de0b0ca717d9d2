// Package config loads the process configuration of the editorkit binary.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-editorkit/pkg/form"
	"github.com/goliatone/go-editorkit/pkg/schema"
	"github.com/goliatone/go-editorkit/pkg/widgets/datasourcecard"
	"github.com/goliatone/go-editorkit/pkg/widgets/pagetabs"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EDITORKIT_"

// Config holds all editorkit configuration.
type Config struct {
	Form       FormConfig       `yaml:"form"`
	Datasource DatasourceConfig `yaml:"datasource"`
	Tabs       TabsConfig       `yaml:"tabs"`
	Server     ServerConfig     `yaml:"server"`
	Theme      ThemeConfig      `yaml:"theme"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// FormConfig configures the JSON form.
type FormConfig struct {
	MaxAllowedFields    int    `yaml:"maxAllowedFields"`
	RenderMode          string `yaml:"renderMode"` // canvas, page
	DisabledWhenInvalid bool   `yaml:"disabledWhenInvalid"`
}

// DatasourceConfig configures the datasource card.
type DatasourceConfig struct {
	DeleteConfirmTimeout string `yaml:"deleteConfirmTimeout"`
}

// TabsConfig configures the tab bar.
type TabsConfig struct {
	MaxLabelWidth int `yaml:"maxLabelWidth"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ThemeConfig picks the default theme.
type ThemeConfig struct {
	Default string `yaml:"default"`
	Variant string `yaml:"variant"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Form: FormConfig{
			MaxAllowedFields: schema.DefaultMaxAllowedFields,
			RenderMode:       string(form.RenderModeCanvas),
		},
		Datasource: DatasourceConfig{
			DeleteConfirmTimeout: datasourcecard.DefaultDeleteTimeout.String(),
		},
		Tabs:    TabsConfig{MaxLabelWidth: pagetabs.DefaultMaxLabelWidth},
		Server:  ServerConfig{Addr: "127.0.0.1:8380"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v, ok := lookup("FORM_MAX_ALLOWED_FIELDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sFORM_MAX_ALLOWED_FIELDS: %w", EnvPrefix, err)
		}
		c.Form.MaxAllowedFields = n
	}
	if v, ok := lookup("FORM_RENDER_MODE"); ok {
		c.Form.RenderMode = v
	}
	if v, ok := lookup("FORM_DISABLED_WHEN_INVALID"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sFORM_DISABLED_WHEN_INVALID: %w", EnvPrefix, err)
		}
		c.Form.DisabledWhenInvalid = b
	}
	if v, ok := lookup("DATASOURCE_DELETE_CONFIRM_TIMEOUT"); ok {
		c.Datasource.DeleteConfirmTimeout = v
	}
	if v, ok := lookup("TABS_MAX_LABEL_WIDTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sTABS_MAX_LABEL_WIDTH: %w", EnvPrefix, err)
		}
		c.Tabs.MaxLabelWidth = n
	}
	if v, ok := lookup("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup("THEME_DEFAULT"); ok {
		c.Theme.Default = v
	}
	if v, ok := lookup("THEME_VARIANT"); ok {
		c.Theme.Variant = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Form.MaxAllowedFields <= 0 {
		return fmt.Errorf("config: form.maxAllowedFields must be positive, got %d", c.Form.MaxAllowedFields)
	}
	mode := strings.ToLower(strings.TrimSpace(c.Form.RenderMode))
	if mode != string(form.RenderModeCanvas) && mode != string(form.RenderModePage) {
		return fmt.Errorf("config: form.renderMode must be canvas or page, got %q", c.Form.RenderMode)
	}
	if _, err := time.ParseDuration(c.Datasource.DeleteConfirmTimeout); err != nil {
		return fmt.Errorf("config: datasource.deleteConfirmTimeout: %w", err)
	}
	if c.Tabs.MaxLabelWidth <= 0 {
		return fmt.Errorf("config: tabs.maxLabelWidth must be positive, got %d", c.Tabs.MaxLabelWidth)
	}
	return nil
}

// RenderMode returns the parsed form render mode.
func (c *Config) RenderMode() form.RenderMode {
	return form.ParseRenderMode(c.Form.RenderMode)
}

// DeleteConfirmTimeout returns the parsed delete confirmation window,
// falling back to the default on bad input.
func (c *Config) DeleteConfirmTimeout() time.Duration {
	d, err := time.ParseDuration(c.Datasource.DeleteConfirmTimeout)
	if err != nil || d <= 0 {
		return datasourcecard.DefaultDeleteTimeout
	}
	return d
}
