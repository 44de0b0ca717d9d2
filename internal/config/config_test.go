package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editorkit/pkg/form"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.DeleteConfirmTimeout() != 2200*time.Millisecond {
		t.Fatalf("unexpected delete timeout %s", cfg.DeleteConfirmTimeout())
	}
	if cfg.Form.MaxAllowedFields != 50 || cfg.Tabs.MaxLabelWidth != 138 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editorkit.yaml")
	data := strings.Join([]string{
		"form:",
		"  maxAllowedFields: 10",
		"  renderMode: page",
		"datasource:",
		"  deleteConfirmTimeout: 3s",
		"theme:",
		"  default: modern",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EDITORKIT_FORM_MAX_ALLOWED_FIELDS", "20")
	t.Setenv("EDITORKIT_THEME_VARIANT", "dark")
	t.Setenv("EDITORKIT_SERVER_ADDR", " ")
	t.Setenv("EDITORKIT_FORM_DISABLED_WHEN_INVALID", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Form.MaxAllowedFields != 20 {
		t.Fatalf("env must override file, got %d", cfg.Form.MaxAllowedFields)
	}
	if cfg.RenderMode() != form.RenderModePage {
		t.Fatalf("unexpected render mode %s", cfg.RenderMode())
	}
	if cfg.DeleteConfirmTimeout() != 3*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.DeleteConfirmTimeout())
	}
	if cfg.Theme.Default != "modern" || cfg.Theme.Variant != "dark" {
		t.Fatalf("unexpected theme config %+v", cfg.Theme)
	}
	if !cfg.Form.DisabledWhenInvalid {
		t.Fatalf("expected disabledWhenInvalid from env")
	}
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Fatalf("blank env values must be ignored, got %q", cfg.Server.Addr)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"max fields":  func(c *Config) { c.Form.MaxAllowedFields = 0 },
		"render mode": func(c *Config) { c.Form.RenderMode = "print" },
		"timeout":     func(c *Config) { c.Datasource.DeleteConfirmTimeout = "soon" },
		"label width": func(c *Config) { c.Tabs.MaxLabelWidth = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	t.Setenv("EDITORKIT_TABS_MAX_LABEL_WIDTH", "wide")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-numeric env override")
	}
	t.Setenv("EDITORKIT_TABS_MAX_LABEL_WIDTH", "")
	t.Setenv("EDITORKIT_FORM_DISABLED_WHEN_INVALID", "maybe")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-boolean env override")
	}
}
