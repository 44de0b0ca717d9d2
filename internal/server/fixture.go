package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-editorkit/pkg/entities"
	"github.com/goliatone/go-editorkit/pkg/store"
)

// Fixture is the preview workspace: store state plus the tabs shown in the
// tab bar.
type Fixture struct {
	store.State `yaml:",inline"`
	Tabs        []entities.Tab `yaml:"tabs"`
}

// LoadFixture reads a YAML workspace fixture. An empty path yields an empty
// workspace.
func LoadFixture(path string) (Fixture, error) {
	if path == "" {
		return Fixture{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("server: read fixture %s: %w", path, err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("server: parse fixture %s: %w", path, err)
	}
	return fixture, nil
}
