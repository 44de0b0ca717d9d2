package store

import (
	"bytes"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// LoadState decodes a YAML (or JSON) state fixture.
func LoadState(data []byte) (State, error) {
	var state State
	if len(bytes.TrimSpace(data)) == 0 {
		return state, nil
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("store: decode state: %w", err)
	}
	return state, nil
}

// LoadStateFile reads a state fixture from fsys.
func LoadStateFile(fsys fs.FS, name string) (State, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return State{}, fmt.Errorf("store: read %s: %w", name, err)
	}
	state, err := LoadState(data)
	if err != nil {
		return State{}, fmt.Errorf("store: load %s: %w", name, err)
	}
	return state, nil
}
