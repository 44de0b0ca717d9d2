package schema

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Root   *Node   `json:"root" yaml:"root"`
	Fields []*Node `json:"fields" yaml:"fields"`
}

// Load parses explicit schema configuration in JSON or YAML. Documents either
// carry a full "root" node or a "fields" list that becomes the root's
// children. Paths are derived from keys and the result is validated.
func Load(data []byte) (Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Schema{}, nil
	}

	doc, err := parseDocument(data)
	if err != nil {
		return Schema{}, err
	}

	var s Schema
	switch {
	case doc.Root != nil:
		s = Build(doc.Root)
	case len(doc.Fields) > 0:
		s = New(doc.Fields...)
	default:
		return Schema{}, nil
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// LoadFile reads a schema from fsys. Files ending in .sample.json are treated
// as data samples and go through FromSample.
func LoadFile(fsys fs.FS, name string) (Schema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	if IsSampleFile(name) {
		return FromSample(data)
	}
	s, err := Load(data)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: load %s: %w", name, err)
	}
	return s, nil
}

// IsSampleFile reports whether name follows the data sample naming
// convention.
func IsSampleFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(filepath.Base(name)), ".sample.json")
}

func parseDocument(data []byte) (documentFile, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("schema: parse: invalid JSON or YAML")
}
