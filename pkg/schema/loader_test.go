package schema

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
)

func TestLoadYAMLFields(t *testing.T) {
	s, err := LoadFile(os.DirFS("testdata"), "customer.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := s.CountFields(); got != 3 {
		t.Fatalf("expected 3 fields, got %d", got)
	}
	name, ok := s.Find("name")
	if !ok || !name.Config.Validation.Required {
		t.Fatalf("expected required name field, got %+v", name)
	}
	plan, _ := s.Find("plan")
	if len(plan.Config.Options) != 2 || plan.Config.Default != "free" {
		t.Fatalf("unexpected plan config: %+v", plan.Config)
	}
	notes, _ := s.Find("notes")
	if notes.Config.IsVisible() {
		t.Fatalf("expected notes to be hidden")
	}
}

func TestLoadJSONRoot(t *testing.T) {
	raw := []byte(`{"root":{"fieldType":"object","children":[{"key":"title","fieldType":"text"}]}}`)
	s, err := Load(raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Root.Key != RootKey {
		t.Fatalf("expected root key default, got %q", s.Root.Key)
	}
	if node, ok := s.Find("title"); !ok || node.FieldType != FieldTypeText {
		t.Fatalf("expected title node, got %+v", node)
	}
}

func TestLoadFileSample(t *testing.T) {
	fsys := fstest.MapFS{
		"user.sample.json": {Data: []byte(`{"name":"Ada"}`)},
	}
	s, err := LoadFile(fsys, "user.sample.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := s.Find("name"); !ok {
		t.Fatalf("expected inferred name field")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load([]byte("{not: [valid")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromOpenAPIRequestBody(t *testing.T) {
	data, err := os.ReadFile("testdata/petstore.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	s, err := FromOpenAPI(context.Background(), data, "createPet")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	cases := map[string]FieldType{
		"address":      FieldTypeObject,
		"address.city": FieldTypeText,
		"address.zip":  FieldTypePhone,
		"age":          FieldTypeNumber,
		"name":         FieldTypeText,
		"owner_email":  FieldTypeEmail,
		"status":       FieldTypeSelect,
		"tags":         FieldTypeArray,
		"vaccinated":   FieldTypeSwitch,
	}
	for path, want := range cases {
		node, ok := s.Find(path)
		if !ok {
			t.Fatalf("missing node %q", path)
		}
		if node.FieldType != want {
			t.Fatalf("%s: expected %s, got %s", path, want, node.FieldType)
		}
	}

	name, _ := s.Find("name")
	if !name.Config.Validation.Required {
		t.Fatalf("expected name to be required")
	}
	if name.Config.Validation.MinLength == nil || *name.Config.Validation.MinLength != 2 {
		t.Fatalf("expected minLength 2, got %+v", name.Config.Validation.MinLength)
	}
	if s.Root.Children[0].Key != "address" {
		t.Fatalf("expected properties sorted by name, first is %q", s.Root.Children[0].Key)
	}
}

func TestFromOpenAPIUnknownOperation(t *testing.T) {
	data, err := os.ReadFile("testdata/petstore.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if _, err := FromOpenAPI(context.Background(), data, "missing"); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}

func TestFromOpenAPIComponentSchema(t *testing.T) {
	data, err := os.ReadFile("testdata/petstore.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	for _, ref := range []string{"Owner", "#/components/schemas/Owner"} {
		s, err := FromOpenAPI(context.Background(), data, ref)
		if err != nil {
			t.Fatalf("%s: from openapi: %v", ref, err)
		}
		email, ok := s.Find("email")
		if !ok || email.FieldType != FieldTypeEmail || !email.Config.Validation.Required {
			t.Fatalf("%s: unexpected email node %+v", ref, email)
		}
		nickname, ok := s.Find("nickname")
		if !ok || nickname.Label != "Display name" {
			t.Fatalf("%s: unexpected nickname node %+v", ref, nickname)
		}
	}
}
