package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromSampleKeepsOrderAndInfersTypes(t *testing.T) {
	sample := []byte(`{
		"name": "Ada",
		"age": 36,
		"email": "ada@example.com",
		"born": "1815-12-10",
		"active": true,
		"address": {"city": "London", "zip": "N1"},
		"skills": [{"title": "math"}]
	}`)

	s, err := FromSample(sample)
	if err != nil {
		t.Fatalf("from sample: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("inferred schema is invalid: %v", err)
	}

	type row struct {
		Path string
		Type FieldType
	}
	var got []row
	s.Walk(func(node *Node) bool {
		if node != s.Root {
			got = append(got, row{node.Path, node.FieldType})
		}
		return true
	})

	want := []row{
		{"name", FieldTypeText},
		{"age", FieldTypeNumber},
		{"email", FieldTypeEmail},
		{"born", FieldTypeDate},
		{"active", FieldTypeSwitch},
		{"address", FieldTypeObject},
		{"address.city", FieldTypeText},
		{"address.zip", FieldTypeText},
		{"skills", FieldTypeArray},
		{"skills." + ArrayItemKey, FieldTypeObject},
		{"skills." + ArrayItemKey + ".title", FieldTypeText},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inferred tree mismatch (-want +got):\n%s", diff)
	}

	age, _ := s.Find("age")
	if age.Config.Default != float64(36) {
		t.Fatalf("expected numeric default 36, got %#v", age.Config.Default)
	}
	if age.Label != "Age" {
		t.Fatalf("expected humanised label, got %q", age.Label)
	}
}

func TestFromSampleRejectsNonObjects(t *testing.T) {
	if _, err := FromSample([]byte(`[1,2,3]`)); err == nil {
		t.Fatalf("expected error for array sample")
	}
	if _, err := FromSample([]byte(`{"a":`)); err == nil {
		t.Fatalf("expected error for truncated sample")
	}
}

func TestFromSampleEmptyInput(t *testing.T) {
	s, err := FromSample(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Empty() {
		t.Fatalf("expected empty schema")
	}
}
