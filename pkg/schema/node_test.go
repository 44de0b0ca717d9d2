package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildDerivesPathsFromKeys(t *testing.T) {
	s := New(
		&Node{Key: "name", FieldType: FieldTypeText},
		&Node{Key: "address", FieldType: FieldTypeObject, Children: []*Node{
			{Key: "city", FieldType: FieldTypeText},
		}},
		&Node{Key: "tags", FieldType: FieldTypeArray, Children: []*Node{
			{Key: ArrayItemKey, FieldType: FieldTypeText},
		}},
	)

	var paths []string
	s.Walk(func(node *Node) bool {
		paths = append(paths, node.Path)
		return true
	})

	want := []string{"", "name", "address", "address.city", "tags", "tags." + ArrayItemKey}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsBrokenInvariants(t *testing.T) {
	cases := []struct {
		name   string
		schema func() Schema
		want   error
	}{
		{
			name: "duplicate key",
			schema: func() Schema {
				return New(
					&Node{Key: "name", FieldType: FieldTypeText},
					&Node{Key: "name", FieldType: FieldTypeText},
				)
			},
			want: ErrDuplicatePath,
		},
		{
			name: "path mismatch",
			schema: func() Schema {
				s := New(&Node{Key: "name", FieldType: FieldTypeText})
				s.Root.Children[0].Path = "other"
				return s
			},
			want: ErrPathMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema().Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateRequiresArrayItem(t *testing.T) {
	s := New(&Node{Key: "tags", FieldType: FieldTypeArray})
	if err := s.Validate(); err == nil {
		t.Fatalf("expected array without item node to fail validation")
	}
}

func TestCountFieldsAndLimit(t *testing.T) {
	s := New(
		&Node{Key: "a", FieldType: FieldTypeText},
		&Node{Key: "b", FieldType: FieldTypeObject, Children: []*Node{
			{Key: "c", FieldType: FieldTypeText},
		}},
	)

	if got := s.CountFields(); got != 3 {
		t.Fatalf("expected 3 fields, got %d", got)
	}
	if ExceedsLimit(s, 3) {
		t.Fatalf("3 fields must not exceed a ceiling of 3")
	}
	if !ExceedsLimit(s, 2) {
		t.Fatalf("3 fields must exceed a ceiling of 2")
	}
	if ExceedsLimit(s, 0) {
		t.Fatalf("non-positive ceiling should fall back to the default")
	}
}

func TestEmptyAndFind(t *testing.T) {
	if !(Schema{}).Empty() {
		t.Fatalf("zero schema should be empty")
	}
	if !New().Empty() {
		t.Fatalf("root without children should be empty")
	}

	s := New(&Node{Key: "address", FieldType: FieldTypeObject, Children: []*Node{
		{Key: "city", FieldType: FieldTypeText},
	}})
	node, ok := s.Find("address.city")
	if !ok || node.Key != "city" {
		t.Fatalf("expected to find address.city, got %+v (ok=%v)", node, ok)
	}
	if _, ok := s.Find("address.zip"); ok {
		t.Fatalf("did not expect to find address.zip")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New(&Node{Key: "name", FieldType: FieldTypeText})
	clone := s.Clone()
	clone.Root.Children[0].Label = "Changed"

	if s.Root.Children[0].Label == "Changed" {
		t.Fatalf("clone shares nodes with the original")
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"first_name": "First Name",
		"firstName":  "First Name",
		"zip-code":   "Zip Code",
		"address2":   "Address 2",
		"":           "",
	}
	for in, want := range cases {
		if got := Humanize(in); got != want {
			t.Fatalf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveValuePaths(t *testing.T) {
	s := New(
		&Node{Key: "name", FieldType: FieldTypeText},
		&Node{Key: "skills", FieldType: FieldTypeArray, Children: []*Node{
			{Key: ArrayItemKey, FieldType: FieldTypeObject, Children: []*Node{
				{Key: "title", FieldType: FieldTypeText},
			}},
		}},
	)

	cases := map[string]string{
		"name":           "name",
		"skills":         "skills",
		"skills.3":       "skills." + ArrayItemKey,
		"skills.0.title": "skills." + ArrayItemKey + ".title",
	}
	for valuePath, wantPath := range cases {
		node, ok := s.Resolve(valuePath)
		if !ok {
			t.Fatalf("resolve %q: not found", valuePath)
		}
		if node.Path != wantPath {
			t.Fatalf("resolve %q: want node %q, got %q", valuePath, wantPath, node.Path)
		}
	}

	for _, missing := range []string{"", "age", "skills.x", "name.first"} {
		if _, ok := s.Resolve(missing); ok {
			t.Fatalf("expected %q to be unresolved", missing)
		}
	}
}
