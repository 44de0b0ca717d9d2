package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func testSchema() schema.Schema {
	return schema.New(
		&schema.Node{Key: "name", FieldType: schema.FieldTypeText, Config: schema.Config{
			Validation: schema.Validation{Required: true, MinLength: ptrInt(2)},
		}},
		&schema.Node{Key: "age", FieldType: schema.FieldTypeNumber, Config: schema.Config{
			Validation: schema.Validation{Min: ptrFloat(0), Max: ptrFloat(130)},
		}},
		&schema.Node{Key: "email", FieldType: schema.FieldTypeEmail},
		&schema.Node{Key: "code", FieldType: schema.FieldTypeText, Config: schema.Config{
			Validation: schema.Validation{Pattern: `^[A-Z]{3}$`, Message: "Use three capitals"},
		}},
		&schema.Node{Key: "plan", FieldType: schema.FieldTypeSelect, Config: schema.Config{
			Options: []schema.Option{{Label: "Free", Value: "free"}},
		}},
		&schema.Node{Key: "secret", FieldType: schema.FieldTypeText, Config: schema.Config{
			Hidden:     true,
			Validation: schema.Validation{Required: true},
		}},
		&schema.Node{Key: "emails", FieldType: schema.FieldTypeArray, Children: []*schema.Node{
			{Key: schema.ArrayItemKey, FieldType: schema.FieldTypeEmail},
		}},
	)
}

func TestValidateReportsFailingPaths(t *testing.T) {
	value := formvalue.Value{
		"name":   "A",
		"age":    float64(200),
		"email":  "not-an-email",
		"code":   "abc",
		"plan":   "enterprise",
		"secret": "",
		"emails": []any{"ok@example.com", "broken"},
	}

	result := Validate(testSchema(), value)
	if result.Valid() {
		t.Fatalf("expected validation failures")
	}

	want := []string{"age", "code", "email", "emails.1", "name", "plan"}
	if diff := cmp.Diff(want, result.Paths()); diff != "" {
		t.Fatalf("failing paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Use three capitals"}, result.For("code")); diff != "" {
		t.Fatalf("custom message mismatch (-want +got):\n%s", diff)
	}
}

func TestValidatePassesCleanValue(t *testing.T) {
	value := formvalue.Value{
		"name":   "Ada",
		"age":    "36",
		"email":  "ada@example.com",
		"code":   "ABC",
		"plan":   "free",
		"emails": []any{},
	}
	if result := Validate(testSchema(), value); !result.Valid() {
		t.Fatalf("expected valid value, got %v", result)
	}
}

func TestCheckFieldRequired(t *testing.T) {
	node := &schema.Node{Key: "name", FieldType: schema.FieldTypeText, Config: schema.Config{
		Validation: schema.Validation{Required: true},
	}}
	if got := CheckField(node, "   "); len(got) != 1 {
		t.Fatalf("expected required failure for blank input, got %v", got)
	}
	if got := CheckField(node, "x"); len(got) != 0 {
		t.Fatalf("expected no failures, got %v", got)
	}
}
