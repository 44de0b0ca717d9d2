package validation

import (
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/testsupport"
)

func TestValidateCustomerDefaultsGolden(t *testing.T) {
	s := testsupport.MustLoadSchema(t, filepath.Join("..", "schema", "testdata", "customer.yaml"))
	result := Validate(s, formvalue.Defaults(s))

	got, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	golden := filepath.Join("testdata", "customer.empty.golden.json")
	if testsupport.WriteMaybeGolden(t, golden, append(got, '\n')) {
		return
	}

	var want, actual map[string][]string
	if err := json.Unmarshal([]byte(testsupport.MustReadGoldenString(t, golden)), &want); err != nil {
		t.Fatalf("decode golden: %v", err)
	}
	if err := json.Unmarshal(got, &actual); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if diff := testsupport.CompareGolden(want, actual); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}
