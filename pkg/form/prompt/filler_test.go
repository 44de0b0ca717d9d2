package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
	"github.com/goliatone/go-editorkit/pkg/schema"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	textAreas    []string
	confirms     []bool
	selects      []int
	multis       [][]int
	infoMessages []string
	messages     []string
}

func pop[T any](queue *[]T, kind string) (T, error) {
	var zero T
	if len(*queue) == 0 {
		return zero, errors.New("no " + kind + " scripted")
	}
	head := (*queue)[0]
	*queue = (*queue)[1:]
	return head, nil
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	return pop(&s.inputs, "input")
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	return pop(&s.passwords, "password")
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	return pop(&s.confirms, "confirm")
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	return pop(&s.selects, "select")
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.messages = append(s.messages, cfg.Message)
	return pop(&s.multis, "multiselect")
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	return pop(&s.textAreas, "textarea")
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func minOf(v float64) *float64 { return &v }

func TestFillWalksSchemaInOrder(t *testing.T) {
	s := schema.New(
		&schema.Node{Key: "name", FieldType: schema.FieldTypeText, Config: schema.Config{
			Validation: schema.Validation{Required: true},
		}},
		&schema.Node{Key: "age", FieldType: schema.FieldTypeNumber, Config: schema.Config{
			Validation: schema.Validation{Min: minOf(0)},
		}},
		&schema.Node{Key: "secret", FieldType: schema.FieldTypePassword},
		&schema.Node{Key: "active", FieldType: schema.FieldTypeSwitch},
		&schema.Node{Key: "plan", FieldType: schema.FieldTypeSelect, Config: schema.Config{
			Options: []schema.Option{{Label: "Free", Value: "free"}, {Label: "Pro", Value: "pro"}},
		}},
		&schema.Node{Key: "roles", FieldType: schema.FieldTypeMultiSelect, Config: schema.Config{
			Options: []schema.Option{{Value: "admin"}, {Value: "editor"}, {Value: "viewer"}},
		}},
		&schema.Node{Key: "hidden", FieldType: schema.FieldTypeText, Config: schema.Config{Hidden: true}},
		&schema.Node{Key: "mystery", FieldType: "hologram"},
	)
	driver := &stubDriver{
		inputs:    []string{"", "Ada", "-3", "36"},
		passwords: []string{"s3cret"},
		confirms:  []bool{true},
		selects:   []int{1},
		multis:    [][]int{{0, 2}},
	}

	got, err := New(WithDriver(driver)).Fill(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := formvalue.Value{
		"name":    "Ada",
		"age":     float64(36),
		"secret":  "s3cret",
		"active":  true,
		"plan":    "pro",
		"roles":   []any{"admin", "viewer"},
		"hidden":  "",
		"mystery": nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 2 {
		t.Fatalf("expected two validation messages, got %v", driver.infoMessages)
	}
}

func TestFillArrayOfObjects(t *testing.T) {
	s := schema.New(&schema.Node{Key: "skills", FieldType: schema.FieldTypeArray, Children: []*schema.Node{
		{Key: schema.ArrayItemKey, FieldType: schema.FieldTypeObject, Children: []*schema.Node{
			{Key: "title", FieldType: schema.FieldTypeText},
		}},
	}})
	driver := &stubDriver{
		inputs:   []string{"math", "logic"},
		confirms: []bool{true, true, false},
	}

	got, err := New(WithDriver(driver)).Fill(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := formvalue.Value{"skills": []any{
		map[string]any{"title": "math"},
		map[string]any{"title": "logic"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestFillPropagatesAbort(t *testing.T) {
	s := schema.New(&schema.Node{Key: "name", FieldType: schema.FieldTypeText})
	driver := &abortingDriver{stubDriver{}}

	if _, err := New(WithDriver(driver)).Fill(context.Background(), s, nil); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFillGivesUpAfterRepeatedInvalidAnswers(t *testing.T) {
	s := schema.New(&schema.Node{Key: "email", FieldType: schema.FieldTypeEmail})
	driver := &stubDriver{inputs: []string{"a", "b", "c", "d", "e"}}

	if _, err := New(WithDriver(driver)).Fill(context.Background(), s, nil); err == nil {
		t.Fatalf("expected error after repeated invalid answers")
	}
}

type abortingDriver struct {
	stubDriver
}

func (a *abortingDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}
