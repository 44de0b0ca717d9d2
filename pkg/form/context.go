package form

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-editorkit/pkg/formvalue"
)

// EventType names the widget event that triggered an action.
type EventType string

const (
	EventSubmit EventType = "ON_SUBMIT"
)

// Event describes the trigger handed to ExecuteAction.
type Event struct {
	Type EventType `json:"type"`
	ID   string    `json:"id"`
}

// ExecuteTriggerPayload is the argument of RenderContext.ExecuteAction.
type ExecuteTriggerPayload struct {
	TriggerPropertyName string          `json:"triggerPropertyName"`
	DynamicString       string          `json:"dynamicString"`
	Event               Event           `json:"event"`
	FormData            formvalue.Value `json:"formData"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(kind EventType) Event {
	return Event{Type: kind, ID: uuid.NewString()}
}

// FieldState is the transient state a rendered field reports.
type FieldState struct {
	IsValid    bool `json:"isValid"`
	IsRequired bool `json:"isRequired"`
	IsVisible  bool `json:"isVisible"`
	IsDisabled bool `json:"isDisabled"`
	Touched    bool `json:"touched"`
}

// MetaState is the internal meta state of a form keyed by value path.
type MetaState struct {
	FieldState map[string]FieldState `json:"fieldState"`
}

// Clone returns a copy safe to mutate.
func (m MetaState) Clone() MetaState {
	out := MetaState{FieldState: make(map[string]FieldState, len(m.FieldState))}
	for path, state := range m.FieldState {
		out.FieldState[path] = state
	}
	return out
}

// Valid reports whether every visible field is valid.
func (m MetaState) Valid() bool {
	for _, state := range m.FieldState {
		if state.IsVisible && !state.IsValid {
			return false
		}
	}
	return true
}

// RenderContext carries the callbacks of the owning widget. Fields at any
// depth share the same pointer; invoking a callback never changes the
// context itself. Nil callbacks are ignored.
type RenderContext struct {
	ExecuteAction             func(ctx context.Context, payload ExecuteTriggerPayload) error
	SetMetaInternalFieldState func(update func(MetaState) MetaState)
	UpdateWidgetMetaProperty  func(name string, value any)
	UpdateWidgetProperty      func(name string, value any)
	UpdateFormData            func(values formvalue.Value)
}

// Execute forwards to ExecuteAction.
func (rc *RenderContext) Execute(ctx context.Context, payload ExecuteTriggerPayload) error {
	if rc == nil || rc.ExecuteAction == nil {
		return nil
	}
	return rc.ExecuteAction(ctx, payload)
}

// SetMeta forwards to SetMetaInternalFieldState.
func (rc *RenderContext) SetMeta(update func(MetaState) MetaState) {
	if rc == nil || rc.SetMetaInternalFieldState == nil || update == nil {
		return
	}
	rc.SetMetaInternalFieldState(update)
}

// UpdateMeta forwards to UpdateWidgetMetaProperty.
func (rc *RenderContext) UpdateMeta(name string, value any) {
	if rc == nil || rc.UpdateWidgetMetaProperty == nil {
		return
	}
	rc.UpdateWidgetMetaProperty(name, value)
}

// UpdateProperty forwards to UpdateWidgetProperty.
func (rc *RenderContext) UpdateProperty(name string, value any) {
	if rc == nil || rc.UpdateWidgetProperty == nil {
		return
	}
	rc.UpdateWidgetProperty(name, value)
}

// UpdateData forwards to UpdateFormData.
func (rc *RenderContext) UpdateData(values formvalue.Value) {
	if rc == nil || rc.UpdateFormData == nil {
		return
	}
	rc.UpdateFormData(values)
}
