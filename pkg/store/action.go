// Package store defines the contract the widgets use to read and write
// application state, plus an in-memory implementation for previews and
// tests. Reads go through pure selectors over State; writes are dispatched
// Actions whose effects arrive later through the read side.
package store

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-editorkit/pkg/entities"
)

// ActionType names a dispatched action.
type ActionType string

const (
	DeleteDatasourceInit    ActionType = "DELETE_DATASOURCE_INIT"
	SetDatasourceEditorMode ActionType = "SET_DATASOURCE_EDITOR_MODE"
	SetAppThemingStack      ActionType = "SET_APP_THEMING_STACK"
	SetSelectedTheme        ActionType = "SET_SELECTED_APP_THEME"
	CreateActionInit        ActionType = "CREATE_ACTION_INIT"
)

// Action is a plain action descriptor.
type Action struct {
	ID      string     `json:"id"`
	Type    ActionType `json:"type"`
	Payload any        `json:"payload,omitempty"`
}

// DeleteDatasourcePayload identifies the datasource to delete.
type DeleteDatasourcePayload struct {
	ID string `json:"id"`
}

// EditorModePayload switches a datasource editor between view and edit.
type EditorModePayload struct {
	ID       string `json:"id"`
	ViewMode bool   `json:"viewMode"`
}

// ThemingStackPayload replaces the theming navigation stack.
type ThemingStackPayload struct {
	Stack []string `json:"stack"`
}

// SelectedThemePayload applies a theme.
type SelectedThemePayload struct {
	ThemeID string `json:"themeId"`
}

// CreateActionPayload carries a new query or API and where it was created
// from.
type CreateActionPayload struct {
	Action    entities.Action `json:"action"`
	EventFrom string          `json:"eventFrom,omitempty"`
}

// NewAction stamps an action with a fresh id.
func NewAction(kind ActionType, payload any) Action {
	return Action{ID: uuid.NewString(), Type: kind, Payload: payload}
}

// DeleteDatasource builds DELETE_DATASOURCE_INIT.
func DeleteDatasource(id string) Action {
	return NewAction(DeleteDatasourceInit, DeleteDatasourcePayload{ID: id})
}

// EditorMode builds SET_DATASOURCE_EDITOR_MODE.
func EditorMode(id string, viewMode bool) Action {
	return NewAction(SetDatasourceEditorMode, EditorModePayload{ID: id, ViewMode: viewMode})
}

// ThemingStack builds SET_APP_THEMING_STACK. The stack is copied.
func ThemingStack(stack []string) Action {
	return NewAction(SetAppThemingStack, ThemingStackPayload{Stack: append([]string{}, stack...)})
}

// SelectTheme builds SET_SELECTED_APP_THEME.
func SelectTheme(id string) Action {
	return NewAction(SetSelectedTheme, SelectedThemePayload{ThemeID: id})
}

// CreateAction builds CREATE_ACTION_INIT.
func CreateAction(action entities.Action, eventFrom string) Action {
	return NewAction(CreateActionInit, CreateActionPayload{Action: action, EventFrom: eventFrom})
}

// Dispatcher accepts actions without returning a result.
type Dispatcher interface {
	Dispatch(action Action)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(Action)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(action Action) {
	f(action)
}

// Reader exposes the current state snapshot.
type Reader interface {
	State() State
}
