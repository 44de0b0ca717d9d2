package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-editorkit/pkg/form"
)

type setValueRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type removeItemRequest struct {
	Path  string `json:"path"`
	Index *int   `json:"index"`
}

type formStateResponse struct {
	Value any            `json:"value"`
	Meta  form.MetaState `json:"meta"`
	Valid bool           `json:"valid"`
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) (*form.Controller, bool) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	controller, ok := s.forms[id]
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, "FORM_NOT_FOUND", "unknown form: "+id)
		return nil, false
	}
	return controller, true
}

func (s *Server) formState(controller *form.Controller) formStateResponse {
	meta := controller.Meta()
	return formStateResponse{Value: controller.Value(), Meta: meta, Valid: meta.Valid()}
}

func (s *Server) handleFormRender(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.form(w, r)
	if !ok {
		return
	}
	result, err := controller.Render()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	s.writeHTML(w, result.HTML)
}

func (s *Server) handleFormSetValue(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.form(w, r)
	if !ok {
		return
	}
	var req setValueRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := controller.SetValue(req.Path, req.Value); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_PATH", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.formState(controller))
}

func (s *Server) handleFormAddItem(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.form(w, r)
	if !ok {
		return
	}
	var req setValueRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := controller.AddItem(req.Path); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_PATH", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.formState(controller))
}

func (s *Server) handleFormRemoveItem(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.form(w, r)
	if !ok {
		return
	}
	var req removeItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Index == nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "index is required")
		return
	}
	if err := controller.RemoveItem(req.Path, *req.Index); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_PATH", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.formState(controller))
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.form(w, r)
	if !ok {
		return
	}
	err := controller.Submit(r.Context())
	switch {
	case errors.Is(err, form.ErrInvalidForm):
		s.writeError(w, http.StatusUnprocessableEntity, "INVALID_FORM", err.Error())
	case err != nil:
		s.writeError(w, http.StatusBadGateway, "ACTION_FAILED", err.Error())
	default:
		s.writeJSON(w, http.StatusOK, s.formState(controller))
	}
}

func (s *Server) handleFormReset(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.form(w, r)
	if !ok {
		return
	}
	controller.Reset()
	s.writeJSON(w, http.StatusOK, s.formState(controller))
}
