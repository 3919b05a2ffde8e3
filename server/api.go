package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/amonks/todolist/media"
	"github.com/amonks/todolist/todo"
	"github.com/go-chi/chi/v5"
)

type stateResponse struct {
	State    todo.Snapshot `json:"state"`
	Rejected []rejection   `json:"rejected,omitempty"`
}

type rejection struct {
	File  string `json:"file,omitempty"`
	Error string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type draftRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w)
}

func (s *Server) handleDraftUpdate(w http.ResponseWriter, r *http.Request) {
	var payload draftRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if payload.Title != nil {
		_ = s.store.SetDraftField(todo.DraftTitle, *payload.Title)
	}
	if payload.Description != nil {
		_ = s.store.SetDraftField(todo.DraftDescription, *payload.Description)
	}
	s.writeState(w)
}

func (s *Server) handleDraftImageStage(w http.ResponseWriter, r *http.Request) {
	files, rejected, err := s.readUploads(w, r, "file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if len(files) != 1 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("expected exactly one file, got %d", len(files)))
		return
	}
	results := s.store.StageImage(r.Context(), files[0]).Wait()
	s.writeState(w, append(rejected, rejectionsFromResults(results)...)...)
}

func (s *Server) handleDraftImageClear(w http.ResponseWriter, r *http.Request) {
	s.store.ClearStagedImage()
	s.writeState(w)
}

func (s *Server) handleTodosCreate(w http.ResponseWriter, r *http.Request) {
	var err error
	if r.ContentLength == 0 {
		_, err = s.store.Create()
	} else {
		var payload createRequest
		if decodeErr := decodeJSON(r, &payload); decodeErr != nil {
			s.writeError(w, r, http.StatusBadRequest, decodeErr)
			return
		}
		_, err = s.store.CreateWithText(payload.Title, payload.Description)
	}
	s.writeState(w, rejectionsFromError(err)...)
}

func (s *Server) handleTodoToggle(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.ToggleCompleted(s.todoID(r))
	s.writeState(w, rejectionsFromError(err)...)
}

func (s *Server) handleTodoDelete(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(s.todoID(r))
	s.writeState(w, rejectionsFromError(err)...)
}

func (s *Server) handleMediaAttach(w http.ResponseWriter, r *http.Request) {
	files, rejected, err := s.readUploads(w, r, "files")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	results := s.store.AttachMedia(r.Context(), s.todoID(r), files).Wait()
	s.writeState(w, append(rejected, rejectionsFromResults(results)...)...)
}

func (s *Server) handleMediaRemove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid media index %q", chi.URLParam(r, "index")))
		return
	}
	_, err = s.store.RemoveMedia(s.todoID(r), index)
	s.writeState(w, rejectionsFromError(err)...)
}

func (s *Server) handleAttachmentRemove(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.RemoveMediaByID(s.todoID(r), chi.URLParam(r, "attachmentID"))
	s.writeState(w, rejectionsFromError(err)...)
}

// todoID expands a unique prefix; anything unresolvable passes through
// unchanged so the store reports it as a no-op.
func (s *Server) todoID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if resolved, err := s.store.Resolve(raw); err == nil {
		return resolved
	}
	return raw
}

// readUploads parses a multipart body and wraps the files under field.
// Files that cannot be read are reported as rejections, not errors.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request, field string) ([]media.File, []rejection, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, nil, fmt.Errorf("parse upload: %w", err)
	}
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File[field]
	}
	files := make([]media.File, 0, len(headers))
	var rejected []rejection
	for _, header := range headers {
		file, err := media.FromMultipart(header)
		if err != nil {
			rejected = append(rejected, rejection{File: header.Filename, Error: err.Error()})
			continue
		}
		files = append(files, file)
	}
	return files, rejected, nil
}

func rejectionsFromError(err error) []rejection {
	if err == nil {
		return nil
	}
	return []rejection{{Error: err.Error()}}
}

func rejectionsFromResults(results []todo.Result) []rejection {
	var rejected []rejection
	for _, result := range results {
		if result.Err != nil {
			rejected = append(rejected, rejection{File: result.File, Error: result.Err.Error()})
		}
	}
	return rejected
}

func (s *Server) writeState(w http.ResponseWriter, rejected ...rejection) {
	writeJSON(w, http.StatusOK, stateResponse{State: s.store.Snapshot(), Rejected: rejected})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
