package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/interview-feedback/internal/editor"
	"github.com/jonathan/interview-feedback/internal/rendering"
	"github.com/jonathan/interview-feedback/internal/server/middleware"
	"github.com/jonathan/interview-feedback/internal/types"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// maxUploadBytes caps transcript and report uploads.
const maxUploadBytes = 20 << 20

// anonymousUser owns sessions created without a token or a user id.
const anonymousUser = "anonymous"

type createSessionRequest struct {
	UserID string `json:"user_id,omitempty" validate:"omitempty,max=128"`
}

type sessionResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	editor.View
}

type evidenceRequest struct {
	Count int `json:"count,omitempty" validate:"omitempty,min=1,max=20"`
}

type pathRequest struct {
	Template string `json:"template" validate:"required"`
}

type tabRequest struct {
	TabID string `json:"tab_id" validate:"required"`
}

// requestUser returns the authenticated user, if any.
func requestUser(r *http.Request) (string, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// sessionID resolves the {id} parameter to a session the caller may use.
// Sessions of other users are reported as missing.
func (s *Server) sessionID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.editor.Session(id)
	if err != nil {
		return "", err
	}
	if user, ok := requestUser(r); ok && sess.UserID != user {
		return "", fmt.Errorf("%w: %s", editor.ErrSessionNotFound, id)
	}
	return id, nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	userID, ok := requestUser(r)
	if !ok {
		userID = req.UserID
	}
	if userID == "" {
		userID = anonymousUser
	}

	sess, err := s.editor.CreateSession(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, sessionResponse{ID: sess.ID, UserID: sess.UserID, View: sess.View()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sess, err := s.editor.Session(id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionResponse{ID: sess.ID, UserID: sess.UserID, View: sess.View()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.editor.CloseSession(r.Context(), id); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpload accepts a multipart transcript in the "file" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.withUploadedFile(w, r, func(id, name string, file multipart.File) {
		view, err := s.editor.Upload(r.Context(), id, name, file)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, view)
	})
}

// handleImport replaces the report with an edited document in the "file" field.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	s.withUploadedFile(w, r, func(id, name string, file multipart.File) {
		view, err := s.editor.ImportReport(r.Context(), id, name, file)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, view)
	})
}

func (s *Server) handleLoadFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	feedback, err := s.editor.LoadFeedback(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"feedback": feedback})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	view, err := s.editor.GenerateReport(r.Context(), id, nil)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleGenerateReportStream generates the report, streaming progress as
// server-sent events and ending with a complete or error event.
func (s *Server) handleGenerateReportStream(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	view, err := s.editor.GenerateReport(r.Context(), id, func(p editor.Progress) {
		if werr := sse.WriteEvent("progress", p); werr != nil {
			s.logger.Debug("Dropped progress event")
		}
	})
	if err != nil {
		sse.WriteError(errorMessage(err, HTTPStatus(err)))
		return
	}
	sse.WriteComplete(view)
}

func (s *Server) handleLoadEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req evidenceRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	view, err := s.editor.LoadEvidence(r.Context(), id, req.Count)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleChoosePath(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req pathRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	template, err := workspace.ParseTemplateID(req.Template)
	if err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "template", Message: err.Error()})
		return
	}
	view, err := s.editor.ChoosePath(r.Context(), id, template)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleSelectTab(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req tabRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	view, err := s.editor.SelectTab(r.Context(), id, req.TabID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleWizard(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var req editor.WizardRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	result, err := s.editor.Wizard(r.Context(), id, req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	var op editor.Operation
	if err := s.decodeJSON(r, &op); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	result, err := s.editor.Edit(r.Context(), id, op)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleRegenerateItem(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	kind, err := types.ParseSectionKind(chi.URLParam(r, "section"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	item, err := s.editor.RegenerateItem(r.Context(), id, kind, chi.URLParam(r, "item"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, item)
}

func (s *Server) handleGenerateNextSteps(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	steps, err := s.editor.GenerateNextSteps(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"next_steps": steps})
}

func (s *Server) handleSortEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	kind, err := types.ParseSectionKind(chi.URLParam(r, "section"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	sorted, err := s.editor.SortEvidence(r.Context(), id, kind)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sorted)
}

// handleExport downloads the active report; format defaults to docx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(rendering.FormatDOCX)
	}
	format, err := rendering.ParseFormat(name)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	doc, err := s.editor.Export(r.Context(), id, format)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}
