package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	snap, err := s.editor.SaveSnapshot(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, snap)
}

func (s *Server) handleSnapshotHistory(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	history, err := s.editor.SnapshotHistory(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"snapshots": history})
}

func (s *Server) handleLoadLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	view, err := s.editor.LoadLatestSnapshot(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	view, err := s.editor.LoadSnapshot(r.Context(), id, chi.URLParam(r, "snapshot"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleSetCurrentSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.editor.SetCurrentSnapshot(r.Context(), id, chi.URLParam(r, "snapshot")); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.editor.DeleteSnapshot(r.Context(), id, chi.URLParam(r, "snapshot")); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
