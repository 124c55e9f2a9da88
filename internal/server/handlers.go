package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/editing"
	"github.com/jonathan/interview-feedback/internal/schemas"
	"github.com/jonathan/interview-feedback/internal/types"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 4 << 20

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.editor.Sessions(),
	})
}

// handleConvertOrdered turns a plain analysis into its editable form.
func (s *Server) handleConvertOrdered(w http.ResponseWriter, r *http.Request) {
	var plain types.InterviewAnalysis
	if err := s.decodeJSON(r, &plain); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, editing.ToOrdered(plain))
}

// handleConvertPlain turns an ordered analysis back into the plain shape.
func (s *Server) handleConvertPlain(w http.ResponseWriter, r *http.Request) {
	var ordered types.OrderedAnalysis
	if err := s.decodeJSON(r, &ordered); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	plain, err := editing.FromOrdered(ordered)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, plain)
}

// handleValidate checks a document against one of the embedded schemas.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	kind, err := schemas.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "kind", Message: err.Error()})
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, r, &ErrValidation{Message: "failed to read request body"})
		return
	}

	err = schemas.Validate(kind, body)
	var verr *schemas.ValidationError
	switch {
	case err == nil:
		s.jsonResponse(w, http.StatusOK, map[string]any{"valid": true})
	case errors.As(err, &verr):
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"valid":  false,
			"errors": verr.Errors,
		})
	default:
		s.errorResponse(w, r, &ErrValidation{Message: err.Error()})
	}
}

// decodeJSON reads a JSON body into v and validates its struct tags. An
// empty body leaves v untouched.
func (s *Server) decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return s.validateStruct(v)
		}
		return &ErrValidation{Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return s.validateStruct(v)
}

func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ErrValidation{Field: verrs[0].Field(), Message: fmt.Sprintf("failed on %q", verrs[0].Tag())}
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	return &ErrValidation{Message: err.Error()}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Error encoding JSON response", zap.Error(err))
	}
}

// errorResponse maps err to its status and writes it as a JSON error.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", r.URL.Path),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", fields...)
	} else {
		s.logger.Debug("Request rejected", fields...)
	}
	s.jsonResponse(w, status, map[string]string{"error": errorMessage(err, status)})
}
