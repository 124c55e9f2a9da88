package server

import (
	"errors"
	"mime/multipart"
	"net/http"
)

// withUploadedFile resolves the session and hands the multipart "file"
// field to fn, closing it afterwards.
func (s *Server) withUploadedFile(w http.ResponseWriter, r *http.Request, fn func(id, name string, file multipart.File)) {
	id, err := s.sessionID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.jsonResponse(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload is too large"})
			return
		}
		s.errorResponse(w, r, &ErrValidation{Field: "file", Message: "a multipart file field is required"})
		return
	}
	defer file.Close()

	fn(id, header.Filename, file)
}
