package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-feedback/internal/apiclient"
	"github.com/jonathan/interview-feedback/internal/autosave"
	"github.com/jonathan/interview-feedback/internal/editing"
	"github.com/jonathan/interview-feedback/internal/editor"
	"github.com/jonathan/interview-feedback/internal/rendering"
	"github.com/jonathan/interview-feedback/internal/schemas"
	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/types"
	"github.com/jonathan/interview-feedback/internal/wizard"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &ErrValidation{Field: "count", Message: "too big"}, http.StatusBadRequest},
		{"empty heading", editing.ErrEmptyHeading, http.StatusBadRequest},
		{"index", &editing.IndexError{}, http.StatusBadRequest},
		{"step range", &wizard.StepRangeError{Step: 7, Total: 5}, http.StatusBadRequest},
		{"format", &rendering.FormatError{Format: "rtf"}, http.StatusBadRequest},
		{"section", &types.SectionError{Section: "x"}, http.StatusBadRequest},
		{"session", fmt.Errorf("%w: s1", editor.ErrSessionNotFound), http.StatusNotFound},
		{"snapshot", &editor.OperationError{Op: "load", Cause: snapshot.ErrNotFound}, http.StatusNotFound},
		{"item", editing.ErrItemNotFound, http.StatusNotFound},
		{"template", workspace.ErrTemplateNotFound, http.StatusNotFound},
		{"tab", workspace.ErrTabNotFound, http.StatusNotFound},
		{"duplicate", &editing.DuplicateHeadingError{Section: types.SectionStrengths, Heading: "A"}, http.StatusConflict},
		{"no file", editor.ErrNoFile, http.StatusConflict},
		{"autosave no file", &editor.OperationError{Op: "save", Cause: autosave.ErrNoFile}, http.StatusConflict},
		{"file changed", editor.ErrFileChanged, http.StatusConflict},
		{"mismatch", editor.ErrSnapshotMismatch, http.StatusConflict},
		{"disabled step", wizard.ErrStepDisabled, http.StatusConflict},
		{"file type", &apiclient.FileTypeError{}, http.StatusUnsupportedMediaType},
		{"schema", &schemas.ValidationError{}, http.StatusUnprocessableEntity},
		{"nothing to save", autosave.ErrNothingToSave, http.StatusUnprocessableEntity},
		{"backend", &apiclient.APIError{Op: "generate report", StatusCode: 500}, http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &ErrValidation{Field: "file", Message: "required"}
	assert.Equal(t, "validation error: file - required", errorMessage(err, http.StatusBadRequest))

	backend := &apiclient.APIError{Op: "generate report", StatusCode: 500}
	assert.Equal(t, "Failed to generate report. Please try again.", errorMessage(backend, http.StatusBadGateway))

	assert.Equal(t, "Something went wrong. Please try again.", errorMessage(errors.New("disk on fire"), http.StatusInternalServerError))
}
