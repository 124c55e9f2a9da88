// Package server provides the HTTP API of the interview feedback editor.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

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

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		duplicate   *editing.DuplicateHeadingError
		index       *editing.IndexError
		stepKind    *editing.StepKindError
		stepRange   *wizard.StepRangeError
		schemaErr   *schemas.ValidationError
		formatErr   *rendering.FormatError
		fileTypeErr *apiclient.FileTypeError
		apiErr      *apiclient.APIError
		sectionErr  *types.SectionError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &index), errors.As(err, &stepKind),
		errors.As(err, &stepRange), errors.As(err, &formatErr), errors.As(err, &sectionErr),
		errors.Is(err, editing.ErrEmptyHeading):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, snapshot.ErrNotFound),
		errors.Is(err, editing.ErrItemNotFound), errors.Is(err, workspace.ErrTemplateNotFound),
		errors.Is(err, workspace.ErrTabNotFound), errors.Is(err, editor.ErrNoPath):
		return http.StatusNotFound
	case errors.As(err, &duplicate), errors.Is(err, editor.ErrNoFile), errors.Is(err, autosave.ErrNoFile),
		errors.Is(err, editor.ErrFileChanged), errors.Is(err, editor.ErrSnapshotMismatch),
		errors.Is(err, workspace.ErrNoActiveTemplate), errors.Is(err, wizard.ErrStepDisabled),
		errors.Is(err, wizard.ErrNotOptional):
		return http.StatusConflict
	case errors.As(err, &fileTypeErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &schemaErr), errors.Is(err, autosave.ErrNothingToSave):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the text shown to the client. Backend and internal
// failures get a generic message; the cause is logged instead.
func errorMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return apiclient.UserMessage(err)
	}
	return err.Error()
}
