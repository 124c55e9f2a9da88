package apiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FileTypeError is returned before any request when an upload has an
// unsupported extension.
type FileTypeError struct {
	FileName string
	Allowed  []string
}

func (e *FileTypeError) Error() string {
	return fmt.Sprintf("Invalid file type for %q. Please upload a %s file.", e.FileName, joinAlternatives(e.Allowed))
}

func joinAlternatives(exts []string) string {
	switch len(exts) {
	case 0:
		return "supported"
	case 1:
		return exts[0]
	default:
		return strings.Join(exts[:len(exts)-1], ", ") + " or " + exts[len(exts)-1]
	}
}

// APIError is a failed backend call: a transport failure, a non-2xx status
// or an undecodable response.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// UserMessage turns an error from this package into the message shown to
// the user. Validation errors keep their text; backend failures become a
// generic retry prompt naming the operation.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var typeErr *FileTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Failed to %s. Please try again.", apiErr.Op)
	}
	return "Something went wrong. Please try again."
}
