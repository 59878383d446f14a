package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExtractionEmpty means the document yielded no usable text.
	ErrExtractionEmpty = errors.New("no readable text found in the document")
	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrDocumentNotFound is returned when no session holds the requested document.
	ErrDocumentNotFound = errors.New("document not found")
)

// CollaboratorError wraps a failed call to the language model.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("language model unavailable during %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// NewCollaboratorError wraps err unless it is nil.
func NewCollaboratorError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Op: op, Err: err}
}

// IsCollaboratorUnavailable reports whether err came from a failed model call.
func IsCollaboratorUnavailable(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
