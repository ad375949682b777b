// Package errors provides domain-specific sentinel errors for the
// question-answering pipeline. Use errors.Is() to check them.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCategory indicates a category string outside the closed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrLLMUnavailable indicates the language model call failed.
	ErrLLMUnavailable = errors.New("language model unavailable")

	// ErrEmptyResponse indicates the language model returned no content.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrIndexNotReady indicates a search index has not been initialized.
	ErrIndexNotReady = errors.New("index not initialized")
)

// StageError wraps a pipeline failure with the stage it occurred in.
type StageError struct {
	Stage string
	Query string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (query=%q): %v", e.Stage, e.Query, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new stage error.
func NewStageError(stage, query string, err error) *StageError {
	return &StageError{Stage: stage, Query: query, Err: err}
}
