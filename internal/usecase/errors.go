package usecase

import "errors"

var (
	ErrNotFound     = errors.New("job description not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	// ErrUnreadableURL means a job description URL was malformed or had no text.
	ErrUnreadableURL = errors.New("job description url could not be read")
	// ErrUnavailable means the analysis model is not configured or unreachable.
	ErrUnavailable = errors.New("analysis service unavailable")
)
