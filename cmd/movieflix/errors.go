package main

import (
	"errors"
	"fmt"

	"movieflix/internal/media"
	"movieflix/internal/services"
	"movieflix/internal/services/movieflix"
)

// cliError shows a user-facing message while keeping the cause available to
// errors.Is for hints.
type cliError struct {
	message string
	err     error
}

func (e *cliError) Error() string { return e.message }

func (e *cliError) Unwrap() error { return e.err }

// userError converts a backend failure into the message the user should see:
// the backend's own text when it sent one, otherwise fallback.
func userError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var apiErr *movieflix.APIError
	if errors.As(err, &apiErr) {
		return &cliError{message: movieflix.Message(err, fallback), err: err}
	}
	var validationErr *media.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, services.ErrValidation) {
		return err
	}
	return &cliError{message: fmt.Sprintf("%s (%v)", fallback, err), err: err}
}
