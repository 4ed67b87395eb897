package movieflix

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"movieflix/internal/services"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unwrap classifies the status code with the shared error markers.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return services.ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return services.ErrNotFound
	case e.Status >= 400 && e.Status < 500:
		return services.ErrValidation
	default:
		return services.ErrTransient
	}
}

// Message returns the user-facing text of err: the backend's own message
// when it sent one, otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

// decodeAPIError builds an APIError from a response body. The backend sends
// {"message": "..."}; some routes use "error" instead.
func decodeAPIError(status int, body []byte, fallback string) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = strings.TrimSpace(payload.Message)
		if message == "" {
			message = strings.TrimSpace(payload.Error)
		}
	}
	if message == "" {
		message = fallback
	}
	return &APIError{Status: status, Message: message}
}

// isBackendFault reports whether err should count against the breaker.
// Client errors mean the backend is healthy and answering.
func isBackendFault(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}
