// Package movieflix implements the REST client for the MovieFlix backend.
//
// The client covers the account flows (login, signup, email verification,
// and the three-step password reset) and entry CRUD, including multipart
// poster uploads. Every request carries the session's bearer token when one
// exists and an X-Request-ID taken from the context. Calls run behind a
// circuit breaker so an unreachable backend fails fast instead of stalling
// the dashboard.
//
// Failures surface as *APIError values classified with the sentinel markers
// from internal/services, so callers branch with errors.Is.
package movieflix
