// Package services defines shared utilities consumed by the backend client,
// the local store, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers and command names for
//     logging and the X-Request-ID header.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (sign in again, fix the input, retry later) without parsing
//     messages.
//
// Provider-specific clients live in subpackages (services/movieflix).
package services
