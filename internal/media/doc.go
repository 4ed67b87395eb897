// Package media defines the records a MovieFlix collection is made of:
// entries, their movie/TV type, the signed-in user, and the Draft payload
// used to create or edit an entry.
//
// Decoding is deliberately forgiving because the backend has shipped several
// field spellings over time (poster vs posterPath, description vs details,
// numeric vs string years). Encoding is strict: drafts always serialize with
// the field names the current backend accepts, and are validated before they
// leave the process.
package media
