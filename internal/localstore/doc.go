// Package localstore persists client-side state in a SQLite database under the
// state directory.
//
// It plays the role browser storage plays for the web client: a small string
// key/value table holds the auth token and the cached user, and a snapshot
// table keeps the last entry list fetched from the backend so the dashboard
// can paint immediately on start. Schema migrations are embedded and applied
// under a file lock so concurrent CLI invocations do not race on first run.
package localstore
