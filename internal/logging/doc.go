// Package logging builds the slog loggers used by the CLI and dashboard.
//
// Two formats are supported: a compact console format for humans and JSON for
// machine ingestion. Diagnostics go to stderr and the log file under the
// configured log directory, never stdout, because stdout carries command
// output that users pipe into other tools. Helpers in this package standardize
// field names (component, correlation_id, entry_id) so log lines from the REST
// client, the local store, and the dashboard line up.
package logging
