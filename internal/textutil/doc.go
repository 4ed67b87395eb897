// Package textutil holds small text helpers shared by the CLI tables and the
// terminal dashboard: display-width aware truncation and padding, and a
// generic conditional.
package textutil
