// Package preflight provides readiness checks for the things the MovieFlix
// CLI depends on: the REST backend, the local state directory, and the
// stored session.
//
// `movieflix status` renders every Result; `movieflix browse` runs RunAll
// first and warns about failures without refusing to start, since the
// dashboard can still show the cached snapshot.
package preflight
