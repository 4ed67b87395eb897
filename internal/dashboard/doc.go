// Package dashboard implements the interactive collection browser behind
// `movieflix browse` and `movieflix demo --browse`.
//
// The Model is a bubbletea program: a search box, an all/movie/tv type
// filter, a table or card layout, incremental paging as the cursor reaches
// the end of the revealed rows, refresh, and delete with confirmation. Data
// comes from a Backend, which is the REST client in normal use and a
// MemoryBackend in demo mode. Successful refreshes are written to an optional
// Cache so the next launch can paint the last known list immediately.
package dashboard
