// Package catalog filters and pages the entry list on the client.
//
// Filtering is a case-insensitive substring search over title, director,
// and location combined with a type filter ("all", "movie", "tv"). Paging is
// incremental: the visible window grows one page at a time as the reader
// reaches the end, and resets to the first page whenever the underlying list
// or the query changes.
package catalog
