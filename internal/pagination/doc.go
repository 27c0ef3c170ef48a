// Package pagination provides the page arithmetic shared by the CLI and the
// interactive browser.
//
// This package contains:
//   - VisibleSlice: the page of a result set currently on screen
//   - PageWindow: the run of page-number controls around the current page
//   - PaginationMeta: "page X of Y" metadata for rendered output
//   - PaginationParams: CLI flag parsing and validation
//   - BookSorter: collation-aware ordering of book records
//
// Every function here is pure. Out-of-range pages degrade to empty results
// instead of failing.
package pagination
