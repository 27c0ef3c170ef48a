// Package listview is a cursor list for Bubble Tea models.
//
// It renders only the rows that fit the viewport and keeps the cursor
// visible as it moves. The browser holds one page of results in it at a
// time; moving past either end is reported to the caller so it can turn
// the page.
package listview
