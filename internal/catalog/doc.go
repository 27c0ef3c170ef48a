// Package catalog talks to the book catalog API.
//
// Service implements the query side (ListAll, Search, FilterByAuthor, Get,
// Count, Stats) and the mutation side (Create, Update, Delete) on top of a
// GraphQL transport. Reads go through an optional cache.Store; every
// successful mutation clears it.
package catalog
