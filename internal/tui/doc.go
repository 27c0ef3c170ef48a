// Package tui implements the interactive catalog browser: a paged book list
// with search and author filter inputs, an add/edit form, a delete
// confirmation, a detail view and transient toasts.
//
// The browser never owns pagination logic. It holds a view.State, dispatches
// queries through it, and renders whatever Visible and Window return.
package tui
