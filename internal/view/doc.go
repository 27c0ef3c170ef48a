// Package view holds the catalog view state: which query produced the
// current result set, which page of it is shown, and which request is the
// latest one in flight.
//
// State is a value. Every transition returns a new State and leaves the
// receiver untouched, so the renderer holds the only mutable copy.
//
// Responses are matched to requests with tickets. Dispatch hands out a ticket
// carrying a monotonically increasing sequence number; Resolve and Fail only
// accept the ticket of the most recent dispatch, so a slow response to a
// superseded query can never overwrite a newer result set.
package view
