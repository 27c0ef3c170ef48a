// Package book defines the catalog's data model as seen by the client.
//
// A Record is an immutable snapshot of a book owned by the remote catalog.
// An Input is the payload sent on create and update; it is normalized and
// validated locally before any request is dispatched so that obviously bad
// forms never reach the network.
package book
