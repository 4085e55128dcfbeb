// Package list provides a sectioned, ordered collection that reports every
// mutation as a structural change event.
//
// A List stores opaque elements grouped into ordered sections and addressed
// by (section, row) coordinates. Mutations are applied eagerly and recorded
// against a diff tracker; when the enclosing batch closes, the tracker's
// frozen change-set is delivered through the list's event stream. A mutation
// made outside an open batch is implicitly wrapped in a single-operation
// batch, so every mutation - batched or not - yields exactly one event.
//
// # Identity
//
// Every inserted element is held by an internal node allocated at insertion
// time, and the node is the element's identity for as long as it lives in
// the collection. Replace swaps the value inside the node, so the occupant
// keeps its identity and the change is reported as an update; Remove
// followed by Insert allocates a fresh node and is reported as an
// independent delete and insert, even when both target the same slot.
//
// # Failure model
//
// An out-of-range coordinate is a caller error and panics immediately,
// aborting the enclosing batch without emitting an event. Operations already
// applied before the failing call are not rolled back - mutation is eager
// against the live collection.
//
// # Concurrency
//
// A List is single-writer and takes no locks. All mutation, diff
// computation, and event delivery happen synchronously on the goroutine
// that issued the mutation. Observers may attach and detach from other
// goroutines, but must not mutate the list concurrently with an in-flight
// batch.
package list
