// Package diff converts a batch of primitive mutations against a sectioned,
// ordered collection into a minimal structural change-set.
//
// A Tracker is created from the pre-batch section layout and replays the
// batch's operations as they are applied to the live collection. Each
// surviving element carries an origin - its pre-batch coordinate, or "new"
// if it was inserted during the batch. When the batch closes, Freeze walks
// the tracked state and produces an immutable ChangeSet classifying every
// structural difference as a section insertion/deletion, row
// insertion/deletion, in-place update, or move.
//
// The tracker's bookkeeping is positional: untouched stretches of pre-batch
// rows are kept as compressed runs that are only split when an operation
// lands inside them, so the cost of a batch is proportional to the number of
// operations it contains rather than to the size of the collection.
//
// # Application order
//
// A ChangeSet is correct only when applied in the order deleted sections and
// deleted rows and move origins (against the pre-batch arrangement), then
// inserted sections, then inserted rows and move destinations in ascending
// coordinate order, then in-place updates. Applying entries in any other
// order is not guaranteed to reconstruct the post-batch arrangement.
//
// # Failure model
//
// An operation referencing a coordinate that resolves to no live element is
// an internal consistency violation and panics. The tracker never produces a
// best-effort incorrect diff.
package diff
