// Package flatten maps (section, row) coordinates into a single linear index
// space for list consumers without native section support.
//
// A Flattener maintains one contiguous range per section in the flat space,
// optionally reserving a leading slot per section for a header pseudo-row
// and a trailing slot for a footer. Ranges are ordered by section index and
// non-overlapping; each range's upper bound equals the next range's lower
// bound.
//
// The range table is recomputed synchronously on every change event, before
// the event's payload is translated. Deletions and updates carry pre-batch
// coordinates and are translated with the table as it was before
// recomputation; insertions carry post-batch coordinates and are translated
// with the recomputed table. Translate handles this ordering internally.
package flatten
