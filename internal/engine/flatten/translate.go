package flatten

import (
	"slices"

	"github.com/dshills/sectionlist/internal/engine/diff"
)

// FlatMove records a relocation in the flat index space. From is an index in
// the previous flat space, To an index in the new one.
type FlatMove struct {
	From int
	To   int
}

// FlatChangeSet is a change-set translated into the flat index space.
// Deleted and Updated indices refer to the flat space before the batch;
// Inserted indices and FlatMove.To refer to the flat space after it. Rows of
// deleted and inserted sections appear individually, pseudo-row slots
// included, since a section-unaware consumer has no section entries to fold
// them into.
type FlatChangeSet struct {
	Deleted  []int
	Inserted []int
	Updated  []int
	Moved    []FlatMove
}

// IsEmpty reports whether the flat change-set contains no entries.
func (fc *FlatChangeSet) IsEmpty() bool {
	return len(fc.Deleted) == 0 && len(fc.Inserted) == 0 &&
		len(fc.Updated) == 0 && len(fc.Moved) == 0
}

// Reload recomputes the range table after a Reloaded event. The previous
// table is discarded; the consumer is expected to rebuild its cached layout
// from scratch.
func (f *Flattener) Reload() {
	f.RecomputeRanges()
}

// Translate recomputes the range table for a completed batch and translates
// its change-set into the flat index space. Deletions and updates are
// resolved against the pre-batch table, insertions and move destinations
// against the recomputed one.
func (f *Flattener) Translate(cs *diff.ChangeSet) FlatChangeSet {
	prev := f.RecomputeRanges()

	var out FlatChangeSet

	for _, sec := range cs.DeletedSections {
		r := prev[sec]
		for i := r.Start; i < r.End; i++ {
			out.Deleted = append(out.Deleted, i)
		}
	}
	for _, c := range cs.DeletedRows {
		out.Deleted = append(out.Deleted, FlattenedIndexIn(prev, f.layout, c))
	}

	for _, sec := range cs.InsertedSections {
		r := f.ranges[sec]
		for i := r.Start; i < r.End; i++ {
			out.Inserted = append(out.Inserted, i)
		}
	}
	for _, c := range cs.InsertedRows {
		out.Inserted = append(out.Inserted, FlattenedIndexIn(f.ranges, f.layout, c))
	}

	for _, c := range cs.UpdatedRows {
		out.Updated = append(out.Updated, FlattenedIndexIn(prev, f.layout, c))
	}

	for _, m := range cs.MovedRows {
		out.Moved = append(out.Moved, FlatMove{
			From: FlattenedIndexIn(prev, f.layout, m.From),
			To:   FlattenedIndexIn(f.ranges, f.layout, m.To),
		})
	}

	slices.Sort(out.Deleted)
	slices.Sort(out.Inserted)
	slices.Sort(out.Updated)

	return out
}
