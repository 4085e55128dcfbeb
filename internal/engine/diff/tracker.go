package diff

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// newSection marks a section shadow with no pre-batch counterpart.
const newSection = -1

// rowNode is a materialized row in the tracker's shadow arrangement. A row is
// materialized the first time an operation touches it; untouched pre-batch
// rows stay compressed in runs.
type rowNode struct {
	origin   Coordinate // pre-batch coordinate; meaningless when inserted
	inserted bool       // created during the current batch
	updated  bool       // replaced in place during the current batch
	moved    bool       // explicitly relocated during the current batch
}

// item is one entry in a section's shadow arrangement: a run of length
// untouched pre-batch rows beginning at pre-batch row start, or, when node is
// non-nil, a single materialized row.
type item struct {
	start  int
	length int
	node   *rowNode
}

func (it item) size() int {
	if it.node != nil {
		return 1
	}
	return it.length
}

// sectionShadow mirrors one live section for the duration of a batch.
type sectionShadow struct {
	origin int // pre-batch section index, or newSection
	items  []item
}

func (s *sectionShadow) rowCount() int {
	n := 0
	for _, it := range s.items {
		n += it.size()
	}
	return n
}

// splitAt rearranges items so that row begins an item and returns that item's
// index. row may equal the section's row count, in which case len(items) is
// returned. Panics if row is otherwise out of range.
func (s *sectionShadow) splitAt(row int) int {
	pos := 0
	for i := range s.items {
		if row == pos {
			return i
		}
		sz := s.items[i].size()
		if row < pos+sz {
			// Inside a run; materialized rows have size 1 and are always
			// matched exactly above.
			off := row - pos
			it := s.items[i]
			tail := item{start: it.start + off, length: it.length - off}
			s.items[i].length = off
			s.items = slices.Insert(s.items, i+1, tail)
			return i + 1
		}
		pos += sz
	}
	if row == pos {
		return len(s.items)
	}
	panic(fmt.Sprintf("diff: row %d out of range (section has %d rows)", row, pos))
}

// takeAt removes the row at the given position and returns it as a
// materialized node. Panics if row resolves to no live row.
func (s *sectionShadow) takeAt(row int) *rowNode {
	pos := 0
	for i := range s.items {
		it := s.items[i]
		sz := it.size()
		if row >= pos+sz {
			pos += sz
			continue
		}
		if it.node != nil {
			s.items = slices.Delete(s.items, i, i+1)
			return it.node
		}
		off := row - pos
		n := &rowNode{origin: Coordinate{Section: s.origin, Row: it.start + off}}
		repl := make([]item, 0, 2)
		if off > 0 {
			repl = append(repl, item{start: it.start, length: off})
		}
		if rest := it.length - off - 1; rest > 0 {
			repl = append(repl, item{start: it.start + off + 1, length: rest})
		}
		s.items = slices.Replace(s.items, i, i+1, repl...)
		return n
	}
	panic(fmt.Sprintf("diff: row %d resolves to no live row (section has %d rows)", row, pos))
}

// materializeAt converts the row at the given position into a node without
// moving it and returns the node. Panics if row resolves to no live row.
func (s *sectionShadow) materializeAt(row int) *rowNode {
	pos := 0
	for i := range s.items {
		it := s.items[i]
		sz := it.size()
		if row >= pos+sz {
			pos += sz
			continue
		}
		if it.node != nil {
			return it.node
		}
		off := row - pos
		n := &rowNode{origin: Coordinate{Section: s.origin, Row: it.start + off}}
		repl := make([]item, 0, 3)
		if off > 0 {
			repl = append(repl, item{start: it.start, length: off})
		}
		repl = append(repl, item{node: n})
		if rest := it.length - off - 1; rest > 0 {
			repl = append(repl, item{start: it.start + off + 1, length: rest})
		}
		s.items = slices.Replace(s.items, i, i+1, repl...)
		return n
	}
	panic(fmt.Sprintf("diff: row %d resolves to no live row (section has %d rows)", row, pos))
}

// Tracker accumulates origin bookkeeping for one batch. It is created from
// the pre-batch section layout, fed every primitive operation in log order,
// and frozen exactly once when the batch closes.
//
// The tracker replays operations positionally and must observe the same
// operation stream, in the same order, as the live collection. Feeding it an
// operation the collection rejected leaves it inconsistent.
type Tracker struct {
	sections        []*sectionShadow
	deletedSections *bitset.BitSet // pre-batch section indices
	deletedRows     []Coordinate   // pre-batch coordinates, unfiltered
	ops             int
}

// NewTracker creates a tracker for a batch opening against a collection with
// the given per-section row counts.
func NewTracker(rowCounts []int) *Tracker {
	t := &Tracker{
		sections:        make([]*sectionShadow, len(rowCounts)),
		deletedSections: bitset.New(uint(len(rowCounts))),
	}
	for i, n := range rowCounts {
		sh := &sectionShadow{origin: i}
		if n > 0 {
			sh.items = []item{{start: 0, length: n}}
		}
		t.sections[i] = sh
	}
	return t
}

// Operations returns the number of primitive operations replayed so far.
func (t *Tracker) Operations() int {
	return t.ops
}

func (t *Tracker) section(idx int) *sectionShadow {
	if idx < 0 || idx >= len(t.sections) {
		panic(fmt.Sprintf("diff: section %d out of range (%d sections tracked)", idx, len(t.sections)))
	}
	return t.sections[idx]
}

// InsertRow records the insertion of a brand-new element at c, where c is
// the element's coordinate at the time of the call.
func (t *Tracker) InsertRow(c Coordinate) {
	t.ops++
	sh := t.section(c.Section)
	if c.Row < 0 || c.Row > sh.rowCount() {
		panic(fmt.Sprintf("diff: insert at %v out of range (section has %d rows)", c, sh.rowCount()))
	}
	i := sh.splitAt(c.Row)
	sh.items = slices.Insert(sh.items, i, item{node: &rowNode{inserted: true}})
}

// RemoveRow records the removal of the element at c. Removing an element
// that was inserted earlier in the same batch cancels the insertion.
func (t *Tracker) RemoveRow(c Coordinate) {
	t.ops++
	n := t.section(c.Section).takeAt(c.Row)
	if !n.inserted {
		t.deletedRows = append(t.deletedRows, n.origin)
	}
}

// ReplaceRow records an in-place replacement at c. The occupant keeps its
// identity, so a pre-existing element becomes an update at its origin; an
// element inserted earlier in the batch stays a plain insertion.
func (t *Tracker) ReplaceRow(c Coordinate) {
	t.ops++
	n := t.section(c.Section).materializeAt(c.Row)
	if !n.inserted {
		n.updated = true
	}
}

// MoveRow records the relocation of the element at from to the coordinate
// to, where to is interpreted against the arrangement after the element has
// been detached. A move with from == to is a no-op.
func (t *Tracker) MoveRow(from, to Coordinate) {
	t.ops++
	if from == to {
		return
	}
	n := t.section(from.Section).takeAt(from.Row)
	if !n.inserted {
		n.moved = true
	}
	dst := t.section(to.Section)
	if to.Row < 0 || to.Row > dst.rowCount() {
		panic(fmt.Sprintf("diff: move to %v out of range (section has %d rows)", to, dst.rowCount()))
	}
	i := dst.splitAt(to.Row)
	dst.items = slices.Insert(dst.items, i, item{node: n})
}

// InsertSection records the insertion of an empty section at the given
// index. Rows inserted into it later in the batch are folded into the
// section entry.
func (t *Tracker) InsertSection(at int) {
	t.ops++
	if at < 0 || at > len(t.sections) {
		panic(fmt.Sprintf("diff: insert section %d out of range (%d sections tracked)", at, len(t.sections)))
	}
	t.sections = slices.Insert(t.sections, at, &sectionShadow{origin: newSection})
}

// RemoveSection records the removal of the section at the given index along
// with all rows it currently holds. Original rows of a pre-existing section
// are folded into the section deletion; pre-existing elements that were
// moved into the section earlier in the batch are recorded as individual
// deletions at their origins.
func (t *Tracker) RemoveSection(at int) {
	t.ops++
	if at < 0 || at >= len(t.sections) {
		panic(fmt.Sprintf("diff: remove section %d out of range (%d sections tracked)", at, len(t.sections)))
	}
	sh := t.sections[at]
	t.sections = slices.Delete(t.sections, at, at+1)

	for _, it := range sh.items {
		if it.node != nil && !it.node.inserted {
			t.deletedRows = append(t.deletedRows, it.node.origin)
		}
	}
	if sh.origin != newSection {
		t.deletedSections.Set(uint(sh.origin))
	}
}

// Freeze resolves the replayed operations into an immutable ChangeSet.
//
// Section-level changes are resolved first: rows whose section was itself
// deleted or inserted are folded into the section entry. Surviving elements
// are classified by origin - an element that was explicitly relocated is a
// move, an element replaced in place at its origin is an update, and an
// element created during the batch is an insertion at its final coordinate.
func (t *Tracker) Freeze() *ChangeSet {
	cs := &ChangeSet{}

	for i, ok := t.deletedSections.NextSet(0); ok; i, ok = t.deletedSections.NextSet(i + 1) {
		cs.DeletedSections = append(cs.DeletedSections, int(i))
	}

	for _, c := range t.deletedRows {
		if !t.deletedSections.Test(uint(c.Section)) {
			cs.DeletedRows = append(cs.DeletedRows, c)
		}
	}
	slices.SortFunc(cs.DeletedRows, Coordinate.Compare)

	for finalSec, sh := range t.sections {
		if sh.origin == newSection {
			cs.InsertedSections = append(cs.InsertedSections, finalSec)
		}
		row := 0
		for _, it := range sh.items {
			if it.node == nil {
				row += it.length
				continue
			}
			n := it.node
			final := Coordinate{Section: finalSec, Row: row}
			switch {
			case n.inserted:
				if sh.origin != newSection {
					cs.InsertedRows = append(cs.InsertedRows, final)
				}
			case n.moved:
				cs.MovedRows = append(cs.MovedRows, Move{From: n.origin, To: final})
			case n.updated:
				cs.UpdatedRows = append(cs.UpdatedRows, n.origin)
			}
			row++
		}
	}
	slices.SortFunc(cs.InsertedRows, Coordinate.Compare)
	slices.SortFunc(cs.UpdatedRows, Coordinate.Compare)

	return cs
}
