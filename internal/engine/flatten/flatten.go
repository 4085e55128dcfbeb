package flatten

import (
	"fmt"
	"sort"

	"github.com/dshills/sectionlist/internal/engine/diff"
)

// Layout is the closed set of per-section slot arrangements.
type Layout int

const (
	// LayoutPlain flattens rows only.
	LayoutPlain Layout = iota

	// LayoutHeader reserves one leading slot per section for a header
	// pseudo-row.
	LayoutHeader

	// LayoutHeaderFooter reserves a leading header slot and a trailing
	// footer slot per section.
	LayoutHeaderFooter
)

// String returns a human-readable layout name.
func (l Layout) String() string {
	switch l {
	case LayoutPlain:
		return "plain"
	case LayoutHeader:
		return "header"
	case LayoutHeaderFooter:
		return "header+footer"
	default:
		return "unknown"
	}
}

// headerSlots returns the number of leading pseudo-row slots per section.
func (l Layout) headerSlots() int {
	if l == LayoutPlain {
		return 0
	}
	return 1
}

// footerSlots returns the number of trailing pseudo-row slots per section.
func (l Layout) footerSlots() int {
	if l == LayoutHeaderFooter {
		return 1
	}
	return 0
}

// Range is one section's half-open interval [Start, End) in the flat index
// space, covering its pseudo-row slots and rows.
type Range struct {
	Start int
	End   int
}

// Len returns the number of slots in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether the flat index falls inside the range.
func (r Range) Contains(flat int) bool {
	return flat >= r.Start && flat < r.End
}

// Table is an ordered range table, one range per section.
type Table []Range

// Source is the sectioned layout a Flattener flattens. A list satisfies it
// directly.
type Source interface {
	SectionCount() int
	RowCount(section int) int
}

// Flattener translates between sectioned coordinates and the flat index
// space. It is single-writer, like the collection it mirrors.
type Flattener struct {
	src    Source
	layout Layout
	ranges Table
}

// New creates a flattener over src and computes the initial range table.
func New(src Source, layout Layout) *Flattener {
	f := &Flattener{src: src, layout: layout}
	f.RecomputeRanges()
	return f
}

// Layout returns the flattener's layout variant.
func (f *Flattener) Layout() Layout {
	return f.layout
}

// Ranges returns a copy of the current range table.
func (f *Flattener) Ranges() Table {
	out := make(Table, len(f.ranges))
	copy(out, f.ranges)
	return out
}

// RecomputeRanges rebuilds the range table from the source's current layout
// and returns the previous table. Cost is proportional to the section
// count.
//
// Callers translating a change-set must use the returned table for
// deletions and updates (pre-batch coordinates), and the recomputed table
// for insertions (post-batch coordinates).
func (f *Flattener) RecomputeRanges() Table {
	prev := f.ranges

	extra := f.layout.headerSlots() + f.layout.footerSlots()
	sections := f.src.SectionCount()
	ranges := make(Table, sections)
	pos := 0
	for i := 0; i < sections; i++ {
		end := pos + extra + f.src.RowCount(i)
		ranges[i] = Range{Start: pos, End: end}
		pos = end
	}
	f.ranges = ranges

	return prev
}

// FlattenedRowCount returns the total number of flat slots, pseudo-rows
// included.
func (f *Flattener) FlattenedRowCount() int {
	if len(f.ranges) == 0 {
		return 0
	}
	return f.ranges[len(f.ranges)-1].End
}

// FlattenedIndex translates a coordinate using the current range table.
func (f *Flattener) FlattenedIndex(c diff.Coordinate) int {
	return FlattenedIndexIn(f.ranges, f.layout, c)
}

// FlattenedIndexIn translates a coordinate using an explicit range table,
// typically the previous table returned by RecomputeRanges. It panics on an
// out-of-range coordinate.
func FlattenedIndexIn(table Table, layout Layout, c diff.Coordinate) int {
	if c.Section < 0 || c.Section >= len(table) {
		panic(fmt.Sprintf("flatten: section %d out of range (%d sections)", c.Section, len(table)))
	}
	r := table[c.Section]
	rows := r.Len() - layout.headerSlots() - layout.footerSlots()
	if c.Row < 0 || c.Row >= rows {
		panic(fmt.Sprintf("flatten: coordinate %v out of range (section has %d rows)", c, rows))
	}
	return r.Start + layout.headerSlots() + c.Row
}

// CoordinateOf translates a flat index back to a coordinate. It panics when
// the index is out of range or addresses a header or footer pseudo-row;
// callers present pseudo-row slots through HasHeaderRow and HasFooterRow
// instead.
func (f *Flattener) CoordinateOf(flat int) diff.Coordinate {
	sec := f.sectionOf(flat)
	r := f.ranges[sec]
	row := flat - r.Start - f.layout.headerSlots()
	if row < 0 || flat >= r.End-f.layout.footerSlots() {
		panic(fmt.Sprintf("flatten: flat index %d is a pseudo-row slot of section %d", flat, sec))
	}
	return diff.Coordinate{Section: sec, Row: row}
}

// HasHeaderRow reports whether the flat index addresses a section's header
// pseudo-row.
func (f *Flattener) HasHeaderRow(flat int) bool {
	if f.layout.headerSlots() == 0 || flat < 0 || flat >= f.FlattenedRowCount() {
		return false
	}
	return f.ranges[f.sectionOf(flat)].Start == flat
}

// HasFooterRow reports whether the flat index addresses a section's footer
// pseudo-row.
func (f *Flattener) HasFooterRow(flat int) bool {
	if f.layout.footerSlots() == 0 || flat < 0 || flat >= f.FlattenedRowCount() {
		return false
	}
	return f.ranges[f.sectionOf(flat)].End-1 == flat
}

// SectionOf returns the section whose range contains the flat index.
func (f *Flattener) SectionOf(flat int) int {
	return f.sectionOf(flat)
}

// sectionOf locates the range containing flat, panicking when flat is
// outside the table.
func (f *Flattener) sectionOf(flat int) int {
	if flat < 0 || flat >= f.FlattenedRowCount() {
		panic(fmt.Sprintf("flatten: flat index %d out of range (%d slots)", flat, f.FlattenedRowCount()))
	}
	// First range whose End exceeds flat. Ranges are contiguous, so it
	// contains flat.
	return sort.Search(len(f.ranges), func(i int) bool {
		return f.ranges[i].End > flat
	})
}
