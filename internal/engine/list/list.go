package list

import (
	"fmt"
	"slices"

	"github.com/dshills/sectionlist/internal/engine/diff"
	"github.com/dshills/sectionlist/internal/event"
)

// node holds one stored element. The node, not the value, is the element's
// identity: Replace mutates the node in place, Remove discards it.
type node[T any] struct {
	value T
}

// section is one ordered group of rows.
type section[T any] struct {
	label string
	rows  []*node[T]
}

// Seed describes one section's initial contents.
type Seed[T any] struct {
	Label string
	Rows  []T
}

// List is a section-aware ordered collection. The zero value is not usable;
// create lists with New or NewSeeded.
type List[T any] struct {
	sections []*section[T]
	stream   *event.Stream

	tracker *diff.Tracker
	depth   int
}

// New creates a list. Without options the list has no sections; row
// mutations require at least one section, so most callers pass WithSections
// or WithSectionCount.
func New[T any](opts ...Option) *List[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &List[T]{
		stream: event.NewStream(event.WithSource(cfg.source)),
	}
	for _, label := range cfg.labels {
		l.sections = append(l.sections, &section[T]{label: label})
	}
	return l
}

// NewSeeded creates a list pre-populated with the given sections. Seeding at
// construction emits no event.
func NewSeeded[T any](seed []Seed[T], opts ...Option) *List[T] {
	l := New[T](opts...)
	l.sections = buildSections(seed)
	return l
}

func buildSections[T any](seed []Seed[T]) []*section[T] {
	sections := make([]*section[T], 0, len(seed))
	for _, s := range seed {
		sec := &section[T]{label: s.Label, rows: make([]*node[T], 0, len(s.Rows))}
		for _, v := range s.Rows {
			sec.rows = append(sec.rows, &node[T]{value: v})
		}
		sections = append(sections, sec)
	}
	return sections
}

// Events returns the list's change event stream.
func (l *List[T]) Events() *event.Stream {
	return l.stream
}

// Read operations

// SectionCount returns the number of sections.
func (l *List[T]) SectionCount() int {
	return len(l.sections)
}

// RowCount returns the number of rows in a section.
func (l *List[T]) RowCount(sec int) int {
	return len(l.sectionAt(sec).rows)
}

// Len returns the total number of rows across all sections.
func (l *List[T]) Len() int {
	n := 0
	for _, s := range l.sections {
		n += len(s.rows)
	}
	return n
}

// ElementAt returns the element at the given coordinate.
func (l *List[T]) ElementAt(at diff.Coordinate) T {
	sec := l.sectionAt(at.Section)
	if at.Row < 0 || at.Row >= len(sec.rows) {
		panic(fmt.Sprintf("list: coordinate %v out of range (section has %d rows)", at, len(sec.rows)))
	}
	return sec.rows[at.Row].value
}

// SectionLabel returns the label of a section. The second return value is
// false when the section has no label.
func (l *List[T]) SectionLabel(sec int) (string, bool) {
	label := l.sectionAt(sec).label
	return label, label != ""
}

// SectionRows returns a copy of a section's values in order.
func (l *List[T]) SectionRows(sec int) []T {
	rows := l.sectionAt(sec).rows
	out := make([]T, len(rows))
	for i, n := range rows {
		out[i] = n.value
	}
	return out
}

// Write operations

// Insert inserts a new element at the given coordinate. at.Row may equal the
// section's row count to append.
func (l *List[T]) Insert(value T, at diff.Coordinate) {
	l.mutate(func() { l.insert(value, at) })
}

// Remove removes and returns the element at the given coordinate.
func (l *List[T]) Remove(at diff.Coordinate) T {
	var v T
	l.mutate(func() { v = l.remove(at) })
	return v
}

// Replace replaces the element value at the given coordinate in place. The
// occupant keeps its identity, so the change is reported as an update.
func (l *List[T]) Replace(at diff.Coordinate, value T) {
	l.mutate(func() { l.replace(at, value) })
}

// Move relocates the element at from to the coordinate to, where to is
// interpreted against the arrangement after the element has been detached.
func (l *List[T]) Move(from, to diff.Coordinate) {
	l.mutate(func() { l.move(from, to) })
}

// InsertSection inserts an empty section at the given index. at may equal
// the section count to append.
func (l *List[T]) InsertSection(at int, label string) {
	l.mutate(func() { l.insertSection(at, label) })
}

// RemoveSection removes the section at the given index along with all rows
// it holds.
func (l *List[T]) RemoveSection(at int) {
	l.mutate(func() { l.removeSection(at) })
}

// Reset replaces the entire contents and emits a single Reloaded event.
// Consumers must discard all cached layout. Reset cannot be called inside an
// open batch.
func (l *List[T]) Reset(seed []Seed[T]) {
	if l.depth > 0 {
		panic("list: Reset inside an open batch")
	}
	l.sections = buildSections(seed)
	l.stream.PublishReloaded()
}

// Internal mutation bodies. Each validates against the live collection
// before touching either the storage or the tracker, so a precondition
// panic leaves both consistent.

func (l *List[T]) insert(value T, at diff.Coordinate) {
	sec := l.sectionAt(at.Section)
	if at.Row < 0 || at.Row > len(sec.rows) {
		panic(fmt.Sprintf("list: insert at %v out of range (section has %d rows)", at, len(sec.rows)))
	}
	sec.rows = slices.Insert(sec.rows, at.Row, &node[T]{value: value})
	l.tracker.InsertRow(at)
}

func (l *List[T]) remove(at diff.Coordinate) T {
	sec := l.sectionAt(at.Section)
	if at.Row < 0 || at.Row >= len(sec.rows) {
		panic(fmt.Sprintf("list: remove at %v out of range (section has %d rows)", at, len(sec.rows)))
	}
	v := sec.rows[at.Row].value
	sec.rows = slices.Delete(sec.rows, at.Row, at.Row+1)
	l.tracker.RemoveRow(at)
	return v
}

func (l *List[T]) replace(at diff.Coordinate, value T) {
	sec := l.sectionAt(at.Section)
	if at.Row < 0 || at.Row >= len(sec.rows) {
		panic(fmt.Sprintf("list: replace at %v out of range (section has %d rows)", at, len(sec.rows)))
	}
	sec.rows[at.Row].value = value
	l.tracker.ReplaceRow(at)
}

func (l *List[T]) move(from, to diff.Coordinate) {
	src := l.sectionAt(from.Section)
	if from.Row < 0 || from.Row >= len(src.rows) {
		panic(fmt.Sprintf("list: move from %v out of range (section has %d rows)", from, len(src.rows)))
	}
	n := src.rows[from.Row]
	src.rows = slices.Delete(src.rows, from.Row, from.Row+1)

	dst := l.sectionAt(to.Section)
	if to.Row < 0 || to.Row > len(dst.rows) {
		panic(fmt.Sprintf("list: move to %v out of range (section has %d rows)", to, len(dst.rows)))
	}
	dst.rows = slices.Insert(dst.rows, to.Row, n)
	l.tracker.MoveRow(from, to)
}

func (l *List[T]) insertSection(at int, label string) {
	if at < 0 || at > len(l.sections) {
		panic(fmt.Sprintf("list: insert section %d out of range (%d sections)", at, len(l.sections)))
	}
	l.sections = slices.Insert(l.sections, at, &section[T]{label: label})
	l.tracker.InsertSection(at)
}

func (l *List[T]) removeSection(at int) {
	if at < 0 || at >= len(l.sections) {
		panic(fmt.Sprintf("list: remove section %d out of range (%d sections)", at, len(l.sections)))
	}
	l.sections = slices.Delete(l.sections, at, at+1)
	l.tracker.RemoveSection(at)
}

func (l *List[T]) sectionAt(idx int) *section[T] {
	if idx < 0 || idx >= len(l.sections) {
		panic(fmt.Sprintf("list: section %d out of range (%d sections)", idx, len(l.sections)))
	}
	return l.sections[idx]
}
