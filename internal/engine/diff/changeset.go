package diff

import (
	"fmt"
	"strings"
)

// ChangeSet is the structural difference between two consecutive stable
// arrangements of a sectioned collection. It is produced by Tracker.Freeze
// and must be treated as read-only afterwards.
//
// Section indices in DeletedSections and coordinates in DeletedRows,
// UpdatedRows, and Move.From refer to the pre-batch arrangement. Indices in
// InsertedSections and coordinates in InsertedRows and Move.To refer to the
// post-batch arrangement.
//
// Rows belonging to a deleted section are folded into the section entry and
// never listed individually; the same holds for rows of an inserted section.
type ChangeSet struct {
	// DeletedSections holds pre-batch indices of removed sections, ascending.
	DeletedSections []int

	// InsertedSections holds post-batch indices of new sections, ascending.
	InsertedSections []int

	// DeletedRows holds pre-batch coordinates of removed rows, ascending.
	DeletedRows []Coordinate

	// InsertedRows holds post-batch coordinates of new rows, ascending.
	InsertedRows []Coordinate

	// UpdatedRows holds pre-batch coordinates of rows replaced in place,
	// ascending. An updated row kept its identity across the batch.
	UpdatedRows []Coordinate

	// MovedRows holds surviving rows whose position changed. Order is
	// unspecified.
	MovedRows []Move
}

// IsEmpty reports whether the change-set contains no entries.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.DeletedSections) == 0 &&
		len(cs.InsertedSections) == 0 &&
		len(cs.DeletedRows) == 0 &&
		len(cs.InsertedRows) == 0 &&
		len(cs.UpdatedRows) == 0 &&
		len(cs.MovedRows) == 0
}

// Len returns the total number of entries across all categories.
func (cs *ChangeSet) Len() int {
	return len(cs.DeletedSections) + len(cs.InsertedSections) +
		len(cs.DeletedRows) + len(cs.InsertedRows) +
		len(cs.UpdatedRows) + len(cs.MovedRows)
}

// String returns a compact human-readable summary, listing only non-empty
// categories.
func (cs *ChangeSet) String() string {
	if cs.IsEmpty() {
		return "changeset{}"
	}

	var b strings.Builder
	b.WriteString("changeset{")
	first := true

	section := func(name string, n int) bool {
		if n == 0 {
			return false
		}
		if !first {
			b.WriteString(" ")
		}
		first = false
		b.WriteString(name)
		b.WriteString("=")
		return true
	}

	if section("-sections", len(cs.DeletedSections)) {
		fmt.Fprintf(&b, "%v", cs.DeletedSections)
	}
	if section("+sections", len(cs.InsertedSections)) {
		fmt.Fprintf(&b, "%v", cs.InsertedSections)
	}
	if section("-rows", len(cs.DeletedRows)) {
		writeCoordinates(&b, cs.DeletedRows)
	}
	if section("+rows", len(cs.InsertedRows)) {
		writeCoordinates(&b, cs.InsertedRows)
	}
	if section("~rows", len(cs.UpdatedRows)) {
		writeCoordinates(&b, cs.UpdatedRows)
	}
	if section("moves", len(cs.MovedRows)) {
		b.WriteString("[")
		for i, m := range cs.MovedRows {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(m.String())
		}
		b.WriteString("]")
	}

	b.WriteString("}")
	return b.String()
}

func writeCoordinates(b *strings.Builder, coords []Coordinate) {
	b.WriteString("[")
	for i, c := range coords {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("]")
}
