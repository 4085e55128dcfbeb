package diff

import "fmt"

// Coordinate identifies an element's position as a (section, row) pair.
// Both components are zero-based.
type Coordinate struct {
	Section int
	Row     int
}

// String returns the coordinate in "(section,row)" form.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Section, c.Row)
}

// Compare orders coordinates by section, then by row.
// It returns -1, 0, or +1.
func (c Coordinate) Compare(other Coordinate) int {
	switch {
	case c.Section < other.Section:
		return -1
	case c.Section > other.Section:
		return 1
	case c.Row < other.Row:
		return -1
	case c.Row > other.Row:
		return 1
	default:
		return 0
	}
}

// Move records an element relocated from one coordinate to another within a
// single batch. From is a pre-batch coordinate, To a post-batch coordinate.
type Move struct {
	From Coordinate
	To   Coordinate
}

// String returns the move in "(s,r)->(s,r)" form.
func (m Move) String() string {
	return m.From.String() + "->" + m.To.String()
}
