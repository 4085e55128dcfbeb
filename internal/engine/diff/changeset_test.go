package diff

import (
	"strings"
	"testing"
)

func TestCoordinateCompare(t *testing.T) {
	cases := []struct {
		a, b Coordinate
		want int
	}{
		{c(0, 0), c(0, 0), 0},
		{c(0, 1), c(0, 2), -1},
		{c(0, 5), c(1, 0), -1},
		{c(2, 0), c(1, 9), 1},
	}
	for _, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCoordinateString(t *testing.T) {
	if got := c(1, 4).String(); got != "(1,4)" {
		t.Errorf("String() = %q, want %q", got, "(1,4)")
	}
}

func TestMoveString(t *testing.T) {
	m := Move{From: c(0, 1), To: c(2, 0)}
	if got := m.String(); got != "(0,1)->(2,0)" {
		t.Errorf("String() = %q, want %q", got, "(0,1)->(2,0)")
	}
}

func TestChangeSetEmpty(t *testing.T) {
	cs := &ChangeSet{}
	if !cs.IsEmpty() {
		t.Error("zero change-set should be empty")
	}
	if cs.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cs.Len())
	}
	if got := cs.String(); got != "changeset{}" {
		t.Errorf("String() = %q, want %q", got, "changeset{}")
	}
}

func TestChangeSetString(t *testing.T) {
	cs := &ChangeSet{
		DeletedSections: []int{1},
		InsertedRows:    []Coordinate{c(0, 0), c(0, 2)},
		MovedRows:       []Move{{From: c(0, 1), To: c(0, 3)}},
	}

	got := cs.String()
	for _, want := range []string{"-sections=[1]", "+rows=[(0,0) (0,2)]", "moves=[(0,1)->(0,3)]"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "-rows") || strings.Contains(got, "~rows") {
		t.Errorf("String() = %q, lists empty categories", got)
	}
}
