package list

import (
	"slices"
	"testing"

	"github.com/dshills/sectionlist/internal/engine/diff"
	"github.com/dshills/sectionlist/internal/event"
)

func c(section, row int) diff.Coordinate {
	return diff.Coordinate{Section: section, Row: row}
}

// collector records every event delivered by a list's stream.
type collector struct {
	events []event.Event
}

func collect(t *testing.T, l *List[string]) *collector {
	t.Helper()
	col := &collector{}
	_, err := l.Events().SubscribeFunc(func(ev event.Event) {
		col.events = append(col.events, ev)
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	return col
}

func (col *collector) lastChanges(t *testing.T) *diff.ChangeSet {
	t.Helper()
	if len(col.events) == 0 {
		t.Fatal("no events delivered")
	}
	ev := col.events[len(col.events)-1]
	if ev.Kind != event.KindUpdated {
		t.Fatalf("last event is %v, want updated", ev.Kind)
	}
	return ev.Changes
}

func TestNewList(t *testing.T) {
	l := New[string]()
	if l.SectionCount() != 0 {
		t.Errorf("SectionCount() = %d, want 0", l.SectionCount())
	}

	l = New[string](WithSectionCount(2))
	if l.SectionCount() != 2 {
		t.Errorf("SectionCount() = %d, want 2", l.SectionCount())
	}
	if l.RowCount(0) != 0 || l.RowCount(1) != 0 {
		t.Error("pre-created sections should be empty")
	}
}

func TestNewSeeded(t *testing.T) {
	l := NewSeeded([]Seed[string]{
		{Label: "Fruits", Rows: []string{"apple", "banana"}},
		{Rows: []string{"carrot"}},
	})

	if l.SectionCount() != 2 {
		t.Fatalf("SectionCount() = %d, want 2", l.SectionCount())
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
	if got := l.ElementAt(c(0, 1)); got != "banana" {
		t.Errorf("ElementAt((0,1)) = %q, want %q", got, "banana")
	}

	label, ok := l.SectionLabel(0)
	if !ok || label != "Fruits" {
		t.Errorf("SectionLabel(0) = %q, %v", label, ok)
	}
	if _, ok := l.SectionLabel(1); ok {
		t.Error("unlabeled section should report no label")
	}
}

func TestUnbatchedInsertsEmitOneEventEach(t *testing.T) {
	// Three separate inserts of 1, 2, 3 at (0,0): three Updated events,
	// each with insertedRows {(0,0)}; final order [3,2,1].
	l := New[string](WithSectionCount(1))
	col := collect(t, l)

	l.Insert("1", c(0, 0))
	l.Insert("2", c(0, 0))
	l.Insert("3", c(0, 0))

	if len(col.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(col.events))
	}
	for i, ev := range col.events {
		if ev.Kind != event.KindUpdated {
			t.Fatalf("event %d kind = %v, want updated", i, ev.Kind)
		}
		if !slices.Equal(ev.Changes.InsertedRows, []diff.Coordinate{c(0, 0)}) {
			t.Errorf("event %d InsertedRows = %v, want [(0,0)]", i, ev.Changes.InsertedRows)
		}
	}

	if got := l.SectionRows(0); !slices.Equal(got, []string{"3", "2", "1"}) {
		t.Errorf("final order = %v, want [3 2 1]", got)
	}
}

func TestBatchedInsertsCoalesce(t *testing.T) {
	// One batch inserting 1@(0,0), 2@(0,1), 3@(0,0), 4@(0,1): one event,
	// insertedRows {(0,0)..(0,3)}; final order [3,4,1,2].
	l := New[string](WithSectionCount(1))
	col := collect(t, l)

	l.Batch(func() {
		l.Insert("1", c(0, 0))
		l.Insert("2", c(0, 1))
		l.Insert("3", c(0, 0))
		l.Insert("4", c(0, 1))
	})

	if len(col.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(col.events))
	}
	cs := col.lastChanges(t)
	want := []diff.Coordinate{c(0, 0), c(0, 1), c(0, 2), c(0, 3)}
	if !slices.Equal(cs.InsertedRows, want) {
		t.Errorf("InsertedRows = %v, want %v", cs.InsertedRows, want)
	}

	if got := l.SectionRows(0); !slices.Equal(got, []string{"3", "4", "1", "2"}) {
		t.Errorf("final order = %v, want [3 4 1 2]", got)
	}
}

func TestBatchedRemovalsReportOrigins(t *testing.T) {
	// Collection [0,1,2,3]; one batch removing the elements originally at
	// rows 0 and 1: final [2,3], deletedRows at pre-batch coordinates.
	l := NewSeeded([]Seed[string]{{Rows: []string{"0", "1", "2", "3"}}})
	col := collect(t, l)

	l.Batch(func() {
		l.Remove(c(0, 0))
		l.Remove(c(0, 0))
	})

	if len(col.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(col.events))
	}
	cs := col.lastChanges(t)
	want := []diff.Coordinate{c(0, 0), c(0, 1)}
	if !slices.Equal(cs.DeletedRows, want) {
		t.Errorf("DeletedRows = %v, want %v", cs.DeletedRows, want)
	}

	if got := l.SectionRows(0); !slices.Equal(got, []string{"2", "3"}) {
		t.Errorf("final order = %v, want [2 3]", got)
	}
}

func TestInsertThenRemoveCancels(t *testing.T) {
	l := NewSeeded([]Seed[string]{{Rows: []string{"a"}}})
	col := collect(t, l)

	l.Batch(func() {
		l.Insert("x", c(0, 1))
		l.Remove(c(0, 1))
	})

	if len(col.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(col.events))
	}
	if cs := col.lastChanges(t); !cs.IsEmpty() {
		t.Errorf("expected empty change-set, got %v", cs)
	}
	if got := l.SectionRows(0); !slices.Equal(got, []string{"a"}) {
		t.Errorf("collection changed: %v", got)
	}
}

func TestRemoveReturnsElement(t *testing.T) {
	l := NewSeeded([]Seed[string]{{Rows: []string{"a", "b"}}})

	if got := l.Remove(c(0, 1)); got != "b" {
		t.Errorf("Remove((0,1)) = %q, want %q", got, "b")
	}
	if l.RowCount(0) != 1 {
		t.Errorf("RowCount(0) = %d, want 1", l.RowCount(0))
	}
}

func TestReplaceKeepsIdentity(t *testing.T) {
	l := NewSeeded([]Seed[string]{{Rows: []string{"a", "b"}}})
	col := collect(t, l)

	l.Replace(c(0, 1), "B")

	cs := col.lastChanges(t)
	if !slices.Equal(cs.UpdatedRows, []diff.Coordinate{c(0, 1)}) {
		t.Errorf("UpdatedRows = %v, want [(0,1)]", cs.UpdatedRows)
	}
	if got := l.ElementAt(c(0, 1)); got != "B" {
		t.Errorf("ElementAt((0,1)) = %q, want %q", got, "B")
	}
}

func TestRemoveInsertIsNotUpdate(t *testing.T) {
	// A fresh element in the same slot is a new identity: an independent
	// delete+insert pair, never an update.
	l := NewSeeded([]Seed[string]{{Rows: []string{"a", "b"}}})
	col := collect(t, l)

	l.Batch(func() {
		l.Remove(c(0, 0))
		l.Insert("A", c(0, 0))
	})

	cs := col.lastChanges(t)
	if len(cs.UpdatedRows) != 0 {
		t.Errorf("UpdatedRows = %v, want none", cs.UpdatedRows)
	}
	if !slices.Equal(cs.DeletedRows, []diff.Coordinate{c(0, 0)}) {
		t.Errorf("DeletedRows = %v, want [(0,0)]", cs.DeletedRows)
	}
	if !slices.Equal(cs.InsertedRows, []diff.Coordinate{c(0, 0)}) {
		t.Errorf("InsertedRows = %v, want [(0,0)]", cs.InsertedRows)
	}
}

func TestMoveAcrossSections(t *testing.T) {
	l := NewSeeded([]Seed[string]{
		{Rows: []string{"a", "b"}},
		{Rows: []string{"x"}},
	})
	col := collect(t, l)

	l.Move(c(0, 0), c(1, 1))

	cs := col.lastChanges(t)
	want := diff.Move{From: c(0, 0), To: c(1, 1)}
	if len(cs.MovedRows) != 1 || cs.MovedRows[0] != want {
		t.Errorf("MovedRows = %v, want [%v]", cs.MovedRows, want)
	}
	if got := l.SectionRows(1); !slices.Equal(got, []string{"x", "a"}) {
		t.Errorf("section 1 = %v, want [x a]", got)
	}
}

func TestReadsObserveIntermediateState(t *testing.T) {
	l := NewSeeded([]Seed[string]{{Rows: []string{"a"}}})

	l.Batch(func() {
		l.Insert("b", c(0, 0))
		if got := l.ElementAt(c(0, 0)); got != "b" {
			t.Errorf("mid-batch ElementAt((0,0)) = %q, want %q", got, "b")
		}
		if got := l.RowCount(0); got != 2 {
			t.Errorf("mid-batch RowCount(0) = %d, want 2", got)
		}
	})
}

func TestSectionMutations(t *testing.T) {
	l := NewSeeded([]Seed[string]{{Label: "first", Rows: []string{"a"}}})
	col := collect(t, l)

	l.Batch(func() {
		l.InsertSection(1, "second")
		l.Insert("x", c(1, 0))
	})

	cs := col.lastChanges(t)
	if !slices.Equal(cs.InsertedSections, []int{1}) {
		t.Errorf("InsertedSections = %v, want [1]", cs.InsertedSections)
	}
	if len(cs.InsertedRows) != 0 {
		t.Errorf("rows of an inserted section must fold, got %v", cs.InsertedRows)
	}

	label, ok := l.SectionLabel(1)
	if !ok || label != "second" {
		t.Errorf("SectionLabel(1) = %q, %v", label, ok)
	}

	l.RemoveSection(0)
	cs = col.lastChanges(t)
	if !slices.Equal(cs.DeletedSections, []int{0}) {
		t.Errorf("DeletedSections = %v, want [0]", cs.DeletedSections)
	}
	if l.SectionCount() != 1 {
		t.Errorf("SectionCount() = %d, want 1", l.SectionCount())
	}
}

func TestResetEmitsReloaded(t *testing.T) {
	l := NewSeeded([]Seed[string]{{Rows: []string{"a"}}})
	col := collect(t, l)

	l.Reset([]Seed[string]{
		{Label: "new", Rows: []string{"x", "y"}},
	})

	if len(col.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(col.events))
	}
	if col.events[0].Kind != event.KindReloaded {
		t.Errorf("event kind = %v, want reloaded", col.events[0].Kind)
	}
	if col.events[0].Changes != nil {
		t.Error("a Reloaded event must not carry a change-set")
	}
	if got := l.SectionRows(0); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("contents after reset = %v, want [x y]", got)
	}
}

func TestResetInsideBatchPanics(t *testing.T) {
	l := New[string](WithSectionCount(1))

	defer func() {
		if recover() == nil {
			t.Error("expected panic from Reset inside a batch")
		}
	}()
	l.Batch(func() {
		l.Reset(nil)
	})
}

func TestOutOfRangePanics(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	l := NewSeeded([]Seed[string]{{Rows: []string{"a"}}})
	expectPanic("element read", func() { l.ElementAt(c(0, 1)) })
	expectPanic("section read", func() { l.RowCount(1) })
	expectPanic("insert", func() { l.Insert("x", c(0, 2)) })
	expectPanic("remove", func() { l.Remove(c(1, 0)) })
	expectPanic("replace", func() { l.Replace(c(0, 1), "x") })
	expectPanic("move", func() { l.Move(c(0, 0), c(0, 2)) })
	expectPanic("insert section", func() { l.InsertSection(3, "") })
	expectPanic("remove section", func() { l.RemoveSection(1) })
}
