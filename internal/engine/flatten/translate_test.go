package flatten

import (
	"slices"
	"testing"

	"github.com/dshills/sectionlist/internal/engine/diff"
)

func expectFlat(t *testing.T, name string, got, want []int) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestTranslateEmptyChangeSet(t *testing.T) {
	f := New(&fakeSource{rows: []int{2}}, LayoutPlain)
	fc := f.Translate(&diff.ChangeSet{})
	if !fc.IsEmpty() {
		t.Errorf("translated empty change-set is not empty: %+v", fc)
	}
}

func TestTranslateRowChanges(t *testing.T) {
	// Plain layout, one section. Delete row 1, insert the post-batch rows
	// 0 and 2, update row 2.
	src := &fakeSource{rows: []int{3}}
	f := New(src, LayoutPlain)

	src.rows = []int{4}
	fc := f.Translate(&diff.ChangeSet{
		DeletedRows:  []diff.Coordinate{c(0, 1)},
		InsertedRows: []diff.Coordinate{c(0, 0), c(0, 2)},
		UpdatedRows:  []diff.Coordinate{c(0, 2)},
	})

	expectFlat(t, "Deleted", fc.Deleted, []int{1})
	expectFlat(t, "Inserted", fc.Inserted, []int{0, 2})
	expectFlat(t, "Updated", fc.Updated, []int{2})
}

func TestTranslateUsesPreAndPostTables(t *testing.T) {
	// Header layout, sections shrink from [2 3] to [3]: section 1 is
	// deleted and a row is appended to section 0. Deletions resolve
	// against the pre-batch table, insertions against the recomputed one.
	src := &fakeSource{rows: []int{2, 3}}
	f := New(src, LayoutHeader)

	src.rows = []int{3}
	fc := f.Translate(&diff.ChangeSet{
		DeletedSections: []int{1},
		InsertedRows:    []diff.Coordinate{c(0, 2)},
	})

	// Section 1 previously spanned slots 3..6, header included.
	expectFlat(t, "Deleted", fc.Deleted, []int{3, 4, 5, 6})
	expectFlat(t, "Inserted", fc.Inserted, []int{3})
}

func TestTranslateInsertedSectionIncludesPseudoRows(t *testing.T) {
	src := &fakeSource{rows: []int{2}}
	f := New(src, LayoutHeaderFooter)

	src.rows = []int{2, 1}
	fc := f.Translate(&diff.ChangeSet{InsertedSections: []int{1}})

	// New section 1 spans slots 4..6: header, row, footer.
	expectFlat(t, "Inserted", fc.Inserted, []int{4, 5, 6})
	expectFlat(t, "Deleted", fc.Deleted, nil)
}

func TestTranslateMoves(t *testing.T) {
	// Plain layout. An element moves from (0,0) to (1,1) while section 0
	// shrinks, so From resolves in the old flat space and To in the new.
	src := &fakeSource{rows: []int{2, 2}}
	f := New(src, LayoutPlain)

	src.rows = []int{1, 3}
	fc := f.Translate(&diff.ChangeSet{
		MovedRows: []diff.Move{{From: c(0, 0), To: c(1, 1)}},
	})

	if len(fc.Moved) != 1 {
		t.Fatalf("Moved has %d entries, want 1", len(fc.Moved))
	}
	if fc.Moved[0] != (FlatMove{From: 0, To: 2}) {
		t.Errorf("Moved[0] = %+v, want {From:0 To:2}", fc.Moved[0])
	}
}

func TestTranslateSortsOutput(t *testing.T) {
	src := &fakeSource{rows: []int{3, 3}}
	f := New(src, LayoutPlain)

	src.rows = []int{3, 3}
	fc := f.Translate(&diff.ChangeSet{
		DeletedRows:  []diff.Coordinate{c(0, 2), c(1, 1)},
		InsertedRows: []diff.Coordinate{c(0, 2), c(1, 1)},
	})

	if !slices.IsSorted(fc.Deleted) || !slices.IsSorted(fc.Inserted) {
		t.Errorf("translated indices are not sorted: %+v", fc)
	}
}

func TestReloadRebuildsTable(t *testing.T) {
	src := &fakeSource{rows: []int{1}}
	f := New(src, LayoutHeader)

	src.rows = []int{4, 2}
	f.Reload()

	if got := f.FlattenedRowCount(); got != 8 {
		t.Errorf("FlattenedRowCount() after reload = %d, want 8", got)
	}
	if got := f.FlattenedIndex(c(1, 0)); got != 6 {
		t.Errorf("FlattenedIndex((1,0)) after reload = %d, want 6", got)
	}
}
