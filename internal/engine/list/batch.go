package list

import "github.com/dshills/sectionlist/internal/engine/diff"

// Batch runs body synchronously on the caller's goroutine and coalesces
// every mutation issued inside it into a single change event, emitted when
// the outermost batch closes. Mutations apply immediately to the live
// collection, so reads inside body observe intermediate state.
//
// Batch is reentrant: a Batch invoked while one is already open is
// flattened into the outer batch, and only the outermost close computes a
// diff and emits an event.
//
// If body panics, the batch is aborted: no event is emitted, the panic is
// propagated, and mutations already applied are not rolled back.
func (l *List[T]) Batch(body func()) {
	l.begin()
	defer func() {
		if r := recover(); r != nil {
			l.abort()
			panic(r)
		}
		l.finish()
	}()
	body()
}

// mutate runs a single mutation, wrapping it in an implicit batch when none
// is open.
func (l *List[T]) mutate(op func()) {
	if l.depth > 0 {
		op()
		return
	}
	l.Batch(op)
}

// begin opens a batch scope, snapshotting the section layout on the
// outermost open.
func (l *List[T]) begin() {
	l.depth++
	if l.depth > 1 {
		return
	}
	counts := make([]int, len(l.sections))
	for i, s := range l.sections {
		counts[i] = len(s.rows)
	}
	l.tracker = diff.NewTracker(counts)
}

// finish closes a batch scope. Closing the outermost scope freezes the
// change-set and delivers exactly one Updated event, even when the
// change-set is empty.
func (l *List[T]) finish() {
	l.depth--
	if l.depth > 0 {
		return
	}
	tr := l.tracker
	l.tracker = nil
	l.stream.PublishUpdated(tr.Freeze())
}

// abort closes a batch scope without emitting. The change-set in progress
// is discarded.
func (l *List[T]) abort() {
	l.depth--
	if l.depth > 0 {
		return
	}
	l.tracker = nil
}
