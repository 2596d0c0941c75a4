package history

import (
	"fmt"

	"github.com/mhaupt/persist/maybe"
	"github.com/mhaupt/persist/vector"
)

// History is an ordered sequence of snapshots of type S with a cursor on the
// current one. The zero value is a valid empty history.
type History[S any] struct {
	snapshots vector.Vector[S]
	pos       int // 1-based cursor position; 0 while empty
}

// New creates an empty history.
func New[S any]() History[S] {
	return History[S]{}
}

// Len returns the number of recorded snapshots.
func (h History[S]) Len() int {
	return h.snapshots.Len()
}

// Current returns the snapshot the cursor points at, if any.
func (h History[S]) Current() maybe.Maybe[S] {
	if h.pos == 0 {
		return maybe.Nothing[S]()
	}
	return maybe.Just(h.at(h.pos - 1))
}

// CanUndo is true if the cursor may move backwards.
func (h History[S]) CanUndo() bool {
	return h.pos > 1
}

// CanRedo is true if the cursor may move forwards.
func (h History[S]) CanRedo() bool {
	return h.pos < h.snapshots.Len()
}

// Record appends snapshot and makes it current. If the cursor was moved
// backwards by Undo, the now-abandoned snapshots behind it are discarded
// first, so a subsequent Redo has nothing to return.
func (h History[S]) Record(snapshot S) History[S] {
	keep := h.snapshots
	if h.pos < keep.Len() {
		tracer().Debugf("dropping %d abandoned snapshots", keep.Len()-h.pos)
		keep = keep.Take(h.pos)
	}
	keep = keep.Push(snapshot)
	return History[S]{snapshots: keep, pos: keep.Len()}
}

// Undo moves the cursor one snapshot backwards and returns the snapshot it
// lands on. At the oldest snapshot it returns Nothing and an unchanged
// history.
func (h History[S]) Undo() (History[S], maybe.Maybe[S]) {
	if !h.CanUndo() {
		return h, maybe.Nothing[S]()
	}
	h.pos--
	return h, maybe.Just(h.at(h.pos - 1))
}

// Redo moves the cursor one snapshot forwards and returns the snapshot it
// lands on. At the newest snapshot it returns Nothing and an unchanged
// history.
func (h History[S]) Redo() (History[S], maybe.Maybe[S]) {
	if !h.CanRedo() {
		return h, maybe.Nothing[S]()
	}
	h.pos++
	return h, maybe.Just(h.at(h.pos - 1))
}

func (h History[S]) at(i int) S {
	s, ok := h.snapshots.Get(i)
	assertThat(ok, "cursor outside of recorded history: %d with length %d", i, h.snapshots.Len())
	return s
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persist.history: "+msg, msgargs...)
		panic(msg)
	}
}
