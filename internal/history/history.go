// Package history keeps one level of undo and one level of redo.
//
// The history is a three-state machine:
//
//	Clean    no undo, no redo
//	Dirty    undo available, redo empty
//	PostUndo redo available, undo empty
//
// Snapshot moves any state to Dirty and discards the redo slot. Undo moves Dirty to
// PostUndo and Redo moves PostUndo back to Dirty.
package history

import "errors"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// State is the position of the history in its state machine.
type State int

const (
	Clean State = iota
	Dirty
	PostUndo
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case PostUndo:
		return "post-undo"
	default:
		return "unknown"
	}
}

// History holds the two slots. S is a full snapshot of the editing state; the caller is
// responsible for passing copies that share nothing with live state.
type History[S any] struct {
	undo  *S
	redo  *S
	state State
}

// New returns a clean history.
func New[S any]() *History[S] {
	return &History[S]{}
}

// Restore rebuilds a history from saved slots. At most one slot may be set.
func Restore[S any](undo, redo *S) (*History[S], error) {
	h := &History[S]{undo: undo, redo: redo}
	switch {
	case undo != nil && redo != nil:
		return nil, errors.New("history: undo and redo slots cannot both be set")
	case undo != nil:
		h.state = Dirty
	case redo != nil:
		h.state = PostUndo
	}
	return h, nil
}

// State returns the current state.
func (h *History[S]) State() State {
	return h.state
}

// CanUndo reports whether Undo would succeed.
func (h *History[S]) CanUndo() bool {
	return h.state == Dirty
}

// CanRedo reports whether Redo would succeed.
func (h *History[S]) CanRedo() bool {
	return h.state == PostUndo
}

// Snapshot stores s as the undo target and clears the redo slot.
func (h *History[S]) Snapshot(s S) {
	h.undo = &s
	h.redo = nil
	h.state = Dirty
}

// Undo stores current as the redo target and returns the undo target.
func (h *History[S]) Undo(current S) (S, error) {
	if h.state != Dirty {
		var zero S
		return zero, ErrNothingToUndo
	}
	prev := *h.undo
	h.redo = &current
	h.undo = nil
	h.state = PostUndo
	return prev, nil
}

// Redo stores current as the undo target and returns the redo target.
func (h *History[S]) Redo(current S) (S, error) {
	if h.state != PostUndo {
		var zero S
		return zero, ErrNothingToRedo
	}
	next := *h.redo
	h.undo = &current
	h.redo = nil
	h.state = Dirty
	return next, nil
}

// Slots returns the stored snapshots for persistence.
func (h *History[S]) Slots() (undo, redo *S) {
	return h.undo, h.redo
}
