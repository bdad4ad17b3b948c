package history

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type doc struct {
	Text string
	Tags []string
}

func TestNew_Clean(t *testing.T) {
	h := New[doc]()
	if h.State() != Clean || h.CanUndo() || h.CanRedo() {
		t.Fatalf("new history state = %v", h.State())
	}
	if _, err := h.Undo(doc{}); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("got %v", err)
	}
	if _, err := h.Redo(doc{}); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("got %v", err)
	}
}

func TestUndoRedoSymmetry(t *testing.T) {
	h := New[doc]()
	before := doc{Text: "a", Tags: []string{"x"}}
	after := doc{Text: "b", Tags: []string{"x", "y"}}

	h.Snapshot(before)
	if h.State() != Dirty {
		t.Fatalf("state = %v, want dirty", h.State())
	}

	got, err := h.Undo(after)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, got); diff != "" {
		t.Fatalf("undo mismatch (-want +got):\n%s", diff)
	}
	if h.State() != PostUndo {
		t.Fatalf("state = %v, want post-undo", h.State())
	}
	if _, err := h.Undo(got); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("second undo should fail, got %v", err)
	}

	got, err = h.Redo(got)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(after, got); diff != "" {
		t.Fatalf("redo mismatch (-want +got):\n%s", diff)
	}
	if h.State() != Dirty {
		t.Fatalf("state = %v, want dirty", h.State())
	}

	// Undo is available again after redo and returns the pre-redo state.
	got, err = h.Undo(got)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, got); diff != "" {
		t.Fatalf("undo after redo mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotAfterUndoClearsRedo(t *testing.T) {
	h := New[doc]()
	h.Snapshot(doc{Text: "1"})
	cur, _ := h.Undo(doc{Text: "2"})
	h.Snapshot(cur)
	if h.CanRedo() {
		t.Fatal("snapshot must discard the redo slot")
	}
	if _, redo := h.Slots(); redo != nil {
		t.Fatalf("redo slot = %+v", redo)
	}
	if _, err := h.Redo(doc{}); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("got %v", err)
	}
}

func TestSnapshotReplacesUndoSlot(t *testing.T) {
	h := New[doc]()
	h.Snapshot(doc{Text: "1"})
	h.Snapshot(doc{Text: "2"})
	got, err := h.Undo(doc{Text: "3"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "2" {
		t.Fatalf("only one level is kept, got %q", got.Text)
	}
}

func TestRestore(t *testing.T) {
	u := &doc{Text: "u"}
	h, err := Restore[doc](u, nil)
	if err != nil {
		t.Fatal(err)
	}
	if h.State() != Dirty {
		t.Fatalf("state = %v", h.State())
	}
	h, err = Restore[doc](nil, u)
	if err != nil {
		t.Fatal(err)
	}
	if h.State() != PostUndo {
		t.Fatalf("state = %v", h.State())
	}
	h, err = Restore[doc](nil, nil)
	if err != nil || h.State() != Clean {
		t.Fatalf("state = %v, err = %v", h.State(), err)
	}
	if _, err := Restore[doc](u, u); err == nil {
		t.Fatal("expected error when both slots are set")
	}
}
