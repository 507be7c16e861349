package scene

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/inkshot/internal/style"
)

func TestAddRemoveByID(t *testing.T) {
	s := New()
	a := s.Add(&Entity{Kind: KindRect, Rect: image.Rect(0, 0, 10, 10)})
	b := s.Add(&Entity{Kind: KindLine, P0: image.Pt(1, 1), P1: image.Pt(5, 5)})
	if a.ID == b.ID {
		t.Fatal("entity IDs must be unique")
	}
	if got := s.ByID(b.ID); got != b {
		t.Fatalf("ByID returned %v", got)
	}
	if !s.Remove(a.ID) {
		t.Fatal("Remove failed")
	}
	if s.ByID(a.ID) != nil {
		t.Fatal("removed entity still reachable")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	s := New()
	st := style.Default()
	st.Stroke = color.RGBA{G: 200, A: 255}
	s.Add(&Entity{Kind: KindEllipse, Style: st, Rect: image.Rect(5, 5, 40, 30)})
	s.Add(&Entity{Kind: KindFreehand, Style: st, Points: []image.Point{{1, 2}, {3, 4}, {5, 6}}, Marker: true})
	s.Add(&Entity{Kind: KindText, Style: st, Pos: image.Pt(12, 18), Text: "hello\nworld", Rotation: 45})

	block := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range block.Pix {
		block.Pix[i] = uint8(i * 7)
	}
	s.Add(&Entity{Kind: KindMosaic, Style: st, Rect: image.Rect(10, 10, 14, 14), Block: block})

	snap, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored := New()
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Len() != s.Len() {
		t.Fatalf("restored %d entities, want %d", restored.Len(), s.Len())
	}
	snap2, err := restored.Serialize()
	if err != nil {
		t.Fatalf("Serialize restored: %v", err)
	}
	if !bytes.Equal(snap, snap2) {
		t.Fatal("round-trip snapshot differs")
	}
	mosaicEnt := restored.Entities()[3]
	if mosaicEnt.Block == nil {
		t.Fatal("mosaic block lost")
	}
	if got := mosaicEnt.Block.RGBAAt(1, 1); got.A == 0 && got.R == 0 {
		t.Fatalf("mosaic pixels not restored, got %+v", got)
	}
}

func TestRestorePreservesIDSequence(t *testing.T) {
	s := New()
	s.Add(&Entity{Kind: KindRect})
	s.Add(&Entity{Kind: KindRect})
	snap, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	restored := New()
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	e := restored.Add(&Entity{Kind: KindLine})
	if e.ID != 3 {
		t.Fatalf("next ID after restore = %d, want 3", e.ID)
	}
}

func TestHistoryLinearUndo(t *testing.T) {
	h := NewHistory([]byte("s0"))
	h.Push([]byte("s1"))
	h.Push([]byte("s2"))
	if !h.CanUndo() {
		t.Fatal("expected undo available")
	}
	snap, ok := h.Undo()
	if !ok || string(snap) != "s1" {
		t.Fatalf("Undo = %q, %v", snap, ok)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo available after undo")
	}
	// A new action after undo discards the redo branch.
	h.Push([]byte("s1b"))
	if h.CanRedo() {
		t.Fatal("redo should be discarded by a new push")
	}
	snap, _ = h.Undo()
	if string(snap) != "s1" {
		t.Fatalf("Undo after branch = %q", snap)
	}
}

func TestHistorySkipsIdenticalSnapshot(t *testing.T) {
	h := NewHistory([]byte("s0"))
	if h.Push([]byte("s0")) {
		t.Fatal("identical snapshot should not be recorded")
	}
	if h.Len() != 1 || h.CanUndo() {
		t.Fatalf("log polluted: len=%d", h.Len())
	}
}

func TestHistoryUndoAtBirth(t *testing.T) {
	h := NewHistory([]byte("s0"))
	if _, ok := h.Undo(); ok {
		t.Fatal("undo should fail with a single snapshot")
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo should fail at the head")
	}
}
