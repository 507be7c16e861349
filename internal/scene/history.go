package scene

import "bytes"

// History is a linear undo log of full-scene snapshots. The first entry
// is the scene's birth state; Push after an undo discards everything
// ahead of the cursor.
type History struct {
	snapshots [][]byte
	cursor    int
}

// NewHistory creates a history seeded with the scene's birth snapshot.
func NewHistory(birth []byte) *History {
	return &History{snapshots: [][]byte{birth}}
}

// Push records a new snapshot. A snapshot identical to the one at the
// cursor is dropped so repeated no-op actions do not pollute the log.
// Push reports whether the snapshot was recorded.
func (h *History) Push(snapshot []byte) bool {
	if bytes.Equal(snapshot, h.snapshots[h.cursor]) {
		return false
	}
	h.snapshots = append(h.snapshots[:h.cursor+1], snapshot)
	h.cursor = len(h.snapshots) - 1
	return true
}

// CanUndo reports whether a snapshot exists behind the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a snapshot exists ahead of the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Undo moves the cursor back and returns the snapshot to restore.
func (h *History) Undo() ([]byte, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo moves the cursor forward and returns the snapshot to restore.
func (h *History) Redo() ([]byte, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Drop releases every snapshot. The history is unusable afterwards.
func (h *History) Drop() {
	h.snapshots = nil
	h.cursor = 0
}
