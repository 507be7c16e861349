package engine

import (
	"image"

	"golang.org/x/mobile/event/key"

	"github.com/example/inkshot/internal/scene"
	"github.com/example/inkshot/internal/style"
)

// TextSurface is the scoped text-input capability the embedding UI
// provides: an editable surface positioned over the canvas, released on
// every exit path. The default implementation does nothing, which keeps
// the engine fully operable headless.
type TextSurface interface {
	// Acquire shows the input surface at the given canvas position,
	// pre-filled with text, rendered with the entity's style.
	Acquire(pos image.Point, text string, st style.Style)
	// Refresh updates the surface after the buffered text changed.
	Refresh(text string)
	// Release hides the surface.
	Release()
}

type nopSurface struct{}

func (nopSurface) Acquire(image.Point, string, style.Style) {}
func (nopSurface) Refresh(string)                           {}
func (nopSurface) Release()                                 {}

// TextEditor runs the in-place label editing sub-protocol: one session
// at a time, bound to a text entity, committing or cancelling back into
// the scene.
type TextEditor struct {
	engine  *Engine
	surface TextSurface

	entity   *scene.Entity
	isNew    bool
	original string
	text     string
	active   bool
}

// Active reports whether an editing session is open.
func (t *TextEditor) Active() bool { return t.active }

// Text returns the current buffered text.
func (t *TextEditor) Text() string { return t.text }

func (t *TextEditor) open(ent *scene.Entity, isNew bool) {
	if t.active {
		t.Commit()
	}
	t.entity = ent
	t.isNew = isNew
	t.original = ent.Text
	t.text = ent.Text
	t.active = true
	t.surface.Acquire(ent.Pos, t.text, ent.Style)
}

// InsertRune appends a printable rune to the buffer.
func (t *TextEditor) InsertRune(r rune) {
	if !t.active || r <= 0 {
		return
	}
	t.text += string(r)
	t.surface.Refresh(t.text)
}

// Backspace removes the last rune from the buffer.
func (t *TextEditor) Backspace() {
	if !t.active || len(t.text) == 0 {
		return
	}
	runes := []rune(t.text)
	t.text = string(runes[:len(runes)-1])
	t.surface.Refresh(t.text)
}

// HandleKey routes a key event into the session. Enter commits,
// Shift+Enter and Ctrl+Enter insert a literal newline, Escape cancels,
// Backspace deletes, any other printable rune is inserted.
func (t *TextEditor) HandleKey(ev key.Event) {
	if !t.active || ev.Direction == key.DirRelease {
		return
	}
	switch ev.Code {
	case key.CodeReturnEnter:
		if ev.Modifiers&(key.ModShift|key.ModControl) != 0 {
			t.text += "\n"
			t.surface.Refresh(t.text)
			return
		}
		t.Commit()
		return
	case key.CodeEscape:
		t.Escape()
		return
	case key.CodeDeleteBackspace:
		t.Backspace()
		return
	}
	t.InsertRune(ev.Rune)
}

// Commit closes the session applying the buffered text. An empty commit
// prunes the entity; otherwise the background rectangle is resized to
// bound the rendered text plus the configured padding. Scene-mutating
// exits record a history snapshot.
func (t *TextEditor) Commit() {
	if !t.active {
		return
	}
	ent := t.entity
	text := t.text
	isNew := t.isNew
	t.close()
	if text == "" {
		t.engine.scn.Remove(ent.ID)
		if t.engine.selected == ent {
			t.engine.selected = nil
		}
		// Destroying an entity that never reached the scene history
		// is not undoable.
		if isNew {
			return
		}
	} else {
		ent.Text = text
		if ent.Style.TextBackground {
			ent.Rect = textInkRect(ent).Inset(-ent.Style.TextPadding)
		} else {
			ent.Rect = image.Rectangle{}
		}
	}
	t.engine.commit()
}

// Escape closes the session discarding the edit. A newly created entity
// that never received text is destroyed; an existing entity keeps its
// prior text.
func (t *TextEditor) Escape() {
	if !t.active {
		return
	}
	ent := t.entity
	t.close()
	if t.isNew && ent.Text == "" {
		t.engine.scn.Remove(ent.ID)
		if t.engine.selected == ent {
			t.engine.selected = nil
		}
		return
	}
	t.engine.commit()
}

// Blur behaves like Commit; the embedding surface calls it when the
// input loses focus.
func (t *TextEditor) Blur() { t.Commit() }

func (t *TextEditor) close() {
	t.active = false
	t.surface.Release()
}
