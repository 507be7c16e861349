package ui

import (
	"image"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/paint"

	"github.com/example/inkshot/internal/style"
)

// textInput is the in-window text surface the label editor draws
// through. It only mirrors the editor's buffer; all input handling
// stays in the engine.
type textInput struct {
	s *Surface
}

// TextInput returns the surface's text-input capability, suitable for
// engine.WithTextSurface.
func (s *Surface) TextInput() *textInput {
	return &textInput{s: s}
}

func (t *textInput) Acquire(pos image.Point, text string, st style.Style) {
	t.s.textActive = true
	t.s.textPos = pos
	t.s.textBuf = text
	t.s.textColor = st.Stroke
	t.repaint()
}

func (t *textInput) Refresh(text string) {
	t.s.textBuf = text
	t.repaint()
}

func (t *textInput) Release() {
	t.s.textActive = false
	t.s.textBuf = ""
	t.repaint()
}

func (t *textInput) repaint() {
	if t.s.win != nil {
		t.s.win.Send(paint.Event{})
	}
}

// paintTextOverlay draws the live edit buffer with a caret at the end
// of the last line. origin is the selection's top-left in window space.
func (s *Surface) paintTextOverlay(dst *image.RGBA, origin image.Point) {
	lines := strings.Split(s.textBuf, "\n")
	face := basicfont.Face7x13
	lineHeight := face.Height + 3
	base := s.textPos.Add(origin)
	ink := &image.Uniform{s.textColor}
	for i, line := range lines {
		d := &font.Drawer{
			Dst:  dst,
			Src:  ink,
			Face: face,
			Dot:  fixed.P(base.X, base.Y+face.Ascent+i*lineHeight),
		}
		d.DrawString(line)
	}
	last := lines[len(lines)-1]
	caretX := base.X + len(last)*face.Advance
	caretY := base.Y + (len(lines)-1)*lineHeight
	caret := image.Rect(caretX, caretY, caretX+1, caretY+face.Height)
	draw.Draw(dst, caret.Intersect(dst.Bounds()), ink, image.Point{}, draw.Src)
}
