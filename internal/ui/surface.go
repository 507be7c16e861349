// Package ui runs the capture surface: a shiny window showing the
// captured bitmap, routing mouse and keyboard input into the session
// controller and painting the selection, annotations, and toolbar.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/inkshot/internal/engine"
	"github.com/example/inkshot/internal/session"
)

const (
	toolbarHeight = 28

	doubleClickWindow = 400 * time.Millisecond
	doubleClickSlop   = 4
)

// Surface owns the capture window and binds its events to the session
// controller.
type Surface struct {
	scr  screen.Screen
	win  screen.Window
	buf  screen.Buffer
	ctrl *session.Controller

	saveDir string
	size    image.Point

	lastClick    time.Time
	lastClickPos image.Point

	// In-place text overlay state, managed through the TextSurface
	// capability.
	textActive bool
	textPos    image.Point
	textBuf    string
	textColor  color.RGBA

	dimmed *image.RGBA
}

// Option configures a Surface.
type Option func(*Surface)

// WithSaveDir sets the directory save actions write into.
func WithSaveDir(dir string) Option {
	return func(s *Surface) { s.saveDir = dir }
}

// New creates a surface bound to ctrl. The controller's engines should
// be constructed with s.TextInput() as their text surface.
func New(scr screen.Screen, ctrl *session.Controller, opts ...Option) *Surface {
	s := &Surface{scr: scr, ctrl: ctrl}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch marshals fn onto the event loop. Suitable as the session
// controller's dispatch function.
func (s *Surface) Dispatch(fn func()) {
	if s.win == nil {
		fn()
		return
	}
	s.win.Send(callbackEvent{fn})
}

type callbackEvent struct {
	fn func()
}

// Run opens the window over the captured bitmap and blocks until the
// session ends or the window is closed.
func (s *Surface) Run(pngBytes []byte) error {
	if err := s.ctrl.OnCaptureReady(pngBytes); err != nil {
		return err
	}
	bitmap := s.ctrl.Bitmap()
	width := bitmap.Bounds().Dx()
	height := bitmap.Bounds().Dy() + toolbarHeight
	s.ctrl.SetViewport(bitmap.Bounds().Dx(), bitmap.Bounds().Dy())
	s.size = image.Pt(width, height)

	win, err := s.scr.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "InkShot"})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer win.Release()
	s.win = win

	buf, err := s.scr.NewBuffer(image.Pt(width, height))
	if err != nil {
		return fmt.Errorf("new buffer: %w", err)
	}
	defer buf.Release()
	s.buf = buf

	s.dimmed = dimBitmap(bitmap)

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case callbackEvent:
			e.fn()
			win.Send(paint.Event{})
		case paint.Event:
			s.ctrl.Frame()
			s.paint()
			win.Upload(image.Point{}, buf, buf.Bounds())
			win.Publish()
			if s.ctrl.Status() == session.StatusIdle {
				return nil
			}
		case mouse.Event:
			s.handleMouse(e)
		case key.Event:
			s.handleKey(e)
		}
	}
}

func (s *Surface) handleMouse(e mouse.Event) {
	p := image.Pt(int(e.X), int(e.Y))
	if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && p.Y < toolbarHeight {
		s.toolbarClick(p.X)
		s.win.Send(paint.Event{})
		return
	}
	canvas := p.Sub(image.Pt(0, toolbarHeight))
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		now := time.Now()
		if now.Sub(s.lastClick) < doubleClickWindow && near(canvas, s.lastClickPos, doubleClickSlop) {
			s.ctrl.DoubleClick(canvas)
			s.lastClick = time.Time{}
		} else {
			s.ctrl.PointerDown(canvas)
			s.lastClick = now
			s.lastClickPos = canvas
		}
		s.win.Send(paint.Event{})
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		s.ctrl.PointerUp(canvas)
		s.win.Send(paint.Event{})
	case e.Direction == mouse.DirNone:
		s.ctrl.PointerMove(canvas)
		s.win.Send(paint.Event{})
	}
}

func (s *Surface) handleKey(e key.Event) {
	eng := s.ctrl.Engine()
	editing := eng != nil && !eng.TextEditor().Active() && s.ctrl.OCR() == nil
	if e.Direction == key.DirPress && editing {
		if e.Modifiers&key.ModControl != 0 {
			switch e.Rune {
			case 'z':
				eng.Undo()
				s.win.Send(paint.Event{})
				return
			case 'y':
				eng.Redo()
				s.win.Send(paint.Event{})
				return
			}
		} else if e.Modifiers == 0 {
			if tool, ok := toolFor(e.Rune); ok {
				eng.SetTool(tool)
				s.win.Send(paint.Event{})
				return
			}
		}
	}
	s.ctrl.HandleKey(e)
	s.win.Send(paint.Event{})
}

// SavePath returns the destination for the next save action.
func (s *Surface) SavePath() string {
	dir := s.saveDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dir = "."
		} else {
			dir = filepath.Join(home, "Pictures")
		}
	}
	name := fmt.Sprintf("inkshot-%s.png", time.Now().Format("20060102-150405"))
	return filepath.Join(dir, name)
}

func (s *Surface) paint() {
	dst := s.buf.RGBA()
	sel := s.ctrl.Selection()
	bmp := s.ctrl.Bitmap()
	if bmp == nil {
		draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
		return
	}

	canvas := dst.Bounds().Intersect(image.Rect(0, toolbarHeight, s.size.X, s.size.Y))
	if sel.Empty() {
		draw.Draw(dst, canvas, s.dimmed, image.Point{}, draw.Src)
	} else {
		draw.Draw(dst, canvas, s.dimmed, image.Point{}, draw.Src)
		lit := sel.Rect().Add(image.Pt(0, toolbarHeight)).Intersect(canvas)
		draw.Draw(dst, lit, bmp, sel.Rect().Min, draw.Src)
	}

	if eng := s.ctrl.Engine(); eng != nil {
		frame := image.NewRGBA(image.Rect(0, 0, sel.W, sel.H))
		eng.Render(frame)
		draw.Draw(dst, sel.Rect().Add(image.Pt(0, toolbarHeight)), frame, image.Point{}, draw.Over)
	}

	if !sel.Empty() {
		drawSelectionFrame(dst, sel.Rect().Add(image.Pt(0, toolbarHeight)))
	}

	if s.textActive {
		s.paintTextOverlay(dst, sel.Rect().Min.Add(image.Pt(0, toolbarHeight)))
	}

	s.paintToolbar(dst)

	if view := s.ctrl.OCR(); view != nil {
		s.paintOCRView(dst, view)
	}
}

func dimBitmap(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = out.Pix[i] / 2
		out.Pix[i+1] = out.Pix[i+1] / 2
		out.Pix[i+2] = out.Pix[i+2] / 2
	}
	return out
}

func drawSelectionFrame(dst *image.RGBA, r image.Rectangle) {
	frame := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	dashStride := 8
	for x := r.Min.X; x < r.Max.X; x++ {
		if (x/dashStride)%2 == 0 {
			setPixel(dst, x, r.Min.Y, frame)
			setPixel(dst, x, r.Max.Y-1, frame)
		}
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if (y/dashStride)%2 == 0 {
			setPixel(dst, r.Min.X, y, frame)
			setPixel(dst, r.Max.X-1, y, frame)
		}
	}
	// Corner handles.
	for _, c := range []image.Point{r.Min, {X: r.Max.X - 1, Y: r.Min.Y}, {X: r.Min.X, Y: r.Max.Y - 1}, {X: r.Max.X - 1, Y: r.Max.Y - 1}} {
		handle := image.Rect(c.X-2, c.Y-2, c.X+3, c.Y+3)
		draw.Draw(dst, handle.Intersect(dst.Bounds()), &image.Uniform{frame}, image.Point{}, draw.Src)
	}
}

func setPixel(dst *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.SetRGBA(x, y, col)
	}
}

func near(a, b image.Point, slop int) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= slop && dy <= slop
}

func toolFor(r rune) (engine.Tool, bool) {
	switch r {
	case 'v':
		return engine.ToolSelect, true
	case 'r':
		return engine.ToolRect, true
	case 'e':
		return engine.ToolEllipse, true
	case 'l':
		return engine.ToolLine, true
	case 'a':
		return engine.ToolArrow, true
	case 'p':
		return engine.ToolPencil, true
	case 'm':
		return engine.ToolMarker, true
	case 't':
		return engine.ToolText, true
	case 'x':
		return engine.ToolMosaic, true
	}
	return 0, false
}
