// Package session drives the capture lifecycle: it owns the captured
// bitmap and the rectangular selection, and mounts the annotation
// engine over the cropped region once a selection is frozen. All entry
// points run on the UI thread; results of host calls come back through
// the configured dispatch function.
package session

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"

	"golang.org/x/mobile/event/key"

	"github.com/example/inkshot/internal/engine"
	"github.com/example/inkshot/internal/geom"
	"github.com/example/inkshot/internal/host"
)

// Status is the lifecycle state of a capture session.
type Status int

const (
	StatusIdle Status = iota
	StatusCapturing
	StatusSelecting
	StatusEditing
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCapturing:
		return "capturing"
	case StatusSelecting:
		return "selecting"
	case StatusEditing:
		return "editing"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// OCRView is the modal text-recognition result overlay. While it is
// open, canvas input is suppressed; Escape closes it.
type OCRView struct {
	Pending bool
	Text    string
	Failed  bool
}

// Controller owns the captured bitmap and the selection, and routes
// pointer and key input to the annotation engine while editing.
type Controller struct {
	requests host.Requests
	dispatch func(func())

	status   Status
	bitmap   *image.RGBA
	viewport image.Point

	sel      geom.Selection
	origin   image.Point
	dragging bool

	eng        *engine.Engine
	engineOpts []engine.Option
	pixelRatio float64

	ocr    *OCRView
	ocrSeq int
}

// Option configures a Controller.
type Option func(*Controller)

// WithEngineOptions forwards options to every engine the controller
// mounts.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(c *Controller) { c.engineOpts = opts }
}

// WithPixelRatio sets the export density multiplier.
func WithPixelRatio(ratio float64) Option {
	return func(c *Controller) { c.pixelRatio = ratio }
}

// WithDispatch sets the function used to marshal asynchronous host
// results back onto the UI thread. The default invokes the callback
// directly.
func WithDispatch(dispatch func(func())) Option {
	return func(c *Controller) { c.dispatch = dispatch }
}

// New creates an idle controller issuing terminal actions through
// requests.
func New(requests host.Requests, opts ...Option) *Controller {
	c := &Controller{
		requests:   requests,
		dispatch:   func(f func()) { f() },
		pixelRatio: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetEngineOptions replaces the options applied to subsequently
// mounted engines. It does not affect an engine already mounted.
func (c *Controller) SetEngineOptions(opts ...engine.Option) {
	c.engineOpts = opts
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status { return c.status }

// Selection returns the current selection rectangle in viewport
// coordinates.
func (c *Controller) Selection() geom.Selection { return c.sel }

// Engine returns the mounted annotation engine, or nil outside
// editing.
func (c *Controller) Engine() *engine.Engine { return c.eng }

// OCR returns the open recognition result view, or nil.
func (c *Controller) OCR() *OCRView { return c.ocr }

// SetViewport records the size at which the captured bitmap is
// displayed. Selection coordinates arrive in this space; cropping
// scales them back to bitmap pixels.
func (c *Controller) SetViewport(w, h int) {
	c.viewport = image.Pt(w, h)
}

// OnCaptureReady replaces any session in progress with a fresh one over
// the decoded bitmap. A decode failure returns the controller to idle.
func (c *Controller) OnCaptureReady(pngBytes []byte) error {
	c.teardown()
	c.status = StatusCapturing
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		c.status = StatusIdle
		return fmt.Errorf("decode capture: %w", err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	c.bitmap = rgba
	if c.viewport == (image.Point{}) {
		c.viewport = image.Pt(rgba.Bounds().Dx(), rgba.Bounds().Dy())
	}
	c.status = StatusSelecting
	return nil
}

// OnCaptureReset forces a full reset to idle.
func (c *Controller) OnCaptureReset() {
	c.teardown()
}

// Bitmap returns the captured bitmap, or nil while idle.
func (c *Controller) Bitmap() *image.RGBA { return c.bitmap }

// PointerDown begins a selection drag, or routes the event to the
// engine when it lands inside the frozen selection.
func (c *Controller) PointerDown(p image.Point) {
	if c.ocr != nil {
		return
	}
	switch c.status {
	case StatusEditing:
		if p.In(c.sel.Rect()) {
			c.eng.PointerDown(c.toEngine(p))
			return
		}
		// Outside the frozen selection: drop back to selecting and
		// start a new drag from here.
		c.unmountEngine()
		c.status = StatusSelecting
		c.beginSelection(p)
	case StatusSelecting:
		c.beginSelection(p)
	}
}

// DoubleClick forwards a double click to the engine while editing.
func (c *Controller) DoubleClick(p image.Point) {
	if c.ocr != nil || c.status != StatusEditing {
		return
	}
	if p.In(c.sel.Rect()) {
		c.eng.DoubleClick(c.toEngine(p))
	}
}

// PointerMove updates the live selection while dragging, or forwards a
// coalesced move to the engine.
func (c *Controller) PointerMove(p image.Point) {
	if c.ocr != nil {
		return
	}
	switch c.status {
	case StatusEditing:
		c.eng.PointerMove(c.toEngine(p))
	case StatusSelecting:
		if c.dragging {
			c.sel = geom.DragRect(c.origin, p)
		}
	}
}

// PointerUp freezes the selection when it meets the minimum size and
// mounts the engine over the cropped bitmap; undersized drags are
// silently discarded.
func (c *Controller) PointerUp(p image.Point) {
	if c.ocr != nil {
		return
	}
	switch c.status {
	case StatusEditing:
		c.eng.PointerUp(c.toEngine(p))
	case StatusSelecting:
		if !c.dragging {
			return
		}
		c.dragging = false
		c.sel = geom.DragRect(c.origin, p)
		if !c.sel.Valid() {
			c.sel = geom.Selection{}
			return
		}
		if err := c.mountEngine(); err != nil {
			log.Printf("mount engine: %v", err)
			c.sel = geom.Selection{}
			return
		}
		c.status = StatusEditing
	}
}

// Frame applies at most one pending engine geometry update. The UI
// calls it once per paint.
func (c *Controller) Frame() {
	if c.eng != nil {
		c.eng.Frame()
	}
}

// HandleKey routes keyboard input. Escape closes an open recognition
// view first, then cancels engine work in progress, then the whole
// session.
func (c *Controller) HandleKey(ev key.Event) {
	if c.ocr != nil {
		if ev.Code == key.CodeEscape && ev.Direction == key.DirPress {
			c.ocr = nil
		}
		return
	}
	if c.status != StatusEditing {
		if ev.Code == key.CodeEscape && ev.Direction == key.DirPress {
			c.Cancel()
		}
		return
	}
	if ev.Code == key.CodeEscape && ev.Direction == key.DirPress {
		if c.eng.TextEditor().Active() {
			c.eng.HandleKey(ev)
			return
		}
		if c.eng.Dragging() {
			c.eng.CancelActive()
			return
		}
		c.Cancel()
		return
	}
	c.eng.HandleKey(ev)
}

// Cancel tears the session down and asks the host to hide the capture
// surface.
func (c *Controller) Cancel() {
	c.teardown()
	c.requests.HideCaptureSurface()
}

func (c *Controller) beginSelection(p image.Point) {
	c.origin = p
	c.dragging = true
	c.sel = geom.DragRect(p, p)
}

func (c *Controller) mountEngine() error {
	scaled := c.sel.ScaleTo(c.bitmap.Bounds().Dx(), c.bitmap.Bounds().Dy(), c.viewport.X, c.viewport.Y)
	crop := scaled.Intersect(c.bitmap.Bounds())
	if crop.Empty() {
		return fmt.Errorf("selection outside bitmap")
	}
	background := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(background, background.Bounds(), c.bitmap, crop.Min, draw.Src)
	eng, err := engine.New(background, c.engineOpts...)
	if err != nil {
		return err
	}
	c.eng = eng
	return nil
}

func (c *Controller) unmountEngine() {
	if c.eng != nil {
		c.eng.Destroy()
		c.eng = nil
	}
	c.sel = geom.Selection{}
}

func (c *Controller) teardown() {
	c.unmountEngine()
	c.bitmap = nil
	c.dragging = false
	c.ocr = nil
	c.ocrSeq++
	c.status = StatusIdle
}

// toEngine translates a viewport point into the mounted engine's
// cropped-bitmap pixel space.
func (c *Controller) toEngine(p image.Point) image.Point {
	sx := float64(c.bitmap.Bounds().Dx()) / float64(c.viewport.X)
	sy := float64(c.bitmap.Bounds().Dy()) / float64(c.viewport.Y)
	return image.Pt(
		int(float64(p.X-c.sel.X)*sx+0.5),
		int(float64(p.Y-c.sel.Y)*sy+0.5),
	)
}
