package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"

	"github.com/example/inkshot/internal/geom"
	"github.com/example/inkshot/internal/mosaic"
	"github.com/example/inkshot/internal/scene"
	"github.com/example/inkshot/internal/style"
)

// Tool is the active interaction mode.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolEllipse
	ToolLine
	ToolArrow
	ToolPencil
	ToolMarker
	ToolText
	ToolMosaic
)

// MinMosaicSize is the smallest drag, per axis, that produces a mosaic
// block on finalize. Smaller drags create nothing.
const MinMosaicSize = 4

const (
	thinStrokePreset  = 2
	thickStrokePreset = 6
	rotateHandleRise  = 18
	rotateSnapDegrees = 45
)

type dragKind int

const (
	dragNone dragKind = iota
	dragCreate
	dragMoveEntity
	dragRotateEntity
	dragPan
)

// Engine converts pointer and keyboard input into scene mutations. It
// exclusively owns the scene, the history log, and the current style;
// all coordinates it consumes are in the cropped bitmap's pixel space.
type Engine struct {
	background *image.RGBA
	scn        *scene.Scene
	history    *scene.History
	renderer   Renderer
	styl       style.Style
	bounds     style.Bounds
	tool       Tool

	selected *scene.Entity
	working  *scene.Entity
	anchor   image.Point

	pending    *image.Point
	drag       dragKind
	dragOrigin image.Point
	origRect   image.Rectangle
	origP0     image.Point
	origP1     image.Point
	origPos    image.Point
	origRot    float64

	pan       image.Point
	panOrigin image.Point
	spaceHeld bool
	shiftHeld bool

	textEditor *TextEditor
	detachKeys func()
	destroyed  bool
}

// Option configures a new engine.
type Option func(*Engine)

// WithStyle sets the initial style.
func WithStyle(s style.Style) Option { return func(e *Engine) { e.styl = s } }

// WithBounds sets the style clamp limits.
func WithBounds(b style.Bounds) Option { return func(e *Engine) { e.bounds = b } }

// WithRenderer swaps the rendering backend.
func WithRenderer(r Renderer) Option { return func(e *Engine) { e.renderer = r } }

// WithTextSurface installs the text-input surface used for in-place
// label editing.
func WithTextSurface(s TextSurface) Option {
	return func(e *Engine) { e.textEditor.surface = s }
}

// WithKeyDetach registers the hook Destroy calls to drop global key
// listeners owned by the embedding surface.
func WithKeyDetach(fn func()) Option { return func(e *Engine) { e.detachKeys = fn } }

// New creates an engine over the cropped background bitmap. The scene's
// birth snapshot seeds the history log.
func New(background *image.RGBA, opts ...Option) (*Engine, error) {
	e := &Engine{
		background: background,
		scn:        scene.New(),
		renderer:   Raster{},
		styl:       style.Default(),
		bounds:     style.DefaultBounds(),
		tool:       ToolSelect,
	}
	e.textEditor = &TextEditor{engine: e, surface: nopSurface{}}
	for _, o := range opts {
		o(e)
	}
	birth, err := e.scn.Serialize()
	if err != nil {
		return nil, fmt.Errorf("seed history: %w", err)
	}
	e.history = scene.NewHistory(birth)
	return e, nil
}

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// SetTool switches the active tool. Leaving the select tool clears the
// selection highlight.
func (e *Engine) SetTool(t Tool) {
	if e.tool == ToolSelect && t != ToolSelect {
		e.selected = nil
	}
	e.tool = t
}

// Style returns the current style record.
func (e *Engine) Style() style.Style { return e.styl }

// SetStyle merges a patch into the current style.
func (e *Engine) SetStyle(patch style.Patch) {
	e.styl.Merge(patch, e.bounds)
}

// Selected returns the entity with transform handles, or nil.
func (e *Engine) Selected() *scene.Entity { return e.selected }

// Dragging reports whether a pointer drag is in progress.
func (e *Engine) Dragging() bool { return e.drag != dragNone }

// Scene exposes the live scene for rendering and tests. Callers must
// not mutate it.
func (e *Engine) Scene() *scene.Scene { return e.scn }

// TextEditor returns the in-place label editing session.
func (e *Engine) TextEditor() *TextEditor { return e.textEditor }

// ApplyStyleToSelection re-renders the selected entity from the current
// style and commits a snapshot. No-op when nothing is selected.
func (e *Engine) ApplyStyleToSelection() {
	if e.selected == nil {
		return
	}
	e.selected.Style = e.styl
	e.commit()
}

// PointerDown begins a tool interaction at p.
func (e *Engine) PointerDown(p image.Point) {
	if e.destroyed {
		return
	}
	if e.textEditor.Active() {
		// Clicking away from the overlay behaves like losing focus.
		e.textEditor.Blur()
	}
	if e.spaceHeld {
		e.drag = dragPan
		e.dragOrigin = p
		e.panOrigin = e.pan
		return
	}
	switch e.tool {
	case ToolSelect:
		e.pointerDownSelect(p)
	case ToolText:
		e.pointerDownText(p)
	default:
		e.beginEntity(p)
	}
}

func (e *Engine) pointerDownSelect(p image.Point) {
	if e.selected != nil && e.rotateHandle(e.selected).Contains(p) {
		e.drag = dragRotateEntity
		e.dragOrigin = p
		e.origRot = e.selected.Rotation
		return
	}
	hit := e.renderer.HitTest(e.scn.Entities(), p)
	e.selected = hit
	if hit == nil {
		return
	}
	e.drag = dragMoveEntity
	e.dragOrigin = p
	e.origRect = hit.Rect
	e.origP0 = hit.P0
	e.origP1 = hit.P1
	e.origPos = hit.Pos
}

func (e *Engine) pointerDownText(p image.Point) {
	if hit := e.renderer.HitTest(e.scn.Entities(), p); hit != nil && hit.Kind == scene.KindText {
		e.textEditor.open(hit, false)
		return
	}
	ent := e.scn.Add(&scene.Entity{Kind: scene.KindText, Style: e.styl, Pos: p})
	e.textEditor.open(ent, true)
}

// DoubleClick opens the text editor when the point lands on a text
// entity, regardless of the active tool.
func (e *Engine) DoubleClick(p image.Point) {
	if e.destroyed {
		return
	}
	if hit := e.renderer.HitTest(e.scn.Entities(), p); hit != nil && hit.Kind == scene.KindText {
		e.textEditor.open(hit, false)
	}
}

func (e *Engine) beginEntity(p image.Point) {
	e.anchor = p
	e.drag = dragCreate
	ent := &scene.Entity{Style: e.styl, Rect: image.Rect(p.X, p.Y, p.X, p.Y), P0: p, P1: p}
	switch e.tool {
	case ToolRect:
		ent.Kind = scene.KindRect
	case ToolEllipse:
		ent.Kind = scene.KindEllipse
	case ToolLine:
		ent.Kind = scene.KindLine
	case ToolArrow:
		ent.Kind = scene.KindArrow
	case ToolPencil:
		ent.Kind = scene.KindFreehand
		ent.Points = []image.Point{p}
	case ToolMarker:
		ent.Kind = scene.KindFreehand
		ent.Marker = true
		ent.Points = []image.Point{p}
	case ToolMosaic:
		ent.Kind = scene.KindMosaic
	default:
		e.drag = dragNone
		return
	}
	e.working = ent
}

// PointerMove records the target point for the next frame. Bursts of
// move events within one frame overwrite each other; Frame applies the
// latest.
func (e *Engine) PointerMove(p image.Point) {
	if e.destroyed || e.drag == dragNone {
		return
	}
	pt := p
	e.pending = &pt
}

// Frame applies at most one pending geometry update. The embedding
// surface calls it once per paint cycle.
func (e *Engine) Frame() {
	if e.pending == nil {
		return
	}
	p := *e.pending
	e.pending = nil
	e.applyMove(p)
}

func (e *Engine) applyMove(p image.Point) {
	switch e.drag {
	case dragPan:
		e.pan = e.panOrigin.Add(p.Sub(e.dragOrigin))
	case dragCreate:
		e.updateWorking(p)
	case dragMoveEntity:
		if e.selected != nil {
			d := p.Sub(e.dragOrigin)
			e.selected.Rect = e.origRect.Add(d)
			e.selected.P0 = e.origP0.Add(d)
			e.selected.P1 = e.origP1.Add(d)
			e.selected.Pos = e.origPos.Add(d)
		}
	case dragRotateEntity:
		if e.selected != nil {
			e.selected.Rotation = e.rotationFor(e.selected, p)
		}
	}
}

func (e *Engine) updateWorking(p image.Point) {
	w := e.working
	if w == nil {
		return
	}
	switch w.Kind {
	case scene.KindRect, scene.KindEllipse, scene.KindMosaic:
		w.Rect = geom.DragRect(e.anchor, p).Rect()
	case scene.KindLine, scene.KindArrow:
		w.P1 = p
	case scene.KindFreehand:
		if n := len(w.Points); n == 0 || w.Points[n-1] != p {
			w.Points = append(w.Points, p)
		}
	}
}

// PointerUp finalizes the in-progress interaction. Every successful
// finalize commits a history snapshot unless the scene is unchanged.
func (e *Engine) PointerUp(p image.Point) {
	if e.destroyed {
		return
	}
	e.pending = nil
	e.applyMove(p)
	drag := e.drag
	e.drag = dragNone
	switch drag {
	case dragCreate:
		e.finalizeWorking()
	case dragMoveEntity, dragRotateEntity:
		e.commit()
	}
}

func (e *Engine) finalizeWorking() {
	w := e.working
	e.working = nil
	if w == nil {
		return
	}
	if w.Kind == scene.KindMosaic {
		// The live preview rectangle is discarded; only a sufficiently
		// large drag produces the pixelated block.
		if w.Rect.Dx() < MinMosaicSize || w.Rect.Dy() < MinMosaicSize {
			return
		}
		w.Block = mosaic.Pixelate(e.background, w.Rect, mosaic.Options{CellSize: w.Style.MosaicCell})
	}
	e.scn.Add(w)
	e.commit()
}

// CancelActive synchronously discards any half-built entity and ends
// the current drag without committing.
func (e *Engine) CancelActive() {
	e.working = nil
	e.pending = nil
	e.drag = dragNone
	if e.textEditor.Active() {
		e.textEditor.Escape()
	}
}

func (e *Engine) rotationFor(ent *scene.Entity, p image.Point) float64 {
	box := e.renderer.BoundingBox(ent)
	cx := float64(box.Min.X+box.Max.X) / 2
	cy := float64(box.Min.Y+box.Max.Y) / 2
	deg := degrees(float64(p.X)-cx, float64(p.Y)-cy) + 90
	if e.shiftHeld {
		deg = snapAngle(deg, rotateSnapDegrees)
	}
	return normalizeAngle(deg)
}

func (e *Engine) rotateHandle(ent *scene.Entity) geom.Selection {
	box := e.renderer.BoundingBox(ent)
	cx := (box.Min.X + box.Max.X) / 2
	const s = 10
	return geom.Selection{X: cx - s/2, Y: box.Min.Y - rotateHandleRise - s/2, W: s, H: s}
}

// HandleKey applies the engine's keyboard policies: Space pans, Shift
// snaps rotation, Tab toggles line/arrow, digits select stroke presets.
func (e *Engine) HandleKey(ev key.Event) {
	if e.destroyed {
		return
	}
	if e.textEditor.Active() {
		e.textEditor.HandleKey(ev)
		return
	}
	switch ev.Direction {
	case key.DirPress:
		switch ev.Code {
		case key.CodeSpacebar:
			e.spaceHeld = true
		case key.CodeLeftShift, key.CodeRightShift:
			e.shiftHeld = true
		case key.CodeTab:
			switch e.tool {
			case ToolLine:
				e.tool = ToolArrow
			case ToolArrow:
				e.tool = ToolLine
			}
		default:
			switch ev.Rune {
			case '1':
				w := thinStrokePreset
				e.SetStyle(style.Patch{StrokeWidth: &w})
			case '2':
				w := thickStrokePreset
				e.SetStyle(style.Patch{StrokeWidth: &w})
			}
		}
	case key.DirRelease:
		switch ev.Code {
		case key.CodeSpacebar:
			e.spaceHeld = false
			if e.drag == dragPan {
				e.drag = dragNone
			}
		case key.CodeLeftShift, key.CodeRightShift:
			e.shiftHeld = false
		}
	}
}

// CanUndo reports whether a history step exists behind the cursor.
func (e *Engine) CanUndo() bool { return e.history != nil && e.history.CanUndo() }

// CanRedo reports whether a history step exists ahead of the cursor.
func (e *Engine) CanRedo() bool { return e.history != nil && e.history.CanRedo() }

// Undo restores the previous scene snapshot.
func (e *Engine) Undo() {
	snap, ok := e.history.Undo()
	if !ok {
		return
	}
	e.restore(snap)
}

// Redo restores the next scene snapshot.
func (e *Engine) Redo() {
	snap, ok := e.history.Redo()
	if !ok {
		return
	}
	e.restore(snap)
}

func (e *Engine) restore(snap []byte) {
	if err := e.scn.Restore(snap); err != nil {
		log.Printf("restore snapshot: %v", err)
		return
	}
	e.selected = nil
}

// commit serializes the scene and records it in the history log.
func (e *Engine) commit() {
	snap, err := e.scn.Serialize()
	if err != nil {
		log.Printf("serialize scene: %v", err)
		return
	}
	e.history.Push(snap)
}

// Pan returns the temporary canvas offset from spacebar panning. It
// affects on-screen rendering only, never exports.
func (e *Engine) Pan() image.Point { return e.pan }

// Flatten renders the background and every entity into a new image in
// bitmap space.
func (e *Engine) Flatten() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, e.background.Bounds().Dx(), e.background.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), e.background, e.background.Bounds().Min, draw.Src)
	for _, ent := range e.scn.Entities() {
		e.renderer.Draw(out, ent)
	}
	return out
}

// Export flattens the scene at the given pixel-density multiplier,
// clamped to [1,3], and returns the encoded PNG.
func (e *Engine) Export(pixelRatio float64) ([]byte, error) {
	if e.destroyed {
		return nil, fmt.Errorf("export: engine destroyed")
	}
	if pixelRatio < 1 {
		pixelRatio = 1
	}
	if pixelRatio > 3 {
		pixelRatio = 3
	}
	flat := e.Flatten()
	if pixelRatio != 1 {
		w := int(float64(flat.Bounds().Dx())*pixelRatio + 0.5)
		h := int(float64(flat.Bounds().Dy())*pixelRatio + 0.5)
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), flat, flat.Bounds(), draw.Src, nil)
		flat = scaled
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return buf.Bytes(), nil
}

// Render composites the current view (background, entities, the entity
// under construction, and the selection highlight) into dst, honoring
// the pan offset.
func (e *Engine) Render(dst *image.RGBA) {
	flat := e.Flatten()
	draw.Draw(dst, flat.Bounds().Add(e.pan), flat, flat.Bounds().Min, draw.Src)
	if e.working != nil {
		if e.working.Kind == scene.KindMosaic {
			e.drawDashedBox(dst, e.working.Rect.Add(e.pan))
		} else {
			shifted := *e.working
			shifted.Rect = shifted.Rect.Add(e.pan)
			shifted.P0 = shifted.P0.Add(e.pan)
			shifted.P1 = shifted.P1.Add(e.pan)
			shifted.Pos = shifted.Pos.Add(e.pan)
			if len(e.working.Points) > 0 {
				shifted.Points = make([]image.Point, len(e.working.Points))
				for i, p := range e.working.Points {
					shifted.Points[i] = p.Add(e.pan)
				}
			}
			e.renderer.Draw(dst, &shifted)
		}
	}
	if e.selected != nil {
		box := e.renderer.BoundingBox(e.selected).Inset(-2).Add(e.pan)
		e.drawDashedBox(dst, box)
		h := e.rotateHandle(e.selected)
		fillRect(dst, h.Rect().Add(e.pan), color.RGBA{255, 255, 255, 255})
		drawLine(dst, h.X+e.pan.X, h.Y+h.H+e.pan.Y, (box.Min.X+box.Max.X)/2, box.Min.Y, color.RGBA{A: 255}, 1)
	}
}

func (e *Engine) drawDashedBox(dst *image.RGBA, r image.Rectangle) {
	white := color.RGBA{255, 255, 255, 255}
	pattern := []int{4, 4}
	drawDashedSegment(dst, r.Min, image.Pt(r.Max.X, r.Min.Y), white, 1, pattern)
	drawDashedSegment(dst, image.Pt(r.Max.X, r.Min.Y), r.Max, white, 1, pattern)
	drawDashedSegment(dst, r.Max, image.Pt(r.Min.X, r.Max.Y), white, 1, pattern)
	drawDashedSegment(dst, image.Pt(r.Min.X, r.Max.Y), r.Min, white, 1, pattern)
}

// Destroy releases the scene, the history log, and the key listeners.
// No reference handed out earlier may be used afterwards.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.textEditor.Active() {
		e.textEditor.surface.Release()
		e.textEditor.entity = nil
		e.textEditor.active = false
	}
	e.working = nil
	e.pending = nil
	e.selected = nil
	e.scn.Clear()
	e.history.Drop()
	if e.detachKeys != nil {
		e.detachKeys()
		e.detachKeys = nil
	}
}
