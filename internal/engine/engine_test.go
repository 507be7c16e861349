package engine

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/example/inkshot/internal/scene"
	"github.com/example/inkshot/internal/style"
)

func testBackground(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	return img
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testBackground(200, 150))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func dragEntity(e *Engine, tool Tool, from, to image.Point) {
	e.SetTool(tool)
	e.PointerDown(from)
	e.PointerMove(to)
	e.Frame()
	e.PointerUp(to)
}

func TestCreateRectEntity(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(60, 40))
	if e.Scene().Len() != 1 {
		t.Fatalf("scene has %d entities, want 1", e.Scene().Len())
	}
	ent := e.Scene().Entities()[0]
	if ent.Kind != scene.KindRect {
		t.Fatalf("kind = %v", ent.Kind)
	}
	if !ent.Rect.Eq(image.Rect(10, 10, 60, 40)) {
		t.Fatalf("rect = %v", ent.Rect)
	}
}

func TestReverseDragNormalizes(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolEllipse, image.Pt(90, 80), image.Pt(30, 20))
	ent := e.Scene().Entities()[0]
	if !ent.Rect.Eq(image.Rect(30, 20, 90, 80)) {
		t.Fatalf("rect = %v", ent.Rect)
	}
}

func TestMoveCoalescedPerFrame(t *testing.T) {
	e := newTestEngine(t)
	e.SetTool(ToolPencil)
	e.PointerDown(image.Pt(5, 5))
	// A burst of moves within one frame collapses to the last point.
	e.PointerMove(image.Pt(6, 6))
	e.PointerMove(image.Pt(7, 7))
	e.PointerMove(image.Pt(8, 8))
	e.Frame()
	e.PointerUp(image.Pt(8, 8))
	ent := e.Scene().Entities()[0]
	if len(ent.Points) != 2 {
		t.Fatalf("freehand has %d points, want 2 (anchor + coalesced)", len(ent.Points))
	}
	if ent.Points[1] != image.Pt(8, 8) {
		t.Fatalf("coalesced point = %v", ent.Points[1])
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	dragEntity(e, ToolLine, image.Pt(20, 20), image.Pt(80, 30))
	dragEntity(e, ToolArrow, image.Pt(5, 90), image.Pt(120, 100))

	final, err := e.Scene().Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	e.Undo()
	e.Undo()
	if e.Scene().Len() != 1 {
		t.Fatalf("after 2 undos scene has %d entities", e.Scene().Len())
	}
	e.Redo()
	e.Redo()
	restored, err := e.Scene().Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(final, restored) {
		t.Fatal("redo did not restore the final scene")
	}
}

func TestNewActionDiscardsRedo(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	dragEntity(e, ToolRect, image.Pt(60, 60), image.Pt(90, 90))
	e.Undo()
	if !e.CanRedo() {
		t.Fatal("redo should be available after undo")
	}
	dragEntity(e, ToolEllipse, image.Pt(5, 5), image.Pt(25, 25))
	if e.CanRedo() {
		t.Fatal("a new action must discard redo targets")
	}
}

func TestMosaicMinimumSize(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolMosaic, image.Pt(10, 10), image.Pt(13, 13))
	if e.Scene().Len() != 0 {
		t.Fatalf("3x3 mosaic drag created %d entities", e.Scene().Len())
	}
	if e.CanUndo() {
		t.Fatal("discarded mosaic should not commit history")
	}
	dragEntity(e, ToolMosaic, image.Pt(10, 10), image.Pt(14, 14))
	if e.Scene().Len() != 1 {
		t.Fatalf("4x4 mosaic drag created %d entities", e.Scene().Len())
	}
	ent := e.Scene().Entities()[0]
	if ent.Kind != scene.KindMosaic || ent.Block == nil {
		t.Fatalf("mosaic entity incomplete: %+v", ent)
	}
	if !ent.Rect.Eq(image.Rect(10, 10, 14, 14)) {
		t.Fatalf("mosaic anchored at %v", ent.Rect)
	}
}

func TestStyleAppliesOnlyToSelection(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	dragEntity(e, ToolRect, image.Pt(70, 70), image.Pt(120, 120))

	e.SetTool(ToolSelect)
	e.PointerDown(image.Pt(10, 30)) // left edge of the first rect
	e.PointerUp(image.Pt(10, 30))
	if e.Selected() == nil {
		t.Fatal("expected a selected entity")
	}
	first := e.Selected()

	red := color.RGBA{R: 0xFF, A: 0xFF}
	e.SetStyle(style.Patch{Stroke: &red})
	e.ApplyStyleToSelection()

	if first.Style.Stroke != red {
		t.Fatalf("selected stroke = %+v", first.Style.Stroke)
	}
	for _, ent := range e.Scene().Entities() {
		if ent != first && ent.Style.Stroke == red {
			t.Fatal("style leaked to an unselected entity")
		}
	}
}

func TestApplyStyleWithoutSelectionIsNoop(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	undoable := e.CanUndo()
	e.SetTool(ToolSelect)
	e.ApplyStyleToSelection()
	if e.CanUndo() != undoable || e.history.Len() != 2 {
		t.Fatalf("no-op apply changed history: len=%d", e.history.Len())
	}
}

func TestSwitchingAwayFromSelectClearsHighlight(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	e.SetTool(ToolSelect)
	e.PointerDown(image.Pt(10, 30))
	e.PointerUp(image.Pt(10, 30))
	if e.Selected() == nil {
		t.Fatal("expected selection")
	}
	e.SetTool(ToolRect)
	if e.Selected() != nil {
		t.Fatal("leaving select must clear the highlight")
	}
}

func TestClickOnEmptyCanvasClearsSelection(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	e.SetTool(ToolSelect)
	e.PointerDown(image.Pt(10, 30))
	e.PointerUp(image.Pt(10, 30))
	e.PointerDown(image.Pt(150, 140))
	e.PointerUp(image.Pt(150, 140))
	if e.Selected() != nil {
		t.Fatal("clicking empty space must clear the selection")
	}
}

func TestTabTogglesLineArrow(t *testing.T) {
	e := newTestEngine(t)
	e.SetTool(ToolLine)
	tab := key.Event{Code: key.CodeTab, Direction: key.DirPress}
	e.HandleKey(tab)
	if e.Tool() != ToolArrow {
		t.Fatalf("tool = %v, want arrow", e.Tool())
	}
	e.HandleKey(tab)
	if e.Tool() != ToolLine {
		t.Fatalf("tool = %v, want line", e.Tool())
	}
	e.SetTool(ToolRect)
	e.HandleKey(tab)
	if e.Tool() != ToolRect {
		t.Fatal("tab must not affect other tools")
	}
}

func TestDigitStrokePresets(t *testing.T) {
	e := newTestEngine(t)
	e.HandleKey(key.Event{Rune: '2', Direction: key.DirPress})
	if e.Style().StrokeWidth != thickStrokePreset {
		t.Fatalf("width = %d", e.Style().StrokeWidth)
	}
	e.HandleKey(key.Event{Rune: '1', Direction: key.DirPress})
	if e.Style().StrokeWidth != thinStrokePreset {
		t.Fatalf("width = %d", e.Style().StrokeWidth)
	}
}

func TestSpacebarPanOverridesTool(t *testing.T) {
	e := newTestEngine(t)
	e.SetTool(ToolRect)
	e.HandleKey(key.Event{Code: key.CodeSpacebar, Direction: key.DirPress})
	e.PointerDown(image.Pt(10, 10))
	e.PointerMove(image.Pt(30, 25))
	e.Frame()
	e.PointerUp(image.Pt(30, 25))
	e.HandleKey(key.Event{Code: key.CodeSpacebar, Direction: key.DirRelease})
	if e.Scene().Len() != 0 {
		t.Fatal("panning must not create entities")
	}
	if e.Pan() != image.Pt(20, 15) {
		t.Fatalf("pan = %v", e.Pan())
	}
}

func TestShiftSnapsRotation(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(40, 40), image.Pt(100, 100))
	e.SetTool(ToolSelect)
	e.PointerDown(image.Pt(40, 70))
	e.PointerUp(image.Pt(40, 70))
	ent := e.Selected()
	if ent == nil {
		t.Fatal("expected selection")
	}

	e.HandleKey(key.Event{Code: key.CodeLeftShift, Direction: key.DirPress})
	handle := e.rotateHandle(ent)
	e.PointerDown(image.Pt(handle.X+handle.W/2, handle.Y+handle.H/2))
	// Drag the handle to roughly 100 degrees; shift snaps to 90.
	e.PointerMove(image.Pt(129, 75))
	e.Frame()
	e.PointerUp(image.Pt(129, 75))
	if ent.Rotation != 90 {
		t.Fatalf("rotation = %v, want 90", ent.Rotation)
	}
}

func TestCancelActiveDiscardsHalfBuiltEntity(t *testing.T) {
	e := newTestEngine(t)
	e.SetTool(ToolArrow)
	e.PointerDown(image.Pt(10, 10))
	e.PointerMove(image.Pt(40, 40))
	e.CancelActive()
	e.Frame()
	if e.Scene().Len() != 0 {
		t.Fatal("cancel left a half-built entity in the scene")
	}
	if e.CanUndo() {
		t.Fatal("cancel must not commit history")
	}
}

func TestExportClampsPixelRatio(t *testing.T) {
	e := newTestEngine(t)
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	data, err := e.Export(5)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if img.Bounds().Dx() != 600 || img.Bounds().Dy() != 450 {
		t.Fatalf("export size %v, want 600x450 (ratio clamped to 3)", img.Bounds())
	}
}

func TestExportFlattensEntities(t *testing.T) {
	e := newTestEngine(t)
	e.SetStyle(style.Patch{})
	dragEntity(e, ToolRect, image.Pt(20, 20), image.Pt(60, 60))
	data, err := e.Export(1)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	r, _, _, _ := img.At(20, 20).RGBA()
	if r>>8 != 0xFF {
		t.Fatalf("entity stroke missing from export at (20,20): r=%d", r>>8)
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	e := newTestEngine(t)
	detached := false
	e.detachKeys = func() { detached = true }
	dragEntity(e, ToolRect, image.Pt(10, 10), image.Pt(50, 50))
	e.Destroy()
	if !detached {
		t.Fatal("Destroy must detach key listeners")
	}
	if e.Scene().Len() != 0 {
		t.Fatal("Destroy must release entities")
	}
	if _, err := e.Export(1); err == nil {
		t.Fatal("export after Destroy should fail")
	}
	// Input after destroy is ignored.
	e.PointerDown(image.Pt(5, 5))
	e.PointerUp(image.Pt(5, 5))
	if e.Scene().Len() != 0 {
		t.Fatal("destroyed engine accepted input")
	}
}
