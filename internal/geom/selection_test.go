package geom

import (
	"image"
	"testing"
)

func TestDragRectNormalizes(t *testing.T) {
	s := DragRect(image.Pt(120, 80), image.Pt(40, 200))
	if s.X != 40 || s.Y != 80 || s.W != 80 || s.H != 120 {
		t.Fatalf("unexpected selection %+v", s)
	}
}

func TestValidThreshold(t *testing.T) {
	if (Selection{W: 9, H: 50}).Valid() {
		t.Error("9x50 should be below the threshold")
	}
	if !(Selection{W: 10, H: 10}).Valid() {
		t.Error("10x10 should be valid")
	}
}

func TestScaleToNonUniform(t *testing.T) {
	s := Selection{X: 100, Y: 100, W: 200, H: 100}
	got := s.ScaleTo(3000, 2000, 1500, 1000)
	want := image.Rect(200, 200, 600, 400)
	if !got.Eq(want) {
		t.Fatalf("ScaleTo = %v, want %v", got, want)
	}
	if got.Dx() != 400 || got.Dy() != 200 {
		t.Fatalf("scaled size %dx%d, want 400x200", got.Dx(), got.Dy())
	}
}

func TestScaleToDegenerateViewport(t *testing.T) {
	s := Selection{X: 1, Y: 1, W: 5, H: 5}
	if !s.ScaleTo(100, 100, 0, 10).Empty() {
		t.Error("zero-width viewport should yield an empty rect")
	}
}
