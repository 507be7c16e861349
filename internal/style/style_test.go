package style

import (
	"image/color"
	"testing"
)

func ptrColor(c color.RGBA) *color.RGBA { return &c }
func ptrFloat(f float64) *float64       { return &f }
func ptrInt(i int) *int                 { return &i }
func ptrBool(b bool) *bool              { return &b }

func TestMergeFillFollowsStroke(t *testing.T) {
	s := Default()
	s.Fill = true
	s.FillColor = color.RGBA{B: 255, A: 255}

	s.Merge(Patch{Stroke: ptrColor(color.RGBA{G: 255, A: 255})}, DefaultBounds())
	if s.FillColor != (color.RGBA{G: 255, A: 255}) {
		t.Fatalf("fill should follow stroke, got %+v", s.FillColor)
	}

	// An explicit fill in the same patch wins.
	s.Merge(Patch{
		Stroke:    ptrColor(color.RGBA{R: 1, A: 255}),
		FillColor: ptrColor(color.RGBA{R: 2, A: 255}),
	}, DefaultBounds())
	if s.FillColor != (color.RGBA{R: 2, A: 255}) {
		t.Fatalf("explicit fill lost, got %+v", s.FillColor)
	}
}

func TestMergeFillDoesNotFollowWhenDisabled(t *testing.T) {
	s := Default()
	s.Fill = false
	s.FillColor = color.RGBA{B: 255, A: 255}
	s.Merge(Patch{Stroke: ptrColor(color.RGBA{G: 255, A: 255})}, DefaultBounds())
	if s.FillColor != (color.RGBA{B: 255, A: 255}) {
		t.Fatalf("fill changed while disabled: %+v", s.FillColor)
	}
}

func TestMergeClamps(t *testing.T) {
	s := Default()
	b := DefaultBounds()
	s.Merge(Patch{Opacity: ptrFloat(0.001)}, b)
	if s.Opacity != b.OpacityMin {
		t.Errorf("opacity = %v, want %v", s.Opacity, b.OpacityMin)
	}
	s.Merge(Patch{Opacity: ptrFloat(2)}, b)
	if s.Opacity != 1 {
		t.Errorf("opacity = %v, want 1", s.Opacity)
	}
	s.Merge(Patch{StrokeWidth: ptrInt(200)}, b)
	if s.StrokeWidth != b.StrokeWidthMax {
		t.Errorf("width = %d, want %d", s.StrokeWidth, b.StrokeWidthMax)
	}
	s.Merge(Patch{StrokeWidth: ptrInt(0)}, b)
	if s.StrokeWidth != b.StrokeWidthMin {
		t.Errorf("width = %d, want %d", s.StrokeWidth, b.StrokeWidthMin)
	}
	s.Merge(Patch{MosaicCell: ptrInt(1)}, b)
	if s.MosaicCell != b.MosaicCellMin {
		t.Errorf("cell = %d, want %d", s.MosaicCell, b.MosaicCellMin)
	}
}

func TestMergeLeavesUnpatchedFields(t *testing.T) {
	s := Default()
	before := s
	s.Merge(Patch{Dash: ptrBool(true)}, DefaultBounds())
	if !s.Dash {
		t.Fatal("dash not applied")
	}
	s.Dash = before.Dash
	s.DashPattern = before.DashPattern
	if s.Stroke != before.Stroke || s.StrokeWidth != before.StrokeWidth || s.Opacity != before.Opacity {
		t.Fatal("unrelated fields mutated")
	}
}
