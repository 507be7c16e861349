package geom

import "image"

// MinSelectionSize is the smallest width and height, in viewport pixels,
// a drag must reach before the selection is committed.
const MinSelectionSize = 10

// Selection is the user-dragged rectangle in viewport pixel coordinates.
// Width and height are never negative; DragRect normalizes.
type Selection struct {
	X int
	Y int
	W int
	H int
}

// DragRect builds a selection from a drag origin and the current pointer
// position. The rectangle is anchored at the top-left regardless of drag
// direction.
func DragRect(origin, current image.Point) Selection {
	x0, x1 := origin.X, current.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := origin.Y, current.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Selection{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Valid reports whether the selection meets the minimum size threshold.
func (s Selection) Valid() bool {
	return s.W >= MinSelectionSize && s.H >= MinSelectionSize
}

// Empty reports whether the selection covers no area.
func (s Selection) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect returns the selection as an image.Rectangle.
func (s Selection) Rect() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.W, s.Y+s.H)
}

// Contains reports whether p falls inside the selection.
func (s Selection) Contains(p image.Point) bool { return p.In(s.Rect()) }

// ScaleTo maps the selection from viewport space into source bitmap
// space. The axes scale independently so a DPI mismatch between the
// captured bitmap and the viewport is handled correctly.
func (s Selection) ScaleTo(bitmapW, bitmapH, viewportW, viewportH int) image.Rectangle {
	if viewportW <= 0 || viewportH <= 0 {
		return image.Rectangle{}
	}
	sx := float64(bitmapW) / float64(viewportW)
	sy := float64(bitmapH) / float64(viewportH)
	x0 := int(float64(s.X)*sx + 0.5)
	y0 := int(float64(s.Y)*sy + 0.5)
	x1 := int(float64(s.X+s.W)*sx + 0.5)
	y1 := int(float64(s.Y+s.H)*sy + 0.5)
	return image.Rect(x0, y0, x1, y1)
}
