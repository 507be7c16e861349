package ui

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/inkshot/internal/session"
)

// paintOCRView draws the modal recognition panel centered over the
// window. While it is up the session suppresses pointer input, so the
// panel needs no hit handling of its own.
func (s *Surface) paintOCRView(dst *image.RGBA, view *session.OCRView) {
	var lines []string
	switch {
	case view.Pending:
		lines = []string{"Recognizing text..."}
	case view.Failed:
		lines = []string{"Text recognition failed"}
	case strings.TrimSpace(view.Text) == "":
		lines = []string{"No text found"}
	default:
		lines = strings.Split(view.Text, "\n")
	}
	lines = append(lines, "", "Esc to close")

	face := basicfont.Face7x13
	lineHeight := face.Height + 4
	width := 0
	for _, line := range lines {
		if w := len(line) * face.Advance; w > width {
			width = w
		}
	}
	const pad = 12
	boxW := width + 2*pad
	boxH := len(lines)*lineHeight + 2*pad
	center := image.Pt(dst.Bounds().Dx()/2, dst.Bounds().Dy()/2)
	box := image.Rect(center.X-boxW/2, center.Y-boxH/2, center.X+boxW/2, center.Y+boxH/2).Intersect(dst.Bounds())

	draw.Draw(dst, box, &image.Uniform{color.RGBA{30, 30, 30, 255}}, image.Point{}, draw.Src)
	for i, line := range lines {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(box.Min.X+pad, box.Min.Y+pad+face.Ascent+i*lineHeight),
		}
		d.DrawString(line)
	}
}
