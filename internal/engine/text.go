package engine

import (
	"image"
	"image/color"
	"log"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/inkshot/internal/scene"
	"github.com/example/inkshot/internal/style"
)

type faceKey struct {
	size   float64
	bold   bool
	italic bool
}

var (
	faceMu    sync.Mutex
	faceCache = map[faceKey]font.Face{}
)

// faceFor returns a cached font face for the style's text attributes.
// Parsing falls back to the fixed basicfont face on failure so text
// rendering never crashes the engine.
func faceFor(st style.Style) font.Face {
	key := faceKey{size: st.FontSize, bold: st.FontBold, italic: st.FontItalic}
	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[key]; ok {
		return f
	}
	ttf := goregular.TTF
	switch {
	case st.FontBold && st.FontItalic:
		ttf = gobolditalic.TTF
	case st.FontBold:
		ttf = gobold.TTF
	case st.FontItalic:
		ttf = goitalic.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		log.Printf("parse font: %v", err)
		faceCache[key] = basicfont.Face7x13
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: st.FontSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face: %v", err)
		faceCache[key] = basicfont.Face7x13
		return basicfont.Face7x13
	}
	faceCache[key] = face
	return face
}

// textInkRect returns the rectangle the rendered text occupies, anchored
// at the entity's position (top-left of the first line).
func textInkRect(e *scene.Entity) image.Rectangle {
	face := faceFor(e.Style)
	metrics := face.Metrics()
	lineHeight := metrics.Ascent.Ceil() + metrics.Descent.Ceil()
	d := &font.Drawer{Face: face}
	lines := strings.Split(e.Text, "\n")
	width := 0
	for _, line := range lines {
		if w := d.MeasureString(line).Ceil(); w > width {
			width = w
		}
	}
	height := lineHeight * len(lines)
	return image.Rect(e.Pos.X, e.Pos.Y, e.Pos.X+width, e.Pos.Y+height)
}

func drawTextEntity(dst *image.RGBA, e *scene.Entity) {
	if e.Text == "" {
		return
	}
	if e.Style.TextBackground {
		bg := e.Rect
		if bg.Empty() {
			bg = textInkRect(e).Inset(-e.Style.TextPadding)
		}
		fillRoundedRect(dst, bg, e.Style.TextCornerRadius,
			applyOpacity(e.Style.TextBackgroundColor, e.Style.TextBackgroundOpacity))
	}
	face := faceFor(e.Style)
	metrics := face.Metrics()
	lineHeight := metrics.Ascent.Ceil() + metrics.Descent.Ceil()
	col := applyOpacity(e.Style.Stroke, e.Style.Opacity)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	y := e.Pos.Y + metrics.Ascent.Ceil()
	for _, line := range strings.Split(e.Text, "\n") {
		d.Dot = fixed.P(e.Pos.X, y)
		d.DrawString(line)
		y += lineHeight
	}
}

func fillRoundedRect(img *image.RGBA, r image.Rectangle, radius int, col color.RGBA) {
	if radius <= 0 {
		fillRect(img, r, col)
		return
	}
	maxR := r.Dx() / 2
	if h := r.Dy() / 2; h < maxR {
		maxR = h
	}
	if radius > maxR {
		radius = maxR
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if inRoundedRect(r, radius, x, y) {
				blendPixel(img, x, y, col)
			}
		}
	}
}

func inRoundedRect(r image.Rectangle, radius, x, y int) bool {
	cx := x
	if x < r.Min.X+radius {
		cx = r.Min.X + radius
	} else if x >= r.Max.X-radius {
		cx = r.Max.X - radius - 1
	}
	cy := y
	if y < r.Min.Y+radius {
		cy = r.Min.Y + radius
	} else if y >= r.Max.Y-radius {
		cy = r.Max.Y - radius - 1
	}
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy <= radius*radius
}
