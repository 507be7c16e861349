// Package render holds image post-processing used outside the
// annotation engine, currently the drop shadow behind pinned previews.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// PinShadow describes the soft shadow drawn behind a pinned preview.
type PinShadow struct {
	// Blur is the box blur radius applied to the shadow silhouette.
	Blur int
	// Drop shifts the shadow relative to the content.
	Drop image.Point
	// Strength is the shadow's peak opacity in [0, 1]. Zero disables
	// the effect.
	Strength float64
}

// DefaultPinShadow returns the shadow pinned windows are drawn with.
func DefaultPinShadow() PinShadow {
	return PinShadow{Blur: 12, Drop: image.Pt(4, 6), Strength: 0.45}
}

// Apply composites img over its drop shadow on an expanded canvas with
// a zero-based origin. The returned point is where the content's
// top-left corner landed on that canvas. A nil or empty image, or a
// disabled shadow, comes back unchanged at offset zero.
func (ps PinShadow) Apply(img *image.RGBA) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || ps.Strength <= 0 {
		return img, image.Point{}
	}
	strength := ps.Strength
	if strength > 1 {
		strength = 1
	}
	blur := ps.Blur
	if blur < 0 {
		blur = 0
	}

	content := img.Bounds()
	silhouette := content.Inset(-blur)
	shadow := silhouette.Add(ps.Drop)
	canvas := content.Union(shadow)
	dst := image.NewRGBA(canvas.Sub(canvas.Min))
	offset := content.Min.Sub(canvas.Min)

	// Pinned previews are opaque rectangles, so the silhouette is the
	// content rect itself, blurred outward.
	mask := image.NewGray(silhouette.Sub(silhouette.Min))
	inner := content.Sub(silhouette.Min)
	draw.Draw(mask, inner, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	blurred := boxBlur(mask, blur)

	alpha := uint8(strength*255 + 0.5)
	shadowAt := shadow.Min.Sub(canvas.Min)
	draw.DrawMask(dst, blurred.Bounds().Add(shadowAt),
		image.NewUniform(color.RGBA{A: alpha}), image.Point{},
		blurred, blurred.Bounds().Min, draw.Over)
	draw.Draw(dst, content.Sub(canvas.Min), img, content.Min, draw.Over)
	return dst, offset
}

// boxBlur runs a separable box blur over the mask using running sums,
// one horizontal and one vertical pass.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	tmp := image.NewGray(src.Bounds())
	out := image.NewGray(src.Bounds())

	for y := 0; y < h; y++ {
		row := y * src.Stride
		sums := make([]int, w+1)
		for x := 0; x < w; x++ {
			sums[x+1] = sums[x] + int(src.Pix[row+x])
		}
		for x := 0; x < w; x++ {
			lo := max(x-radius, 0)
			hi := min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((sums[hi+1] - sums[lo]) / (hi - lo + 1))
		}
	}
	for x := 0; x < w; x++ {
		sums := make([]int, h+1)
		for y := 0; y < h; y++ {
			sums[y+1] = sums[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			lo := max(y-radius, 0)
			hi := min(y+radius, h-1)
			out.Pix[y*out.Stride+x] = uint8((sums[hi+1] - sums[lo]) / (hi - lo + 1))
		}
	}
	return out
}
