package mosaic

import (
	"image"
	"image/draw"
)

// MinCellSize is the smallest pixelation cell the generator accepts.
// Requested sizes below it are raised, matching the original defaults.
const MinCellSize = 2

// Options configures the pixelation transform.
type Options struct {
	// CellSize is the edge length of the averaged blocks in source
	// pixels. Values below MinCellSize are clamped.
	CellSize int
}

// Pixelate crops src to rect and replaces the content with block
// averages at opts.CellSize granularity. The returned image has
// zero-based bounds of rect's size. Pixelate is a pure transform:
// identical inputs yield identical output, and src is never mutated.
func Pixelate(src image.Image, rect image.Rectangle, opts Options) *image.RGBA {
	cell := opts.CellSize
	if cell < MinCellSize {
		cell = MinCellSize
	}

	rect = rect.Intersect(src.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	if rect.Empty() {
		return out
	}

	// Work on an RGBA copy so pixel access is uniform for any source.
	crop := image.NewRGBA(out.Bounds())
	draw.Draw(crop, crop.Bounds(), src, rect.Min, draw.Src)

	w := crop.Bounds().Dx()
	h := crop.Bounds().Dy()
	for by := 0; by < h; by += cell {
		for bx := 0; bx < w; bx += cell {
			x1 := bx + cell
			if x1 > w {
				x1 = w
			}
			y1 := by + cell
			if y1 > h {
				y1 = h
			}
			var r, g, b, a, n int
			for y := by; y < y1; y++ {
				off := y*crop.Stride + bx*4
				for x := bx; x < x1; x++ {
					r += int(crop.Pix[off+0])
					g += int(crop.Pix[off+1])
					b += int(crop.Pix[off+2])
					a += int(crop.Pix[off+3])
					n++
					off += 4
				}
			}
			if n == 0 {
				continue
			}
			pr := uint8(r / n)
			pg := uint8(g / n)
			pb := uint8(b / n)
			pa := uint8(a / n)
			for y := by; y < y1; y++ {
				off := y*out.Stride + bx*4
				for x := bx; x < x1; x++ {
					out.Pix[off+0] = pr
					out.Pix[off+1] = pg
					out.Pix[off+2] = pb
					out.Pix[off+3] = pa
					off += 4
				}
			}
		}
	}
	return out
}
