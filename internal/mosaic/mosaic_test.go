package mosaic

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 17), G: uint8(y * 11), B: 40, A: 255})
		}
	}
	return img
}

func TestPixelateBlockAveraging(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 0, color.RGBA{B: 255, A: 255})
	src.Set(0, 1, color.RGBA{G: 255, A: 255})
	src.Set(1, 1, color.RGBA{A: 255})

	out := Pixelate(src, image.Rect(0, 0, 2, 2), Options{CellSize: 2})
	want := color.RGBA{R: 63, G: 63, B: 63, A: 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := out.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestPixelateIdempotentInputs(t *testing.T) {
	src := gradient(32, 24)
	rect := image.Rect(4, 4, 28, 20)
	a := Pixelate(src, rect, Options{CellSize: 5})
	b := Pixelate(src, rect, Options{CellSize: 5})
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("identical inputs produced different output")
	}
}

func TestPixelateClampsCellSize(t *testing.T) {
	src := gradient(8, 8)
	a := Pixelate(src, src.Bounds(), Options{CellSize: 0})
	b := Pixelate(src, src.Bounds(), Options{CellSize: MinCellSize})
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("cell size below minimum should behave like the minimum")
	}
}

func TestPixelateDoesNotMutateSource(t *testing.T) {
	src := gradient(16, 16)
	before := append([]uint8(nil), src.Pix...)
	Pixelate(src, image.Rect(2, 2, 14, 14), Options{CellSize: 4})
	if !bytes.Equal(before, src.Pix) {
		t.Fatal("source image mutated")
	}
}

func TestPixelateOutsideBounds(t *testing.T) {
	src := gradient(8, 8)
	out := Pixelate(src, image.Rect(20, 20, 30, 30), Options{CellSize: 4})
	if !out.Bounds().Empty() && out.Bounds().Dx() != 0 {
		t.Fatalf("expected empty output, got %v", out.Bounds())
	}
}
