//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// decodeRootImage converts a GetImage reply for the root window into an
// RGBA bitmap. X hands pixels back BGRA in the server's pixmap format,
// so the channel order is swapped per pixel.
func decodeRootImage(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if setup == nil {
		return nil, fmt.Errorf("x11 setup unavailable")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("screen has empty geometry")
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("screen pixels: empty reply")
	}

	bpp := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bpp = int(format.BitsPerPixel)
			break
		}
	}
	if bpp < 24 {
		return nil, fmt.Errorf("unsupported screen pixel format: depth %d, %d bpp", reply.Depth, bpp)
	}
	pixelBytes := bpp / 8

	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) {
		return nil, fmt.Errorf("screen pixels: stride does not divide reply")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			off := x * pixelBytes
			if off+3 > len(row) {
				break
			}
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = row[off+2]
			img.Pix[dst+1] = row[off+1]
			img.Pix[dst+2] = row[off+0]
			// Depth-24 visuals pad to 32 bpp with a junk byte, so
			// the alpha channel is only trusted at depth 32.
			if pixelBytes >= 4 && reply.Depth == 32 && off+3 < len(row) {
				img.Pix[dst+3] = row[off+3]
			} else {
				img.Pix[dst+3] = 0xFF
			}
		}
	}
	return img, nil
}
