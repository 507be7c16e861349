package ui

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"

	"github.com/example/inkshot/internal/render"
)

// Pin opens a floating always-rendered window showing the exported
// image and drives it on its own goroutine. x and y are advisory; the
// window system decides final placement. The window closes on Escape
// or when the window manager dismisses it.
func (s *Surface) Pin(pngBytes []byte, x, y, w, h int) error {
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return fmt.Errorf("decode pin image: %w", err)
	}
	content := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(content, content.Bounds(), img, img.Bounds().Min, draw.Src)
	shadowed, _ := render.DefaultPinShadow().Apply(content)

	win, err := s.scr.NewWindow(&screen.NewWindowOptions{
		Width:  shadowed.Bounds().Dx(),
		Height: shadowed.Bounds().Dy(),
		Title:  "InkShot Pin",
	})
	if err != nil {
		return fmt.Errorf("pin window: %w", err)
	}
	buf, err := s.scr.NewBuffer(shadowed.Bounds().Size())
	if err != nil {
		win.Release()
		return fmt.Errorf("pin buffer: %w", err)
	}
	draw.Draw(buf.RGBA(), buf.Bounds(), shadowed, image.Point{}, draw.Src)

	go func() {
		defer win.Release()
		defer buf.Release()
		for {
			switch e := win.NextEvent().(type) {
			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}
			case paint.Event:
				win.Upload(image.Point{}, buf, buf.Bounds())
				win.Publish()
			case key.Event:
				if e.Code == key.CodeEscape && e.Direction == key.DirPress {
					return
				}
			}
		}
	}()
	log.Printf("pinned %dx%d image near %d,%d", w, h, x, y)
	return nil
}
