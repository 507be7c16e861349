package ui

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/inkshot/internal/engine"
)

const buttonWidth = 56

type toolbarButton struct {
	label string
	tool  engine.Tool
	act   func(*Surface)
}

var toolbarButtons = []toolbarButton{
	{label: "Select", tool: engine.ToolSelect},
	{label: "Rect", tool: engine.ToolRect},
	{label: "Ellipse", tool: engine.ToolEllipse},
	{label: "Line", tool: engine.ToolLine},
	{label: "Arrow", tool: engine.ToolArrow},
	{label: "Pencil", tool: engine.ToolPencil},
	{label: "Marker", tool: engine.ToolMarker},
	{label: "Text", tool: engine.ToolText},
	{label: "Mosaic", tool: engine.ToolMosaic},
	{label: "Undo", act: func(s *Surface) {
		if eng := s.ctrl.Engine(); eng != nil {
			eng.Undo()
		}
	}},
	{label: "Redo", act: func(s *Surface) {
		if eng := s.ctrl.Engine(); eng != nil {
			eng.Redo()
		}
	}},
	{label: "OCR", act: func(s *Surface) { s.ctrl.Recognize() }},
	{label: "Pin", act: func(s *Surface) { s.ctrl.Pin() }},
	{label: "Save", act: func(s *Surface) { s.ctrl.Save(s.SavePath()) }},
	{label: "Copy", act: func(s *Surface) { s.ctrl.Copy() }},
}

func (s *Surface) toolbarClick(x int) {
	eng := s.ctrl.Engine()
	if eng == nil {
		return
	}
	idx := x / buttonWidth
	if idx < 0 || idx >= len(toolbarButtons) {
		return
	}
	b := toolbarButtons[idx]
	if b.act != nil {
		b.act(s)
		return
	}
	eng.SetTool(b.tool)
}

func (s *Surface) paintToolbar(dst *image.RGBA) {
	eng := s.ctrl.Engine()
	x := 0
	for _, b := range toolbarButtons {
		col := color.RGBA{200, 200, 200, 255}
		if eng != nil && b.act == nil && eng.Tool() == b.tool {
			col = color.RGBA{150, 150, 150, 255}
		}
		if eng == nil {
			col = color.RGBA{230, 230, 230, 255}
		}
		rect := image.Rect(x, 0, x+buttonWidth, toolbarHeight).Intersect(dst.Bounds())
		draw.Draw(dst, rect, &image.Uniform{col}, image.Point{}, draw.Src)
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.Black,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+4, 18),
		}
		d.DrawString(b.label)
		x += buttonWidth
	}
	// fill remainder of bar
	draw.Draw(dst, image.Rect(x, 0, dst.Bounds().Dx(), toolbarHeight), &image.Uniform{color.RGBA{220, 220, 220, 255}}, image.Point{}, draw.Src)
}
