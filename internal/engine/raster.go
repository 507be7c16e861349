package engine

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/inkshot/internal/scene"
	"github.com/example/inkshot/internal/style"
)

// markerOpacity is the translucency factor applied to marker strokes on
// top of the user's configured opacity.
const markerOpacity = 0.45

// Renderer turns scene entities into pixels and answers geometric
// queries about them. The draw engine is renderer-agnostic; the raster
// backend below is the shipped implementation.
type Renderer interface {
	Draw(dst *image.RGBA, e *scene.Entity)
	HitTest(entities []*scene.Entity, p image.Point) *scene.Entity
	BoundingBox(e *scene.Entity) image.Rectangle
}

// Raster renders entities directly onto an RGBA canvas.
type Raster struct{}

var _ Renderer = (*Raster)(nil)

func (Raster) Draw(dst *image.RGBA, e *scene.Entity) {
	col := strokeColor(e)
	w := e.Style.StrokeWidth
	switch e.Kind {
	case scene.KindRect:
		drawRectEntity(dst, e, col, w)
	case scene.KindEllipse:
		drawEllipseEntity(dst, e, col, w)
	case scene.KindLine:
		p0, p1 := rotatedEndpoints(e)
		strokeSegment(dst, p0, p1, col, w, e.Style)
	case scene.KindArrow:
		p0, p1 := rotatedEndpoints(e)
		drawArrowEntity(dst, p0, p1, col, w, e.Style)
	case scene.KindFreehand:
		drawFreehand(dst, e, col, w)
	case scene.KindText:
		drawTextEntity(dst, e)
	case scene.KindMosaic:
		if e.Block != nil {
			draw.Draw(dst, e.Rect, e.Block, e.Block.Bounds().Min, draw.Src)
		}
	}
}

func (r Raster) HitTest(entities []*scene.Entity, p image.Point) *scene.Entity {
	// Topmost first, matching paint order.
	for i := len(entities) - 1; i >= 0; i-- {
		e := entities[i]
		if r.hits(e, p) {
			return e
		}
	}
	return nil
}

func (r Raster) hits(e *scene.Entity, p image.Point) bool {
	tol := e.Style.StrokeWidth/2 + 4
	switch e.Kind {
	case scene.KindRect:
		if e.Style.Fill && p.In(e.Rect) {
			return true
		}
		return nearRectBorder(e.Rect, p, tol)
	case scene.KindEllipse:
		return hitsEllipse(e.Rect, p, tol, e.Style.Fill)
	case scene.KindLine, scene.KindArrow:
		p0, p1 := rotatedEndpoints(e)
		return segmentDistance(p0, p1, p) <= float64(tol)
	case scene.KindFreehand:
		for i := 1; i < len(e.Points); i++ {
			if segmentDistance(e.Points[i-1], e.Points[i], p) <= float64(tol) {
				return true
			}
		}
		return false
	case scene.KindText:
		return p.In(r.BoundingBox(e))
	case scene.KindMosaic:
		return p.In(e.Rect)
	}
	return false
}

func (Raster) BoundingBox(e *scene.Entity) image.Rectangle {
	switch e.Kind {
	case scene.KindRect, scene.KindEllipse, scene.KindMosaic:
		return e.Rect
	case scene.KindLine, scene.KindArrow:
		p0, p1 := rotatedEndpoints(e)
		return image.Rect(p0.X, p0.Y, p0.X, p0.Y).Union(image.Rect(p1.X, p1.Y, p1.X, p1.Y)).Inset(-e.Style.StrokeWidth)
	case scene.KindFreehand:
		if len(e.Points) == 0 {
			return image.Rectangle{}
		}
		box := image.Rect(e.Points[0].X, e.Points[0].Y, e.Points[0].X, e.Points[0].Y)
		for _, p := range e.Points[1:] {
			box = box.Union(image.Rect(p.X, p.Y, p.X, p.Y))
		}
		return box.Inset(-e.Style.StrokeWidth)
	case scene.KindText:
		return textInkRect(e).Inset(-e.Style.TextPadding)
	}
	return image.Rectangle{}
}

func strokeColor(e *scene.Entity) color.RGBA {
	op := e.Style.Opacity
	if e.Kind == scene.KindFreehand && e.Marker {
		op *= markerOpacity
	}
	return applyOpacity(e.Style.Stroke, op)
}

func applyOpacity(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}

// blendPixel composites col over the destination pixel. Fully opaque
// colors are set directly.
func blendPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if !(image.Pt(x, y).In(img.Bounds())) {
		return
	}
	if col.A == 0xFF {
		img.SetRGBA(x, y, col)
		return
	}
	off := img.PixOffset(x, y)
	a := int(col.A)
	inv := 255 - a
	img.Pix[off+0] = uint8((int(col.R)*a + int(img.Pix[off+0])*inv) / 255)
	img.Pix[off+1] = uint8((int(col.G)*a + int(img.Pix[off+1])*inv) / 255)
	img.Pix[off+2] = uint8((int(col.B)*a + int(img.Pix[off+2])*inv) / 255)
	outA := a + int(img.Pix[off+3])*inv/255
	if outA > 255 {
		outA = 255
	}
	img.Pix[off+3] = uint8(outA)
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.RGBA) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			blendPixel(img, x+dx, y+dy, col)
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// drawDashedSegment walks the line in pattern-sized runs, skipping the
// gaps. pattern alternates on/off lengths.
func drawDashedSegment(img *image.RGBA, p0, p1 image.Point, col color.RGBA, thick int, pattern []int) {
	if len(pattern) == 0 {
		drawLine(img, p0.X, p0.Y, p1.X, p1.Y, col, thick)
		return
	}
	total := math.Hypot(float64(p1.X-p0.X), float64(p1.Y-p0.Y))
	if total == 0 {
		setThickPixel(img, p0.X, p0.Y, thick, col)
		return
	}
	ux := float64(p1.X-p0.X) / total
	uy := float64(p1.Y-p0.Y) / total
	pos := 0.0
	idx := 0
	on := true
	for pos < total {
		seg := float64(pattern[idx%len(pattern)])
		end := pos + seg
		if end > total {
			end = total
		}
		if on {
			ax := p0.X + int(ux*pos+0.5)
			ay := p0.Y + int(uy*pos+0.5)
			bx := p0.X + int(ux*end+0.5)
			by := p0.Y + int(uy*end+0.5)
			drawLine(img, ax, ay, bx, by, col, thick)
		}
		pos = end
		idx++
		on = !on
	}
}

func strokeSegment(img *image.RGBA, p0, p1 image.Point, col color.RGBA, thick int, st style.Style) {
	if st.Dash {
		drawDashedSegment(img, p0, p1, col, thick, st.DashPattern)
		return
	}
	drawLine(img, p0.X, p0.Y, p1.X, p1.Y, col, thick)
}

func fillRect(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			blendPixel(img, x, y, col)
		}
	}
}

func drawRectEntity(dst *image.RGBA, e *scene.Entity, col color.RGBA, w int) {
	if e.Rotation == 0 {
		if e.Style.Fill {
			fillRect(dst, e.Rect, applyOpacity(e.Style.FillColor, e.Style.Opacity))
		}
		strokeSegment(dst, e.Rect.Min, image.Pt(e.Rect.Max.X-1, e.Rect.Min.Y), col, w, e.Style)
		strokeSegment(dst, image.Pt(e.Rect.Max.X-1, e.Rect.Min.Y), image.Pt(e.Rect.Max.X-1, e.Rect.Max.Y-1), col, w, e.Style)
		strokeSegment(dst, image.Pt(e.Rect.Max.X-1, e.Rect.Max.Y-1), image.Pt(e.Rect.Min.X, e.Rect.Max.Y-1), col, w, e.Style)
		strokeSegment(dst, image.Pt(e.Rect.Min.X, e.Rect.Max.Y-1), e.Rect.Min, col, w, e.Style)
		return
	}
	corners := rotatedCorners(e.Rect, e.Rotation)
	for i := 0; i < 4; i++ {
		strokeSegment(dst, corners[i], corners[(i+1)%4], col, w, e.Style)
	}
}

func drawEllipseEntity(dst *image.RGBA, e *scene.Entity, col color.RGBA, w int) {
	cx := (e.Rect.Min.X + e.Rect.Max.X) / 2
	cy := (e.Rect.Min.Y + e.Rect.Max.Y) / 2
	rx := e.Rect.Dx() / 2
	ry := e.Rect.Dy() / 2
	rot := e.Rotation * math.Pi / 180

	if e.Style.Fill && e.Rotation == 0 {
		fc := applyOpacity(e.Style.FillColor, e.Style.Opacity)
		for dy := -ry; dy <= ry; dy++ {
			if ry == 0 {
				continue
			}
			span := int(float64(rx) * math.Sqrt(1.0-float64(dy*dy)/float64(ry*ry)))
			for dx := -span; dx <= span; dx++ {
				blendPixel(dst, cx+dx, cy+dy, fc)
			}
		}
	}

	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(float64(rx*rx+ry*ry))))
	if steps < 8 {
		steps = 8
	}
	var prev image.Point
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		ex := math.Cos(angle) * float64(rx)
		ey := math.Sin(angle) * float64(ry)
		x := cx + int(ex*math.Cos(rot)-ey*math.Sin(rot))
		y := cy + int(ex*math.Sin(rot)+ey*math.Cos(rot))
		pt := image.Pt(x, y)
		if i > 0 {
			strokeSegment(dst, prev, pt, col, w, e.Style)
		} else {
			setThickPixel(dst, x, y, w, col)
		}
		prev = pt
	}
}

func drawArrowEntity(dst *image.RGBA, p0, p1 image.Point, col color.RGBA, w int, st style.Style) {
	strokeSegment(dst, p0, p1, col, w, st)
	at := st.ArrowAt
	if at == "" {
		at = style.ArrowEnd
	}
	if at == style.ArrowEnd || at == style.ArrowBoth {
		drawArrowHead(dst, p0, p1, col, w, st.ArrowKind)
	}
	if at == style.ArrowStart || at == style.ArrowBoth {
		drawArrowHead(dst, p1, p0, col, w, st.ArrowKind)
	}
}

func drawArrowHead(img *image.RGBA, from, tip image.Point, col color.RGBA, thick int, kind style.ArrowVariant) {
	angle := math.Atan2(float64(tip.Y-from.Y), float64(tip.X-from.X))
	size := float64(6 + thick*2)
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	w1 := image.Pt(tip.X-int(math.Cos(a1)*size), tip.Y-int(math.Sin(a1)*size))
	w2 := image.Pt(tip.X-int(math.Cos(a2)*size), tip.Y-int(math.Sin(a2)*size))
	drawLine(img, tip.X, tip.Y, w1.X, w1.Y, col, thick)
	drawLine(img, tip.X, tip.Y, w2.X, w2.Y, col, thick)
	if kind == style.ArrowFilled {
		fillTriangle(img, tip, w1, w2, col)
	}
}

func fillTriangle(img *image.RGBA, a, b, c image.Point, col color.RGBA) {
	minX := min3(a.X, b.X, c.X)
	maxX := max3(a.X, b.X, c.X)
	minY := min3(a.Y, b.Y, c.Y)
	maxY := max3(a.Y, b.Y, c.Y)
	den := float64((b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y))
	if den == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			l1 := float64((b.Y-c.Y)*(x-c.X)+(c.X-b.X)*(y-c.Y)) / den
			l2 := float64((c.Y-a.Y)*(x-c.X)+(a.X-c.X)*(y-c.Y)) / den
			l3 := 1 - l1 - l2
			if l1 >= 0 && l2 >= 0 && l3 >= 0 {
				blendPixel(img, x, y, col)
			}
		}
	}
}

func drawFreehand(dst *image.RGBA, e *scene.Entity, col color.RGBA, w int) {
	if len(e.Points) == 1 {
		setThickPixel(dst, e.Points[0].X, e.Points[0].Y, w, col)
		return
	}
	for i := 1; i < len(e.Points); i++ {
		drawLine(dst, e.Points[i-1].X, e.Points[i-1].Y, e.Points[i].X, e.Points[i].Y, col, w)
	}
}

func rotatedEndpoints(e *scene.Entity) (image.Point, image.Point) {
	if e.Rotation == 0 {
		return e.P0, e.P1
	}
	cx := float64(e.P0.X+e.P1.X) / 2
	cy := float64(e.P0.Y+e.P1.Y) / 2
	return rotatePoint(e.P0, cx, cy, e.Rotation), rotatePoint(e.P1, cx, cy, e.Rotation)
}

func rotatedCorners(r image.Rectangle, deg float64) [4]image.Point {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	return [4]image.Point{
		rotatePoint(r.Min, cx, cy, deg),
		rotatePoint(image.Pt(r.Max.X, r.Min.Y), cx, cy, deg),
		rotatePoint(r.Max, cx, cy, deg),
		rotatePoint(image.Pt(r.Min.X, r.Max.Y), cx, cy, deg),
	}
}

func rotatePoint(p image.Point, cx, cy, deg float64) image.Point {
	rad := deg * math.Pi / 180
	dx := float64(p.X) - cx
	dy := float64(p.Y) - cy
	return image.Pt(
		int(cx+dx*math.Cos(rad)-dy*math.Sin(rad)+0.5),
		int(cy+dx*math.Sin(rad)+dy*math.Cos(rad)+0.5),
	)
}

func nearRectBorder(r image.Rectangle, p image.Point, tol int) bool {
	outer := r.Inset(-tol)
	inner := r.Inset(tol)
	if !p.In(outer) {
		return false
	}
	if inner.Empty() {
		return true
	}
	return !p.In(inner)
}

func hitsEllipse(r image.Rectangle, p image.Point, tol int, filled bool) bool {
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx == 0 || ry == 0 {
		return false
	}
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry
	nx := (float64(p.X) - cx) / rx
	ny := (float64(p.Y) - cy) / ry
	d := nx*nx + ny*ny
	if filled {
		return d <= 1
	}
	// Ring test with tolerance scaled to the smaller radius.
	edge := float64(tol) / math.Min(rx, ry)
	return math.Abs(math.Sqrt(d)-1) <= edge
}

func segmentDistance(a, b, p image.Point) float64 {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	px, py := float64(p.X), float64(p.Y)
	dx := bx - ax
	dy := by - ay
	if dx == 0 && dy == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

func degrees(dx, dy float64) float64 {
	return math.Atan2(dy, dx) * 180 / math.Pi
}

func snapAngle(deg, step float64) float64 {
	return math.Round(deg/step) * step
}

func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
