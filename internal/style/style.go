package style

import "image/color"

// ArrowPlacement selects which ends of an arrow receive a head.
type ArrowPlacement string

const (
	ArrowStart ArrowPlacement = "start"
	ArrowEnd   ArrowPlacement = "end"
	ArrowBoth  ArrowPlacement = "both"
)

// ArrowVariant selects how an arrow head is rendered.
type ArrowVariant string

const (
	ArrowFilled  ArrowVariant = "filled"
	ArrowOutline ArrowVariant = "outline"
)

// Bounds holds the configurable limits applied when merging style
// patches. They default to the stock values and can be overridden
// through configuration.
type Bounds struct {
	StrokeWidthMin int
	StrokeWidthMax int
	OpacityMin     float64
	MosaicCellMin  int
}

// DefaultBounds returns the stock limits.
func DefaultBounds() Bounds {
	return Bounds{StrokeWidthMin: 1, StrokeWidthMax: 50, OpacityMin: 0.05, MosaicCellMin: 2}
}

// Style is the flat record describing how the next entity (or a
// restyled selection) is rendered. Pure data; entities keep their own
// copy of the values that applied when they were last touched.
type Style struct {
	Stroke      color.RGBA
	Opacity     float64
	Fill        bool
	FillColor   color.RGBA
	StrokeWidth int
	Dash        bool
	DashPattern []int
	ArrowAt     ArrowPlacement
	ArrowKind   ArrowVariant

	FontFamily string
	FontSize   float64
	FontBold   bool
	FontItalic bool

	TextBackground        bool
	TextBackgroundColor   color.RGBA
	TextBackgroundOpacity float64
	TextPadding           int
	TextCornerRadius      int

	MosaicCell int
}

// Default returns the style applied to a fresh editing session.
func Default() Style {
	return Style{
		Stroke:                color.RGBA{R: 255, A: 255},
		Opacity:               1,
		FillColor:             color.RGBA{R: 255, A: 255},
		StrokeWidth:           2,
		DashPattern:           []int{6, 4},
		ArrowAt:               ArrowEnd,
		ArrowKind:             ArrowFilled,
		FontFamily:            "go-regular",
		FontSize:              20,
		TextBackground:        false,
		TextBackgroundColor:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		TextBackgroundOpacity: 0.9,
		TextPadding:           6,
		TextCornerRadius:      4,
		MosaicCell:            10,
	}
}

// Patch describes a partial style update. Nil fields leave the current
// value alone.
type Patch struct {
	Stroke      *color.RGBA
	Opacity     *float64
	Fill        *bool
	FillColor   *color.RGBA
	StrokeWidth *int
	Dash        *bool
	DashPattern []int
	ArrowAt     *ArrowPlacement
	ArrowKind   *ArrowVariant

	FontFamily *string
	FontSize   *float64
	FontBold   *bool
	FontItalic *bool

	TextBackground        *bool
	TextBackgroundColor   *color.RGBA
	TextBackgroundOpacity *float64
	TextPadding           *int
	TextCornerRadius      *int

	MosaicCell *int
}

// Merge applies patch to s under the given bounds. When the stroke color
// changes while fill is enabled and the patch carries no explicit fill
// color, the fill follows the stroke.
func (s *Style) Merge(patch Patch, b Bounds) {
	if patch.Stroke != nil {
		s.Stroke = *patch.Stroke
		if s.Fill && patch.FillColor == nil {
			s.FillColor = *patch.Stroke
		}
	}
	if patch.Fill != nil {
		s.Fill = *patch.Fill
	}
	if patch.FillColor != nil {
		s.FillColor = *patch.FillColor
	}
	if patch.Opacity != nil {
		s.Opacity = clampFloat(*patch.Opacity, b.OpacityMin, 1)
	}
	if patch.StrokeWidth != nil {
		s.StrokeWidth = clampInt(*patch.StrokeWidth, b.StrokeWidthMin, b.StrokeWidthMax)
	}
	if patch.Dash != nil {
		s.Dash = *patch.Dash
	}
	if patch.DashPattern != nil {
		s.DashPattern = append([]int(nil), patch.DashPattern...)
	}
	if patch.ArrowAt != nil {
		s.ArrowAt = *patch.ArrowAt
	}
	if patch.ArrowKind != nil {
		s.ArrowKind = *patch.ArrowKind
	}
	if patch.FontFamily != nil {
		s.FontFamily = *patch.FontFamily
	}
	if patch.FontSize != nil {
		s.FontSize = *patch.FontSize
	}
	if patch.FontBold != nil {
		s.FontBold = *patch.FontBold
	}
	if patch.FontItalic != nil {
		s.FontItalic = *patch.FontItalic
	}
	if patch.TextBackground != nil {
		s.TextBackground = *patch.TextBackground
	}
	if patch.TextBackgroundColor != nil {
		s.TextBackgroundColor = *patch.TextBackgroundColor
	}
	if patch.TextBackgroundOpacity != nil {
		s.TextBackgroundOpacity = clampFloat(*patch.TextBackgroundOpacity, b.OpacityMin, 1)
	}
	if patch.TextPadding != nil {
		s.TextPadding = *patch.TextPadding
	}
	if patch.TextCornerRadius != nil {
		s.TextCornerRadius = *patch.TextCornerRadius
	}
	if patch.MosaicCell != nil {
		cell := *patch.MosaicCell
		if cell < b.MosaicCellMin {
			cell = b.MosaicCellMin
		}
		s.MosaicCell = cell
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
