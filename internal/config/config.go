package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/inkshot/internal/style"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
	Pin     bool
}

// StyleDefaults holds the annotation style values applied when an
// editing session starts.
type StyleDefaults struct {
	Stroke         color.RGBA
	Opacity        float64
	StrokeWidth    int
	StrokeWidthMin int
	StrokeWidthMax int
	MosaicCell     int
	MosaicCellMin  int
}

// Config holds the application configuration.
type Config struct {
	SaveDir    string
	PixelRatio float64
	Notify     Notify
	Style      StyleDefaults
}

// New creates a new Config with defaults.
func New() *Config {
	base := style.Default()
	bounds := style.DefaultBounds()
	return &Config{
		PixelRatio: 1,
		Notify: Notify{
			Capture: false,
			Save:    false,
			Copy:    false,
			Pin:     false,
		},
		Style: StyleDefaults{
			Stroke:         base.Stroke,
			Opacity:        base.Opacity,
			StrokeWidth:    base.StrokeWidth,
			StrokeWidthMin: bounds.StrokeWidthMin,
			StrokeWidthMax: bounds.StrokeWidthMax,
			MosaicCell:     base.MosaicCell,
			MosaicCellMin:  bounds.MosaicCellMin,
		},
	}
}

// StartStyle returns the annotation style an editing session starts
// with.
func (c *Config) StartStyle() style.Style {
	s := style.Default()
	s.Stroke = c.Style.Stroke
	if s.Fill {
		s.FillColor = c.Style.Stroke
	}
	s.Opacity = c.Style.Opacity
	s.StrokeWidth = c.Style.StrokeWidth
	s.MosaicCell = c.Style.MosaicCell
	return s
}

// StyleBounds returns the configured style limits.
func (c *Config) StyleBounds() style.Bounds {
	b := style.DefaultBounds()
	if c.Style.StrokeWidthMin > 0 {
		b.StrokeWidthMin = c.Style.StrokeWidthMin
	}
	if c.Style.StrokeWidthMax > 0 {
		b.StrokeWidthMax = c.Style.StrokeWidthMax
	}
	if c.Style.MosaicCellMin > 0 {
		b.MosaicCellMin = c.Style.MosaicCellMin
	}
	return b
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.PixelRatio != 0 {
		fmt.Fprintf(&sb, "pixel_ratio = %g\n", c.PixelRatio)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "pin = %v\n", c.Notify.Pin)
	sb.WriteString("\n")

	sb.WriteString("[style]\n")
	fmt.Fprintf(&sb, "stroke = %s\n", toHex(c.Style.Stroke))
	fmt.Fprintf(&sb, "opacity = %g\n", c.Style.Opacity)
	fmt.Fprintf(&sb, "stroke_width = %d\n", c.Style.StrokeWidth)
	fmt.Fprintf(&sb, "stroke_width_min = %d\n", c.Style.StrokeWidthMin)
	fmt.Fprintf(&sb, "stroke_width_max = %d\n", c.Style.StrokeWidthMax)
	fmt.Fprintf(&sb, "mosaic_cell = %d\n", c.Style.MosaicCell)
	fmt.Fprintf(&sb, "mosaic_cell_min = %d\n", c.Style.MosaicCellMin)
	sb.WriteString("\n")

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
