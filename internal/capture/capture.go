// Package capture grabs the desktop bitmap that seeds a capture
// session. On X11 it reads the root window directly; on Wayland, or
// when the direct grab fails, it falls back to the
// org.freedesktop.portal screenshot service.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"strconv"
	"strings"
)

// Options controls how the screen is grabbed.
type Options struct {
	// IncludeCursor embeds the pointer in the grabbed image when the
	// backend supports it.
	IncludeCursor bool
	// Display selects a monitor to crop to: empty for the whole
	// desktop, "primary", an index ("0", "#1"), or a name fragment.
	Display string
}

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = fmt.Errorf("no monitors available")

// Indirection points for tests.
var (
	x11ScreenshotFn    = x11Screenshot
	portalScreenshotFn = portalScreenshot
	listMonitorsFn     = listMonitors
	waylandSessionFn   = runningOnWayland
)

// Screenshot grabs the desktop. With a display selector the result is
// cropped to the matching monitor.
func Screenshot(opts Options) (*image.RGBA, error) {
	img, err := grabScreen(opts)
	if err != nil {
		return nil, err
	}
	if opts.Display == "" {
		return img, nil
	}
	monitors, err := listMonitorsFn()
	if err != nil {
		return nil, err
	}
	monitor, err := FindMonitor(monitors, opts.Display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, monitor.Rect)
}

// ScreenshotPNG grabs the desktop and returns it PNG-encoded, the form
// the capture session consumes.
func ScreenshotPNG(opts Options) ([]byte, error) {
	img, err := Screenshot(opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// ListMonitors reports the current display layout.
func ListMonitors() ([]MonitorInfo, error) {
	return listMonitorsFn()
}

func grabScreen(opts Options) (*image.RGBA, error) {
	if !waylandSessionFn() {
		img, err := x11ScreenshotFn()
		if err == nil {
			return img, nil
		}
		log.Printf("x11 screenshot: %v, falling back to portal", err)
	}
	return portalScreenshotFn(false, opts)
}

// FindMonitor resolves a monitor selector against the provided list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	if selector == "" {
		return monitors[0], nil
	}
	sel := strings.TrimSpace(selector)
	lower := strings.ToLower(sel)
	if lower == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if strings.HasPrefix(lower, "#") {
		lower = lower[1:]
	}
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
