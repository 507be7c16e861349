package capture

import (
	"errors"
	"image"
	"testing"
)

func fillRGBA(r image.Rectangle, v uint8) *image.RGBA {
	img := image.NewRGBA(r)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func stubGrabs(t *testing.T, x11 func() (*image.RGBA, error), portal func(bool, Options) (*image.RGBA, error), wayland bool) {
	t.Helper()
	prevX11, prevPortal, prevWayland := x11ScreenshotFn, portalScreenshotFn, waylandSessionFn
	x11ScreenshotFn = x11
	portalScreenshotFn = portal
	waylandSessionFn = func() bool { return wayland }
	t.Cleanup(func() {
		x11ScreenshotFn = prevX11
		portalScreenshotFn = prevPortal
		waylandSessionFn = prevWayland
	})
}

func TestScreenshotPrefersX11(t *testing.T) {
	stubGrabs(t,
		func() (*image.RGBA, error) { return fillRGBA(image.Rect(0, 0, 4, 4), 10), nil },
		func(bool, Options) (*image.RGBA, error) { t.Fatal("portal must not be consulted"); return nil, nil },
		false)

	img, err := Screenshot(Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if img.Pix[0] != 10 {
		t.Fatal("expected the x11 grab")
	}
}

func TestScreenshotFallsBackToPortal(t *testing.T) {
	stubGrabs(t,
		func() (*image.RGBA, error) { return nil, errors.New("no X server") },
		func(bool, Options) (*image.RGBA, error) { return fillRGBA(image.Rect(0, 0, 4, 4), 20), nil },
		false)

	img, err := Screenshot(Options{})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if img.Pix[0] != 20 {
		t.Fatal("expected the portal grab")
	}
}

func TestScreenshotWaylandSkipsX11(t *testing.T) {
	stubGrabs(t,
		func() (*image.RGBA, error) { t.Fatal("x11 must not be consulted on wayland"); return nil, nil },
		func(bool, Options) (*image.RGBA, error) { return fillRGBA(image.Rect(0, 0, 4, 4), 30), nil },
		true)

	if _, err := Screenshot(Options{}); err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
}

func TestScreenshotCropsToMonitor(t *testing.T) {
	stubGrabs(t,
		func() (*image.RGBA, error) { return fillRGBA(image.Rect(0, 0, 100, 50), 1), nil },
		func(bool, Options) (*image.RGBA, error) { return nil, errors.New("unused") },
		false)
	prevList := listMonitorsFn
	listMonitorsFn = func() ([]MonitorInfo, error) {
		return []MonitorInfo{
			{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 60, 50), Primary: true},
			{Index: 1, Name: "HDMI-1", Rect: image.Rect(60, 0, 100, 50)},
		}, nil
	}
	t.Cleanup(func() { listMonitorsFn = prevList })

	img, err := Screenshot(Options{Display: "HDMI"})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if got := img.Bounds(); got.Dx() != 40 || got.Dy() != 50 {
		t.Fatalf("crop = %v, want 40x50", got)
	}
}

func TestFindMonitorSelectors(t *testing.T) {
	monitors := []MonitorInfo{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "DP-3", Rect: image.Rect(1920, 0, 3840, 1080), Primary: true},
	}

	if got, err := FindMonitor(monitors, ""); err != nil || got.Index != 0 {
		t.Fatalf("empty selector: %+v, %v", got, err)
	}
	if got, err := FindMonitor(monitors, "primary"); err != nil || got.Index != 1 {
		t.Fatalf("primary selector: %+v, %v", got, err)
	}
	if got, err := FindMonitor(monitors, "#1"); err != nil || got.Index != 1 {
		t.Fatalf("index selector: %+v, %v", got, err)
	}
	if got, err := FindMonitor(monitors, "dp-3"); err != nil || got.Index != 1 {
		t.Fatalf("name selector: %+v, %v", got, err)
	}
	if _, err := FindMonitor(monitors, "5"); err == nil {
		t.Fatal("out-of-range index must fail")
	}
	if _, err := FindMonitor(monitors, "VGA"); err == nil {
		t.Fatal("unknown name must fail")
	}
	if _, err := FindMonitor(nil, ""); err == nil {
		t.Fatal("empty monitor list must fail")
	}
}

func TestCropToRectOutsideImage(t *testing.T) {
	src := fillRGBA(image.Rect(0, 0, 10, 10), 1)
	if _, err := cropToRect(src, image.Rect(20, 20, 30, 30)); err == nil {
		t.Fatal("want error for crop outside the image")
	}
}
