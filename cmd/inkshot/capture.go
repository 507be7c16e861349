package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/inkshot/internal/capture"
	"github.com/example/inkshot/internal/engine"
	"github.com/example/inkshot/internal/host"
	"github.com/example/inkshot/internal/session"
	"github.com/example/inkshot/internal/ui"
)

type captureCmd struct {
	*root
	fs *flag.FlagSet

	screenshotPath string
	display        string
	cursor         bool
	saveDir        string
	pixelRatio     float64
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	cmd := &captureCmd{root: r, fs: fs}
	fs.StringVar(&cmd.screenshotPath, "screenshot", "", "annotate an existing PNG file instead of grabbing the screen")
	fs.StringVar(&cmd.display, "display", "", "monitor to capture: empty for all, \"primary\", an index, or a name fragment")
	fs.BoolVar(&cmd.cursor, "cursor", false, "include the pointer in the capture when the backend supports it")
	fs.StringVar(&cmd.saveDir, "save-dir", r.config.SaveDir, "directory save actions write into")
	fs.Float64Var(&cmd.pixelRatio, "pixel-ratio", r.config.PixelRatio, "export density multiplier, clamped to [1, 3]")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *captureCmd) Run() error {
	var pngBytes []byte
	if c.screenshotPath != "" {
		data, err := os.ReadFile(c.screenshotPath)
		if err != nil {
			return fmt.Errorf("read screenshot: %w", err)
		}
		pngBytes = data
	} else {
		data, err := capture.ScreenshotPNG(capture.Options{IncludeCursor: c.cursor, Display: c.display})
		if err != nil {
			return fmt.Errorf("capture screen: %w", err)
		}
		pngBytes = data
	}
	if c.notifier != nil {
		c.notifier.Capture("screen", nil)
	}

	var runErr error
	driver.Main(func(scr screen.Screen) {
		var surf *ui.Surface
		requests := host.NewLocal(
			host.WithNotifier(c.notifier),
			host.WithPinFunc(func(png []byte, x, y, w, h int) error {
				return surf.Pin(png, x, y, w, h)
			}),
		)
		ctrl := session.New(requests,
			session.WithPixelRatio(c.pixelRatio),
			session.WithDispatch(func(fn func()) { surf.Dispatch(fn) }),
		)
		surf = ui.New(scr, ctrl, ui.WithSaveDir(c.saveDir))
		ctrl.SetEngineOptions(
			engine.WithStyle(c.config.StartStyle()),
			engine.WithBounds(c.config.StyleBounds()),
			engine.WithTextSurface(surf.TextInput()),
		)
		runErr = surf.Run(pngBytes)
	})
	return runErr
}

func (c *captureCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
