package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/inkshot/internal/capture"
)

type shotCmd struct {
	*root
	fs *flag.FlagSet

	output  string
	display string
	cursor  bool
}

func parseShotCmd(args []string, r *root) (*shotCmd, error) {
	fs := flag.NewFlagSet("shot", flag.ExitOnError)
	cmd := &shotCmd{root: r, fs: fs}
	fs.StringVar(&cmd.output, "output", "", "file to write; empty picks a timestamped name in the save dir")
	fs.StringVar(&cmd.display, "display", "", "monitor to capture: empty for all, \"primary\", an index, or a name fragment")
	fs.BoolVar(&cmd.cursor, "cursor", false, "include the pointer in the capture when the backend supports it")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *shotCmd) Run() error {
	data, err := capture.ScreenshotPNG(capture.Options{IncludeCursor: c.cursor, Display: c.display})
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}
	path := c.output
	if path == "" {
		dir := c.config.SaveDir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, fmt.Sprintf("inkshot-%s.png", time.Now().Format("20060102-150405")))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create save dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	if c.notifier != nil {
		c.notifier.Save(path)
	}
	fmt.Fprintln(os.Stdout, path)
	return nil
}

func (c *shotCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
