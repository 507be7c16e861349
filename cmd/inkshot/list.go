package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/inkshot/internal/capture"
)

type monitorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	cmd := &monitorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *monitorsCmd) Run() error {
	monitors, err := capture.ListMonitors()
	if err != nil {
		return err
	}
	if len(monitors) == 0 {
		fmt.Fprintln(os.Stdout, "no monitors available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available monitors (* marks the primary):")
	for _, mon := range monitors {
		marker := " "
		if mon.Primary {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %d: %s %dx%d at %d,%d\n", marker, mon.Index, mon.Name,
			mon.Rect.Dx(), mon.Rect.Dy(), mon.Rect.Min.X, mon.Rect.Min.Y)
	}
	fmt.Fprintln(os.Stdout, "selectors: primary, an index, or a name fragment")
	return nil
}

func (c *monitorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
