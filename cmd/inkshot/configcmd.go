package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/inkshot/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	cmd := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *configCmd) Run() error {
	loader := config.NewLoader(version, configPathOverride)
	fmt.Fprintf(os.Stdout, "# %s\n", loader.GetConfigPath())
	fmt.Fprint(os.Stdout, c.config.String())
	return nil
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
