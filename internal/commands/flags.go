// Package commands implements the treegrid command line.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/vanderheijden86/treegrid/pkg/config"
)

// Flags holds the global flags. Config is loaded in the Before hook and
// available to all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	Config *config.Config
}

// config returns the loaded configuration, or the defaults when the
// Before hook did not run.
func (f *Flags) config() config.Config {
	if f.Config == nil {
		return config.DefaultConfig()
	}
	return *f.Config
}

// viewFlags are the view model overrides shared by view, dump and export.
type viewFlags struct {
	flat        bool
	fixedRows   int
	expandLevel int
	top         int
	count       int
}

func (v *viewFlags) flags(window bool) []cli.Flag {
	fl := []cli.Flag{
		&cli.BoolFlag{
			Name:        "flat",
			Usage:       "show records in physical order without a hierarchy",
			Destination: &v.flat,
		},
		&cli.IntFlag{
			Name:        "fixed-rows",
			Usage:       "number of leading rows frozen above the window",
			Destination: &v.fixedRows,
		},
		&cli.IntFlag{
			Name:        "expand-level",
			Usage:       "expand nodes above this depth on load (-1 expands everything)",
			Destination: &v.expandLevel,
		},
	}
	if window {
		fl = append(fl,
			&cli.IntFlag{
				Name:        "top",
				Usage:       "first scrollable row of the window",
				Destination: &v.top,
			},
			&cli.IntFlag{
				Name:        "count",
				Usage:       "window size (0 shows every row)",
				Destination: &v.count,
			},
		)
	}
	return fl
}

// apply merges the flags that were set on c into view.
func (v *viewFlags) apply(c *cli.Command, view config.ViewConfig) config.ViewConfig {
	if c.IsSet("flat") {
		view.Tree = !v.flat
	}
	if c.IsSet("fixed-rows") {
		view.FixedRows = v.fixedRows
	}
	if c.IsSet("expand-level") {
		view.ExpandLevel = v.expandLevel
	}
	return view
}

func errWriter(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func requireArgs(c *cli.Command) ([]string, error) {
	if c.Args().Len() == 0 {
		return nil, fmt.Errorf("%s: at least one record file is required", c.Name)
	}
	return c.Args().Slice(), nil
}
