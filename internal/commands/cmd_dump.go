package commands

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/vanderheijden86/treegrid/pkg/export"
	"github.com/vanderheijden86/treegrid/pkg/metrics"
)

type DumpCmd struct {
	flags *Flags
	view  viewFlags

	format   string
	collapse []string
	check    []string
	metrics  bool
	noState  bool
}

func NewDumpCmd(flags *Flags) *DumpCmd {
	return &DumpCmd{flags: flags}
}

func (cmd *DumpCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "dump",
		Usage:     "Print the visible rows of record files",
		UsageText: "treegrid dump [options] <file|@source>...",
		Description: `Builds the view model for the given record files and prints the rows
of its window, frozen rows first.

--collapse and --check take record keys and are applied in the order
collapse, then check. Checking follows view.correlate_check.`,
		Flags: append(cmd.view.flags(true),
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.StringSliceFlag{
				Name:        "collapse",
				Usage:       "collapse the record with this key (repeatable)",
				Destination: &cmd.collapse,
			},
			&cli.StringSliceFlag{
				Name:        "check",
				Usage:       "check the record with this key (repeatable)",
				Destination: &cmd.check,
			},
			&cli.BoolFlag{
				Name:        "metrics",
				Usage:       "print timing metrics as JSON to stderr",
				Destination: &cmd.metrics,
			},
			&cli.BoolFlag{
				Name:        "no-state",
				Usage:       "ignore the saved flag state",
				Destination: &cmd.noState,
			},
		),
		Action: cmd.run,
	})
	return app
}

func (cmd *DumpCmd) run(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c)
	if err != nil {
		return err
	}
	switch cmd.format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q (want text or json)", cmd.format)
	}

	cfg := cmd.flags.config()
	s, err := openSession(ctx, cfg, cmd.view.apply(c, cfg.View), args, !cmd.noState)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.applyEdits(cmd.collapse, cmd.check); err != nil {
		return err
	}
	s.window(cmd.view.top, cmd.view.count)

	out := c.Root().Writer
	rows := s.vm.VisibleRows()
	if cmd.format == "json" {
		err = export.WriteJSON(out, rows, s.label)
	} else {
		err = export.WriteOutline(out, rows, s.label)
	}
	if err != nil {
		return err
	}

	if cmd.metrics {
		enc := json.NewEncoder(errWriter(c))
		enc.SetIndent("", "  ")
		return enc.Encode(metrics.AllTimingStats())
	}
	return nil
}
