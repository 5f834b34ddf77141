package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/vanderheijden86/treegrid/pkg/export"
)

type ExportCmd struct {
	flags *Flags
	view  viewFlags

	out      string
	title    string
	collapse []string
	noState  bool
}

func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Render the visible rows to an SVG or PNG image",
		UsageText: "treegrid export --out snapshot.svg [options] <file|@source>...",
		Flags: append(cmd.view.flags(true),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output image (.svg or .png)",
				Required:    true,
				Destination: &cmd.out,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "header line (defaults to the file name)",
				Destination: &cmd.title,
			},
			&cli.StringSliceFlag{
				Name:        "collapse",
				Usage:       "collapse the record with this key (repeatable)",
				Destination: &cmd.collapse,
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

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c)
	if err != nil {
		return err
	}

	cfg := cmd.flags.config()
	s, err := openSession(ctx, cfg, cmd.view.apply(c, cfg.View), args, !cmd.noState)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.applyEdits(cmd.collapse, nil); err != nil {
		return err
	}
	s.window(cmd.view.top, cmd.view.count)

	title := cmd.title
	if title == "" {
		title = s.title()
	}
	rows := s.vm.VisibleRows()
	err = export.SaveRowsSnapshot(export.RowsSnapshotOptions{
		Path:  cmd.out,
		Title: title,
		Rows:  rows,
		Label: s.label,
	})
	if errors.Is(err, export.ErrNoRows) {
		return fmt.Errorf("%v: %w", args, err)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.Root().Writer, "wrote %d rows to %s\n", len(rows), cmd.out)
	return err
}
