package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/vanderheijden86/treegrid/pkg/ui"
	"github.com/vanderheijden86/treegrid/pkg/watcher"
)

// AutoCloseEnvVar quits the grid after the given number of milliseconds.
const AutoCloseEnvVar = "TREEGRID_TUI_AUTOCLOSE_MS"

type ViewCmd struct {
	flags *Flags
	view  viewFlags

	watch   bool
	noState bool
}

func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags}
}

func (cmd *ViewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Browse record files as an interactive tree grid",
		UsageText: "treegrid view [options] <file|@source>...",
		Description: `Opens the records of one or more JSONL, YAML or SQLite files as a
scrollable tree. Expand and check flags are saved on exit and restored the
next time the same file is opened.

Press ? inside the grid for the key bindings.`,
		Flags: append(cmd.view.flags(false),
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "reload when a record file changes",
				Destination: &cmd.watch,
			},
			&cli.BoolFlag{
				Name:        "no-state",
				Usage:       "neither restore nor save the flag state",
				Destination: &cmd.noState,
			},
		),
		Action: cmd.run,
	})
	return app
}

func (cmd *ViewCmd) run(ctx context.Context, c *cli.Command) error {
	args, err := requireArgs(c)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("view needs a terminal; use 'treegrid dump' to print rows")
	}

	cfg := cmd.flags.config()
	s, err := openSession(ctx, cfg, cmd.view.apply(c, cfg.View), args, !cmd.noState)
	if err != nil {
		return err
	}
	defer s.close()

	opts := ui.GridOptions{
		Title: s.title(),
		View:  s.view,
		Label: s.label,
		Base:  s.base,
	}
	if cmd.watch {
		w, err := watcher.New(s.paths)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch %v: %w", s.paths, err)
		}
		defer w.Stop()
		opts.Watcher = w
		opts.Reload = s.Reload
	}

	grid := ui.NewGridModel(s.vm, s.ds, opts)
	defer grid.Close()

	runErr := runTUIProgram(grid)
	if err := s.saveState(); err != nil {
		s.log.Warn().Err(err).Msg("save flag state")
	}
	return runErr
}

func runTUIProgram(m tea.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	if v := os.Getenv(AutoCloseEnvVar); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
