package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treegrid/pkg/config"
)

type ConfigCmd struct {
	flags *Flags

	defaults bool
	force    bool
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Create the configuration file interactively",
				UsageText: "treegrid config init [options]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "defaults",
						Usage:       "write the defaults without asking",
						Destination: &cmd.defaults,
					},
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "overwrite an existing file",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runInit,
			},
			{
				Name:      "show",
				Usage:     "Print the effective configuration",
				UsageText: "treegrid config show",
				Action:    cmd.runShow,
			},
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "treegrid config validate",
				Action:    cmd.runValidate,
			},
			{
				Name:      "add-source",
				Usage:     "Register a record file under a name usable as @name",
				UsageText: "treegrid config add-source <name> <path>",
				Action:    cmd.runAddSource,
			},
		},
	})
	return app
}

func (cmd *ConfigCmd) runInit(ctx context.Context, c *cli.Command) error {
	path := cmd.flags.ConfigPath
	if _, err := os.Stat(path); err == nil && !cmd.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := cmd.flags.config()
	if !cmd.defaults {
		if err := runConfigWizard(&cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.Root().Writer, "wrote %s\n", path)
	return err
}

func (cmd *ConfigCmd) runShow(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.config()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.Root().Writer, "# %s\n%s", cmd.flags.ConfigPath, data)
	return err
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	// Load already validated the file; read it again so a missing file is
	// reported instead of silently falling back to the defaults.
	if _, err := os.Stat(cmd.flags.ConfigPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s does not exist (run 'treegrid config init')", cmd.flags.ConfigPath)
	}
	cfg, err := config.LoadFrom(cmd.flags.ConfigPath)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.Root().Writer, "%s is valid (%d sources)\n", cmd.flags.ConfigPath, len(cfg.Sources))
	return err
}

func (cmd *ConfigCmd) runAddSource(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return errors.New("usage: treegrid config add-source <name> <path>")
	}
	name, path := c.Args().Get(0), c.Args().Get(1)
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	cfg := cmd.flags.config()
	cfg.SetSource(name, abs)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cmd.flags.ConfigPath, cfg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.Root().Writer, "@%s -> %s\n", name, abs)
	return err
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

// runConfigWizard asks for the source columns and view settings, starting
// from the values in cfg.
func runConfigWizard(cfg *config.Config) error {
	fixedRows := strconv.Itoa(cfg.View.FixedRows)
	expandLevel := strconv.Itoa(cfg.View.ExpandLevel)

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Key column").
				Description("Column holding the unique record key").
				Value(&cfg.Source.KeyField).
				Validate(required),
			huh.NewInput().
				Title("Parent column").
				Description("Column holding the key of the parent record").
				Value(&cfg.Source.ParentField).
				Validate(required),
			huh.NewInput().
				Title("Title column").
				Value(&cfg.Source.TitleField),
			huh.NewInput().
				Title("SQLite table").
				Value(&cfg.Source.Table),
		).Title("Record source"),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show records as a tree?").
				Affirmative("Tree").
				Negative("Flat list").
				Value(&cfg.View.Tree),
			huh.NewSelect[string]().
				Title("Expand on load").
				Options(
					huh.NewOption("Everything", "-1"),
					huh.NewOption("Roots only", "0"),
					huh.NewOption("Two levels", "1"),
				).
				Value(&expandLevel),
			huh.NewConfirm().
				Title("Propagate checks to children and parents?").
				Value(&cfg.View.CorrelateCheck),
			huh.NewConfirm().
				Title("Checking a parent only checks its children?").
				Value(&cfg.View.OnlyChildren),
			huh.NewInput().
				Title("Frozen rows").
				Description("Leading rows that never scroll").
				Value(&fixedRows).
				Validate(nonNegative),
		).Title("View"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.Log.Level),
		).Title("Logging"),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.View.FixedRows, _ = strconv.Atoi(fixedRows)
	cfg.View.ExpandLevel, _ = strconv.Atoi(expandLevel)
	return nil
}

func required(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

func nonNegative(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errors.New("enter a number >= 0")
	}
	return nil
}
