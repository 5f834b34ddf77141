// Command treegrid browses hierarchical record files in the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/vanderheijden86/treegrid/internal/commands"
	"github.com/vanderheijden86/treegrid/pkg/config"
	"github.com/vanderheijden86/treegrid/pkg/debug"
	"github.com/vanderheijden86/treegrid/pkg/version"
)

func main() {
	ctx := context.Background()

	var logCloser func()
	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "treegrid",
		Usage:     "Browse hierarchical record files as a tree grid",
		UsageText: "treegrid [global options] command [command options]",
		Description: `treegrid reads flat record files in which every record names its parent
by key, and shows them as an expandable, checkable tree.

Record files may be JSONL, YAML or SQLite. Several files can be given at
once; their records are concatenated in argument order.`,
		Version: version.Build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error); overrides log.level",
				Sources:     cli.EnvVars("TREEGRID_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to log.file, then <state-dir>/treegrid.log)",
				Sources:     cli.EnvVars("TREEGRID_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TREEGRID_CONFIG"),
				Value:       config.ConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = &cfg

			level := flags.LogLevel
			if level == "" {
				level = cfg.Log.Level
			}
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.Log.File
			}
			if logFile == "" {
				logFile = config.DefaultLogFile()
			}

			closer, err := debug.Setup(level, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logCloser = closer

			log.Debug().Str("config", flags.ConfigPath).Str("version", version.Version).Msg("starting")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewViewCmd(flags).Register(app)
	app = commands.NewDumpCmd(flags).Register(app)
	app = commands.NewExportCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
