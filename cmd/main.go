package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/ymx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:    "ymx",
		Usage:   "Move Yandex Music likes to YouTube Music and sort them into playlists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("YMX_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)",
			},
			&cli.BoolFlag{
				Name:  "log-file",
				Usage: "Also write logs to a timestamped file under logging.dir",
			},
		},
		Before:   runner.Before,
		After:    runner.After,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			runner.logger.Warn("not implemented")
			os.Exit(0)
		case errors.Is(err, context.Canceled):
			runner.logger.Warn("interrupted")
			os.Exit(130)
		default:
			runner.logger.Fatalf("application error: %v", err)
		}
	}
}
