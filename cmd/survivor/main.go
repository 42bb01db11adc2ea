package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/survivor-pool/app"
	"github.com/Black-And-White-Club/survivor-pool/app/observability"
	"github.com/Black-And-White-Club/survivor-pool/config"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "survivor",
		Usage: "tennis survivor pool scoring service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"SURVIVOR_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			recomputeCommand(),
			sweepCommand(),
			standingsCommand(),
			resultCommand(),
			importCommand(),
			tournamentCommand(),
			migrateCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, observability.NewLogger(cfg.Observability.Environment), nil
}

// withApp builds the application for a one-shot command and closes it afterwards.
func withApp(c *cli.Context, fn func(a *app.App) error) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	a, err := app.NewApp(c.Context, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(c.Context)); err != nil {
			logger.Warn("Shutdown finished with errors", slog.Any("error", err))
		}
	}()
	return fn(a)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "consume scoring events, run the River workers and serve /metrics and /healthz",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(c)
			if err != nil {
				return err
			}
			a, err := app.NewApp(c.Context, cfg, logger, app.Options{Serve: true})
			if err != nil {
				return err
			}
			runErr := a.Run(c.Context)
			if err := a.Close(context.WithoutCancel(c.Context)); err != nil {
				logger.Warn("Shutdown finished with errors", slog.Any("error", err))
			}
			return runErr
		},
	}
}
