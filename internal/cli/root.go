// Package cli implements the boxscore command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/boxscore/backend/internal/app"
	"github.com/boxscore/backend/internal/config"
	"github.com/boxscore/backend/internal/logger"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "boxscore",
		Short:        "NBA box-score predictions per player and team",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")

	cmd.AddCommand(
		newPredictCmd(opts),
		newSimulateCmd(opts),
		newTeamsCmd(),
		newServeCmd(opts),
	)
	return cmd
}

// withApp loads config, wires the application and runs fn until it returns or the process is interrupted
func withApp(opts *rootOptions, fn func(ctx context.Context, a *app.App) error) error {
	cfg := config.Load()
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, logger.New(cfg.LogLevel))
	defer a.Close()

	return fn(ctx, a)
}
