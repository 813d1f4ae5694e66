package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"ppc-sim/internal/config"
	"ppc-sim/internal/config/configs"
)

// app carries what every subcommand needs. It is filled in by the root
// command before a subcommand runs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// signalExit reports that serve stopped because of a termination signal.
type signalExit struct {
	sig syscall.Signal
}

func (e *signalExit) Error() string {
	return fmt.Sprintf("terminated by %s", e.sig)
}

// main is the entry point of ppcsim. Without a subcommand it serves the
// HTTP API. A termination signal yields exit code 128 + signal.
func main() {
	err := newRootCmd().Execute()

	var sigErr *signalExit
	switch {
	case err == nil:
		os.Exit(0)
	case errors.As(err, &sigErr):
		os.Exit(128 + int(sigErr.sig))
	default:
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ppcsim",
		Short:         "PPC campaign simulator and feedback service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load configuration from environment variables.
			cfg, err := config.Load()
			if err != nil {
				slog.Error("failed to load config", slog.Any("error", err))
				return err
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.Env, cfg.Log)
			return nil
		},
	}

	serve := newServeCmd(a)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(a), newSeedCmd(a), newEvaluateCmd(a))
	return root
}

// newLogger initialises the structured logger based on configuration.
func newLogger(w io.Writer, env string, cfg configs.Logger) *slog.Logger {
	return slog.New(cfg.Handler(w)).With(slog.String("env", env))
}
