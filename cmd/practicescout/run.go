package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/app"
	"github.com/leadscope/practicescout/internal/config"
	"github.com/leadscope/practicescout/internal/logging"
	"github.com/leadscope/practicescout/internal/scout"
)

// newRunCmd creates and configures the 'run' subcommand.
func newRunCmd(exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Researches every row in the input file",
		Long: `Reads the configured input file and researches each practice row
concurrently. The run ends early when the search quota is exhausted or
authentication fails; rows already in flight still finish.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, exitCode)
		},
	}
	cmd.Flags().String("input", "", "input CSV file (overrides run.input)")
	return cmd
}

func runCommand(cmd *cobra.Command, exitCode *int) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		*exitCode = exitSetup
		return err
	}
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		cfg.Run.Input = input
	}
	if cfg.Run.Input == "" {
		*exitCode = exitSetup
		return fmt.Errorf("run.input is required (set it in config or pass --input)")
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		*exitCode = exitSetup
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		*exitCode = exitSetup
		return err
	}

	report, err := application.Run(ctx)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
	}

	switch report.Status {
	case scout.RunCompleted:
		*exitCode = exitOK
	case scout.RunQuotaExhausted:
		*exitCode = exitQuota
	case scout.RunAuthFailed:
		*exitCode = exitAuth
	case scout.RunCanceled:
		*exitCode = exitCanceled
	default:
		*exitCode = exitSetup
	}
	if err != nil && *exitCode == exitOK {
		*exitCode = exitSetup
	}
	return err
}
