package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// Exit codes surfaced by the run command.
const (
	exitOK       = 0
	exitSetup    = 1
	exitQuota    = 2
	exitAuth     = 3
	exitCanceled = 130
)

// newRootCmd creates and configures the root command.
func newRootCmd(exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practicescout",
		Short: "Research tool that builds marketing profiles of medical practices.",
		Long: `practicescout takes a spreadsheet of practice names and addresses and
researches each one: it finds the official website, crawls it for the
services offered, and gathers social, review, competitor, and demographic
signals. One JSON record is written per input row.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	cmd.AddCommand(newRunCmd(exitCode))
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	exitCode := exitOK
	root := newRootCmd(&exitCode)
	if err := root.Execute(); err != nil {
		if exitCode == exitOK {
			exitCode = exitSetup
		}
	}
	return exitCode
}
