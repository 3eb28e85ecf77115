// Package cmd holds the root command shared by the pixtweak binary.
package cmd

import (
	"fmt"

	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/config"
	"github.com/cristianoliveira/pixtweak/internal/logging"
	"github.com/cristianoliveira/pixtweak/internal/version"
	"github.com/spf13/cobra"
)

var (
	debugFlag bool
	quietFlag bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "pixtweak",
	Short: "Non-destructive image adjustments from the terminal.",
	Long: `Non-destructive image adjustments from the terminal.

Adjustments are kept per image and never touch the source file. Exports
write a job record that post-export hooks turn into pixels.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := logging.ShutdownGlobal(); err != nil {
			colors.Debug(fmt.Sprintf("logger shutdown: %v", err))
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug output")
	RootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress console messages")
}

// setup loads configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	config.Load()
	colors.SetDebug(debugFlag || config.GetBool("debug", false))
	colors.SetQuiet(quietFlag)
	if err := logging.InitGlobal(); err != nil {
		// File logging is optional; keep going with console output only.
		colors.Warning(fmt.Sprintf("logging disabled: %v", err))
	}
	logging.Debug("command started", "command", cmd.CommandPath())
	return nil
}
