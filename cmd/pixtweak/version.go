package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/pixtweak/cmd"
	"github.com/cristianoliveira/pixtweak/internal/version"
	"github.com/spf13/cobra"
)

// versionOutputWriter is the writer used by PrintVersion. Can be changed for testing.
var versionOutputWriter io.Writer = os.Stdout

// PrintVersion prints the version line.
func PrintVersion() {
	fmt.Fprintln(versionOutputWriter, version.Line())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Show the current version of pixtweak.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersion()
	},
}

func init() {
	cmd.RootCmd.AddCommand(versionCmd)
}
