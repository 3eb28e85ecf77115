package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/cristianoliveira/pixtweak/cmd"
	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/preset"
	"github.com/spf13/cobra"
)

// NewPresetsCmd creates the presets command.
func NewPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List presets and the values they set",
		Long: `List presets and the values they set.

Presets replace every filter value in one step and never touch rotation or
flips. In the editor, keys 1-6 apply them in the order listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprint(tw, "KEY\tPRESET")
			for _, k := range adjust.Keys {
				fmt.Fprintf(tw, "\t%s", k)
			}
			fmt.Fprintln(tw)
			for i, name := range preset.Names() {
				values, _ := preset.Lookup(name)
				fmt.Fprintf(tw, "%d\t%s", i+1, name)
				for _, k := range adjust.Keys {
					fmt.Fprintf(tw, "\t%s", strconv.FormatFloat(values[string(k)], 'f', -1, 64))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewPresetsCmd())
}
