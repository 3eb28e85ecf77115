package main

import (
	"fmt"

	"github.com/cristianoliveira/pixtweak/cmd"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/config"
	"github.com/cristianoliveira/pixtweak/internal/hooks"
	"github.com/spf13/cobra"
)

// NewHooksCmd creates the hooks command with explicit dependencies.
func NewHooksCmd(d *deps) *cobra.Command {
	if d == nil {
		panic("NewHooksCmd: deps dependency cannot be nil")
	}

	hooksCmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage hook scripts",
		Long: `Manage hook scripts.

Executable files in <hooks_dir>/post-load and <hooks_dir>/post-export run in
name order. Post-export scripts receive the job path in PIXTWEAK_JOB.`,
	}

	hooksCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the hook point directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.hooks().Init(); err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("hook directories ready in %s", config.Get("hooks_dir", "")))
			return nil
		},
	})

	hooksCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the scripts of every hook point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := d.hooks()
			w := cmd.OutOrStdout()
			for _, point := range []string{hooks.PostExport, hooks.PostLoad} {
				fmt.Fprintf(w, "%s:\n", point)
				scripts := runner.Scripts(point)
				if len(scripts) == 0 {
					fmt.Fprintln(w, "  (none)")
				}
				for _, s := range scripts {
					fmt.Fprintf(w, "  %s\n", s)
				}
			}
			return nil
		},
	})

	return hooksCmd
}

var hooksCmd = NewHooksCmd(appDeps)

func init() {
	cmd.RootCmd.AddCommand(hooksCmd)
}
