package main

import (
	"fmt"
	"path/filepath"

	"github.com/cristianoliveira/pixtweak/cmd"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/spf13/cobra"
)

// NewForgetCmd creates the forget command with explicit dependencies.
func NewForgetCmd(d *deps) *cobra.Command {
	if d == nil {
		panic("NewForgetCmd: deps dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "forget <image>",
		Short: "Drop the saved adjustments for an image",
		Long: `Drop the saved adjustments for an image.

The image does not need to exist any more; the path is only used as the
lookup key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve image path: %w", err)
			}
			store, err := d.openStore()
			if err != nil {
				return fmt.Errorf("open adjustment store: %w", err)
			}
			defer store.Close()
			if err := store.Forget(key); err != nil {
				return fmt.Errorf("forget %s: %w", key, err)
			}
			colors.Success(fmt.Sprintf("forgot adjustments for %s", key))
			return nil
		},
	}
}

var forgetCmd = NewForgetCmd(appDeps)

func init() {
	cmd.RootCmd.AddCommand(forgetCmd)
}
