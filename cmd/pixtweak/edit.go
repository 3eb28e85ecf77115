package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pixtweak/cmd"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/config"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/history"
	"github.com/cristianoliveira/pixtweak/internal/hooks"
	"github.com/cristianoliveira/pixtweak/internal/session"
	"github.com/cristianoliveira/pixtweak/internal/tui/state"
	"github.com/spf13/cobra"
)

const editCommandLong = `Interactive terminal editor.

USAGE:
    pixtweak edit [image]

KEY BINDINGS:
    up/down, k/j        Select a slider
    left/right          Nudge the selected slider (shift: x10)
    [ / ]               Rotate counter-clockwise / clockwise
    h / v               Flip horizontally / vertically
    r                   Reset every adjustment
    1-6                 Apply a preset (see "pixtweak presets")
    u, ctrl+z           Undo
    U, ctrl+y           Redo
    c                   Show the original until the next key
    o                   Open another image
    e                   Export next to the image
    ?                   Toggle full help
    q, ctrl+c           Quit

Holding the mouse on the compare button also shows the original.`

// NewEditCmd creates the edit command with explicit dependencies.
func NewEditCmd(d *deps) *cobra.Command {
	if d == nil {
		panic("NewEditCmd: deps dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "edit [image]",
		Short: "Interactive terminal editor",
		Long:  editCommandLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, closeStore, err := editorOptions(d)
			if err != nil {
				return err
			}
			defer closeStore()
			if len(args) == 1 {
				opts.InitialPath = args[0]
			}

			// Console output would corrupt the alternate screen.
			colors.SetQuiet(true)
			defer colors.SetQuiet(false)

			p := tea.NewProgram(
				state.NewModel(opts),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithReportFocus(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run editor: %w", err)
			}
			return nil
		},
	}
}

// editorOptions builds the editor configuration from the loaded config.
func editorOptions(d *deps) (state.Options, func(), error) {
	store, err := d.openStore()
	if err != nil {
		return state.Options{}, nil, fmt.Errorf("open adjustment store: %w", err)
	}
	format, err := export.ParseFormat(config.Get("export_format", string(export.PNG)))
	if err != nil {
		store.Close()
		return state.Options{}, nil, err
	}
	runner := d.hooks()
	if r, ok := runner.(*hooks.Runner); ok {
		// Script output would corrupt the alternate screen.
		r.Output = io.Discard
	}
	opts := state.Options{
		Store:         store,
		Exporter:      export.NewJobExporter(runner),
		Logger:        d.logger(),
		HistoryCap:    config.GetInt("history_cap", history.DefaultCap),
		MaxWidth:      config.GetInt("max_canvas_width", session.DefaultMaxWidth),
		MaxHeight:     config.GetInt("max_canvas_height", session.DefaultMaxHeight),
		ExportFormat:  format,
		ExportQuality: config.GetFloat("export_quality", 0.92),
		ExportName:    config.Get("export_filename", "edited-image"),
		Open:          d.openImage,
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			colors.Debug(fmt.Sprintf("close store: %v", err))
		}
	}
	return opts, closeStore, nil
}

var editCmd = NewEditCmd(appDeps)

func init() {
	cmd.RootCmd.AddCommand(editCmd)
}
