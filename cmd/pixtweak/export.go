package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/pixtweak/cmd"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/config"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/render"
	"github.com/spf13/cobra"
)

const exportCommandLong = `Write an export job for an image and run the post-export hooks.

USAGE:
    pixtweak export <image> [OPTIONS]

The job is written to <output>.job.json. Hooks in the post-export
directory receive its path in PIXTWEAK_JOB and produce the final file.

OPTIONS:
    --out <path>          Output path; extension added when missing
                          (default: export_filename next to the image)
    --format <format>     png, jpeg or webp (default: export_format)
    --quality <q>         Encoder quality in [0,1] (default: export_quality)
    --preset <name>       Apply a preset
    --set <key=value>     Set a filter value; repeatable
    --rotate <n>          Quarter turns clockwise, negative for counter-clockwise
    --flip-x              Mirror left to right
    --flip-y              Mirror top to bottom
    --save                Persist the resulting adjustments
    -h, --help            Show this help`

// NewExportCmd creates the export command with explicit dependencies.
func NewExportCmd(d *deps) *cobra.Command {
	if d == nil {
		panic("NewExportCmd: deps dependency cannot be nil")
	}

	var edits editFlags
	var out string
	var format string
	var quality float64

	exportCmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Write an export job and run post-export hooks",
		Long:  exportCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = config.Get("export_format", string(export.PNG))
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("quality") {
				quality = config.GetFloat("export_quality", 0.92)
			}

			s, done, err := openSession(cmd.Context(), d, args[0], edits, &render.Recorder{})
			if err != nil {
				return err
			}
			defer done()

			h, _ := s.Image()
			req := export.Request{
				Output:  outputPath(out, h.Key()),
				Format:  f,
				Quality: quality,
			}
			res, err := s.Export(cmd.Context(), req)
			if err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("export job written to %s", res.JobPath))
			if len(res.Hooks) == 0 {
				colors.Info("no post-export hooks ran; the job file is the only output")
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.JobPath)
			return nil
		},
	}

	registerEditFlags(exportCmd, &edits)
	exportCmd.Flags().StringVar(&out, "out", "", "Output path (default: export_filename next to the image)")
	exportCmd.Flags().StringVar(&format, "format", string(export.PNG), "Output format: png, jpeg, webp")
	exportCmd.Flags().Float64Var(&quality, "quality", 0.92, "Encoder quality in [0,1]")

	return exportCmd
}

// outputPath resolves the export destination. Relative names without a
// directory land next to the source image.
func outputPath(out, source string) string {
	if out == "" {
		out = config.Get("export_filename", "edited-image")
	}
	if filepath.IsAbs(out) || strings.ContainsRune(out, filepath.Separator) {
		return out
	}
	return filepath.Join(filepath.Dir(source), out)
}

var exportCmd = NewExportCmd(appDeps)

func init() {
	cmd.RootCmd.AddCommand(exportCmd)
}
