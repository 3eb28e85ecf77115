package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cristianoliveira/pixtweak/cmd"
	"github.com/cristianoliveira/pixtweak/internal/render"
	"github.com/spf13/cobra"
)

const renderCommandLong = `Print the render instruction for an image with edits applied.

USAGE:
    pixtweak render <image> [OPTIONS]

Persisted adjustments for the image are loaded first, then the edits run in
this order: preset, --set values, rotation, flips.

OPTIONS:
    --preset <name>       Apply a preset (see "pixtweak presets")
    --set <key=value>     Set a filter value; repeatable
    --rotate <n>          Quarter turns clockwise, negative for counter-clockwise
    --flip-x              Mirror left to right
    --flip-y              Mirror top to bottom
    --compare             Show the instruction for the original image
    --save                Persist the resulting adjustments
    --output <format>     Output format: text (default), json, css
    -h, --help            Show this help`

// Output formats for render.
const (
	outputText = "text"
	outputJSON = "json"
	outputCSS  = "css"
)

// NewRenderCmd creates the render command with explicit dependencies.
func NewRenderCmd(d *deps) *cobra.Command {
	if d == nil {
		panic("NewRenderCmd: deps dependency cannot be nil")
	}

	var edits editFlags
	var compare bool
	var output string

	renderCmd := &cobra.Command{
		Use:   "render <image>",
		Short: "Print the render instruction for an image",
		Long:  renderCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON && output != outputCSS {
				return fmt.Errorf("invalid output format: %s (must be text, json or css)", output)
			}
			rec := &render.Recorder{}
			s, done, err := openSession(cmd.Context(), d, args[0], edits, rec)
			if err != nil {
				return err
			}
			defer done()
			if compare {
				s.PressCompare()
			}
			frame, _ := rec.Last()
			h, _ := s.Image()
			return writeInstruction(cmd.OutOrStdout(), output, h.Describe(), frame.Instruction)
		},
	}

	registerEditFlags(renderCmd, &edits)
	renderCmd.Flags().BoolVar(&compare, "compare", false, "Show the instruction for the original image")
	renderCmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json, css")

	return renderCmd
}

func writeInstruction(w io.Writer, format, image string, inst render.Instruction) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(inst, "", "  ")
		if err != nil {
			return fmt.Errorf("encode instruction: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputCSS:
		_, err := fmt.Fprintln(w, inst.Effects.CSS())
		return err
	}

	t := inst.Transform
	m := t.Matrix()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "image:\t%s\n", image)
	fmt.Fprintf(tw, "canvas:\t%dx%d\n", inst.Canvas.Width, inst.Canvas.Height)
	fmt.Fprintf(tw, "filter:\t%s\n", inst.Effects.CSS())
	fmt.Fprintf(tw, "rotate:\t%ddeg\n", t.Degrees)
	fmt.Fprintf(tw, "scale:\t%g, %g\n", t.ScaleX, t.ScaleY)
	fmt.Fprintf(tw, "matrix:\t[%.4g %.4g %.4g; %.4g %.4g %.4g]\n", m[0], m[1], m[2], m[3], m[4], m[5])
	fmt.Fprintf(tw, "compare:\t%t\n", inst.Compare)
	return tw.Flush()
}

var renderCmd = NewRenderCmd(appDeps)

func init() {
	cmd.RootCmd.AddCommand(renderCmd)
}
