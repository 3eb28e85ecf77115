// Package view renders the editor screen sections. Every function is pure;
// the layout constants let the model hit-test mouse events against what was
// drawn.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/errors"
	"github.com/cristianoliveira/pixtweak/internal/render"
)

// Layout, in screen rows from the top.
const (
	HeaderLines  = 1
	PreviewLines = 6
	// CompareRow is the row holding the compare button.
	CompareRow = HeaderLines + PreviewLines

	minPreviewWidth = 24
	sliderBarWidth  = 24
	labelWidth      = 11
	// headerWidth bounds the header before the terminal size is known.
	headerWidth = 80
)

// CompareLabel is the text of the compare button.
const CompareLabel = "[ hold to compare ]"

// CompareButtonWidth is the on-screen width of the compare button.
var CompareButtonWidth = lipgloss.Width(CompareLabel)

var (
	accent = lipgloss.Color(ansiColorNumber(colors.Blue))
	muted  = lipgloss.Color("241")
	errFg  = lipgloss.Color(ansiColorNumber(colors.Red))
	okFg   = lipgloss.Color(ansiColorNumber(colors.Green))
	warnFg = lipgloss.Color(ansiColorNumber(colors.Yellow))
)

// HeaderState is the input of Header.
type HeaderState struct {
	Image string
	Width int
}

// Header renders the title line. It is always exactly HeaderLines rows:
// line breaks in the name are flattened and the title is cut to Width, or
// to headerWidth when Width is unknown.
func Header(state HeaderState) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(accent)
	title := "pixtweak"
	if state.Image != "" {
		title += "  " + singleLine(state.Image)
	}
	width := state.Width
	if width <= 0 {
		width = headerWidth
	}
	return style.Render(truncate(title, width))
}

func singleLine(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, value)
}

// PreviewState is the input of Preview.
type PreviewState struct {
	Frame    render.Frame
	HasFrame bool
	Width    int
}

// Preview renders the last frame received by the preview sink as a box of
// exactly PreviewLines rows.
func Preview(state PreviewState) string {
	inner := state.Width - 4
	if inner < minPreviewWidth {
		inner = minPreviewWidth
	}

	var lines []string
	switch {
	case !state.HasFrame || state.Frame.Instruction.Placeholder:
		lines = []string{render.PlaceholderText, "", "", "press o to open a file"}
	default:
		inst := state.Frame.Instruction
		t := inst.Transform
		mode := "edited"
		if inst.Compare {
			mode = "ORIGINAL"
		}
		lines = []string{
			fmt.Sprintf("canvas %dx%d  rotate %d°  %s", state.Frame.Width, state.Frame.Height, t.Degrees, flipLabel(t)),
			"filter " + inst.Effects.CSS(),
			matrixLabel(t),
			"showing " + mode,
		}
	}
	for i, l := range lines {
		lines[i] = truncate(l, inner)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(inner + 2).
		Render(strings.Join(lines, "\n"))
}

func flipLabel(t render.Transform) string {
	var flips []string
	if t.ScaleX < 0 {
		flips = append(flips, "x")
	}
	if t.ScaleY < 0 {
		flips = append(flips, "y")
	}
	if len(flips) == 0 {
		return "no flip"
	}
	return "flip " + strings.Join(flips, "/")
}

func matrixLabel(t render.Transform) string {
	m := t.Matrix()
	for i := range m {
		// Print -0 from sin/cos rounding as 0.
		if math.Abs(m[i]) < 1e-9 {
			m[i] = 0
		}
	}
	return fmt.Sprintf("matrix [%.2f %.2f %.1f; %.2f %.2f %.1f]", m[0], m[1], m[2], m[3], m[4], m[5])
}

// CompareButton renders the compare control.
func CompareButton(active bool) string {
	style := lipgloss.NewStyle().Foreground(muted)
	if active {
		style = lipgloss.NewStyle().Bold(true).Background(accent).Foreground(lipgloss.Color("0"))
	}
	return style.Render(CompareLabel)
}

// SliderState is the input of Slider.
type SliderState struct {
	Param    adjust.Param
	Value    float64
	Selected bool
	Active   bool
}

// Slider renders one adjustment row: cursor, label, bar and value.
func Slider(state SliderState) string {
	p := state.Param
	frac := 0.0
	if p.Max > p.Min {
		frac = (p.Clamp(state.Value) - p.Min) / (p.Max - p.Min)
	}
	filled := int(math.Round(frac * sliderBarWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", sliderBarWidth-filled)

	cursor := "  "
	if state.Selected {
		cursor = "> "
	}
	value := strconv.FormatFloat(state.Value, 'f', -1, 64) + p.Unit
	row := fmt.Sprintf("%s%-*s %s %s", cursor, labelWidth, p.Label, bar, value)

	style := lipgloss.NewStyle()
	switch {
	case state.Selected && state.Active:
		style = style.Bold(true).Foreground(accent)
	case state.Selected:
		style = style.Bold(true)
	}
	return style.Render(row)
}

// StatusState is the input of Status.
type StatusState struct {
	Message    string
	Type       errors.MessageType
	HasMessage bool
	CanUndo    bool
	CanRedo    bool
	Width      int
}

// Status renders the history indicator and the latest message.
func Status(state StatusState) string {
	hist := lipgloss.NewStyle().Foreground(muted).Render(
		fmt.Sprintf("undo %s  redo %s", availability(state.CanUndo), availability(state.CanRedo)))
	if !state.HasMessage {
		return hist
	}
	var style lipgloss.Style
	switch state.Type {
	case errors.MessageTypeError:
		style = lipgloss.NewStyle().Foreground(errFg)
	case errors.MessageTypeWarning:
		style = lipgloss.NewStyle().Foreground(warnFg)
	case errors.MessageTypeSuccess:
		style = lipgloss.NewStyle().Foreground(okFg)
	default:
		style = lipgloss.NewStyle()
	}
	return hist + "  " + style.Render(truncate(state.Message, state.Width-lipgloss.Width(hist)-2))
}

func availability(ok bool) string {
	if ok {
		return "●"
	}
	return "○"
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width <= 3 {
		return string([]rune(value)[:width])
	}
	return string([]rune(value)[:width-3]) + "..."
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
