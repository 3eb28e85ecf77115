package state

import (
	"github.com/cristianoliveira/pixtweak/internal/render"
)

// previewSink is the editor's render sink. It keeps only the latest frame;
// View draws from it.
type previewSink struct {
	frame  render.Frame
	frames int
}

func (p *previewSink) Render(inst render.Instruction, width, height int) {
	p.frame = render.Frame{Instruction: inst, Width: width, Height: height}
	p.frames++
}

func (p *previewSink) last() (render.Frame, bool) {
	return p.frame, p.frames > 0
}
