package render

// Sink consumes render instructions. Implementations must treat every call
// as idempotent.
type Sink interface {
	Render(inst Instruction, width, height int)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(inst Instruction, width, height int)

// Render calls f.
func (f SinkFunc) Render(inst Instruction, width, height int) {
	f(inst, width, height)
}

// Frame is one recorded Render call.
type Frame struct {
	Instruction Instruction
	Width       int
	Height      int
}

// Recorder is a Sink that keeps every frame it receives.
type Recorder struct {
	Frames []Frame
}

// Render records the frame.
func (r *Recorder) Render(inst Instruction, width, height int) {
	r.Frames = append(r.Frames, Frame{Instruction: inst, Width: width, Height: height})
}

// Last returns the most recent frame.
func (r *Recorder) Last() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Count returns the number of recorded frames.
func (r *Recorder) Count() int {
	return len(r.Frames)
}
