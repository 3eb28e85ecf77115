// Package session owns one edit session: the loaded image, the live
// adjustment state, its undo/redo history and the transient compare flag.
//
// Every committed mutation follows the same protocol: push the current
// state to history, mutate, persist, render. A Session is not safe for
// concurrent use; callers serialise access.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/history"
	"github.com/cristianoliveira/pixtweak/internal/imagesrc"
	"github.com/cristianoliveira/pixtweak/internal/logging"
	"github.com/cristianoliveira/pixtweak/internal/persist"
	"github.com/cristianoliveira/pixtweak/internal/preset"
	"github.com/cristianoliveira/pixtweak/internal/render"
	"github.com/google/uuid"
)

// ErrNoImage is returned by Export when no image is loaded.
var ErrNoImage = errors.New("no image loaded")

// Default canvas bounds for loaded images.
const (
	DefaultMaxWidth  = 1400
	DefaultMaxHeight = 1000
)

// Options configures a Session. Zero values select defaults.
type Options struct {
	ID         string
	Sink       render.Sink
	Store      persist.Store
	Exporter   export.Exporter
	Logger     logging.Logger
	MaxWidth   int
	MaxHeight  int
	HistoryCap int

	// OnRestore runs after the state is replaced wholesale: image load,
	// undo and redo.
	OnRestore func(adjust.State)
	// OnError receives persistence failures. Mutations never fail.
	OnError func(error)
}

// Session is a single image edit session.
type Session struct {
	id      string
	image   *imagesrc.Handle
	state   adjust.State
	history *history.Stack
	compare bool
	canvas  render.Canvas

	sink      render.Sink
	store     persist.Store
	exporter  export.Exporter
	log       logging.Logger
	maxW      int
	maxH      int
	onRestore func(adjust.State)
	onError   func(error)
}

// New returns an empty session with no image loaded.
func New(opts Options) *Session {
	s := &Session{
		id:        opts.ID,
		state:     adjust.Default(),
		history:   history.New(opts.HistoryCap),
		canvas:    render.DefaultCanvas,
		sink:      opts.Sink,
		store:     opts.Store,
		exporter:  opts.Exporter,
		log:       opts.Logger,
		maxW:      opts.MaxWidth,
		maxH:      opts.MaxHeight,
		onRestore: opts.OnRestore,
		onError:   opts.OnError,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.store == nil {
		s.store = persist.NopStore{}
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	if s.maxW <= 0 {
		s.maxW = DefaultMaxWidth
	}
	if s.maxH <= 0 {
		s.maxH = DefaultMaxHeight
	}
	s.log = s.log.With("session", s.id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns a copy of the live state.
func (s *Session) State() adjust.State { return s.state }

// Image returns the loaded image.
func (s *Session) Image() (imagesrc.Handle, bool) {
	if s.image == nil {
		return imagesrc.Handle{}, false
	}
	return *s.image, true
}

// HasImage reports whether an image is loaded.
func (s *Session) HasImage() bool { return s.image != nil }

// Canvas returns the current drawing surface.
func (s *Session) Canvas() render.Canvas { return s.canvas }

// Compare reports whether the original is being shown.
func (s *Session) Compare() bool { return s.compare }

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// UndoLen returns the number of undo entries.
func (s *Session) UndoLen() int { return s.history.Len() }

// RedoLen returns the number of redo entries.
func (s *Session) RedoLen() int { return s.history.RedoLen() }

// Instruction returns what the renderer should draw now.
func (s *Session) Instruction() render.Instruction {
	if s.image == nil {
		return render.Placeholder(s.canvas)
	}
	return render.Compose(s.state, s.compare, s.canvas)
}

// LoadImage replaces the session image. History is cleared, the state is
// reset to defaults and then merged with any persisted values for the
// image.
func (s *Session) LoadImage(h imagesrc.Handle) {
	s.image = &h
	s.canvas = render.Fit(h.Width, h.Height, s.maxW, s.maxH)
	s.history.Clear()
	s.state = adjust.Default()
	restored := false
	if p, ok := s.store.Load(h.Key()); ok {
		s.state = adjust.Merge(s.state, p)
		restored = true
	}
	s.compare = false
	s.log.Info("image loaded",
		"path", h.Key(),
		"width", h.Width,
		"height", h.Height,
		"canvas", fmt.Sprintf("%dx%d", s.canvas.Width, s.canvas.Height),
		"restored", restored)
	s.restored()
	s.render()
}

// PushHistory records the live state as an undo entry and clears redo. It
// does nothing before an image is loaded.
func (s *Session) PushHistory() {
	if s.image == nil {
		return
	}
	s.history.Push(s.state)
}

// SetAdjustment changes one filter without recording history. Callers use
// it for continuous ticks after an initial Adjust.
func (s *Session) SetAdjustment(key adjust.Key, v float64) {
	s.state = adjust.Set(s.state, key, v)
	s.commit()
}

// Adjust records history and changes one filter.
func (s *Session) Adjust(key adjust.Key, v float64) {
	s.PushHistory()
	s.SetAdjustment(key, v)
}

// RotateLeft turns the image a quarter turn counter-clockwise.
func (s *Session) RotateLeft() {
	s.mutate(adjust.State.RotateLeft)
}

// RotateRight turns the image a quarter turn clockwise.
func (s *Session) RotateRight() {
	s.mutate(adjust.State.RotateRight)
}

// FlipHorizontal mirrors the image left to right.
func (s *Session) FlipHorizontal() {
	s.mutate(adjust.State.FlipHorizontal)
}

// FlipVertical mirrors the image top to bottom.
func (s *Session) FlipVertical() {
	s.mutate(adjust.State.FlipVertical)
}

// Reset restores every filter and transform to its default.
func (s *Session) Reset() {
	s.mutate(func(adjust.State) adjust.State { return adjust.Default() })
}

// ApplyPreset merges the named preset into the state in one history step.
// Unknown names change nothing and return false.
func (s *Session) ApplyPreset(name string) bool {
	if _, ok := preset.Lookup(name); !ok {
		return false
	}
	s.mutate(func(st adjust.State) adjust.State {
		next, _ := preset.Apply(name, st)
		return next
	})
	return true
}

// Undo restores the previous state. It is a no-op without an image or
// history.
func (s *Session) Undo() bool {
	return s.restore(s.history.Undo)
}

// Redo reapplies the last undone state. It is a no-op without an image or
// redo entries.
func (s *Session) Redo() bool {
	return s.restore(s.history.Redo)
}

func (s *Session) restore(step func(adjust.State) (adjust.State, bool)) bool {
	if s.image == nil {
		return false
	}
	next, ok := step(s.state)
	if !ok {
		return false
	}
	s.state = next
	s.save()
	s.restored()
	s.render()
	return true
}

// PressCompare shows the original image.
func (s *Session) PressCompare() {
	s.setCompare(true)
}

// ReleaseCompare ends compare on pointer release.
func (s *Session) ReleaseCompare() {
	s.setCompare(false)
}

// CancelCompare ends compare when the pointer leaves the control or the
// gesture is cancelled.
func (s *Session) CancelCompare() {
	s.setCompare(false)
}

func (s *Session) setCompare(on bool) {
	if s.compare == on {
		return
	}
	s.compare = on
	s.render()
}

// Job snapshots the committed state as an export job. Compare never leaks
// into an export.
func (s *Session) Job(req export.Request) (export.Job, error) {
	if s.image == nil {
		return export.Job{}, ErrNoImage
	}
	if err := req.Validate(); err != nil {
		return export.Job{}, err
	}
	inst := render.Compose(s.state, false, s.canvas)
	return export.NewJob(req, *s.image, inst, s.id), nil
}

// Export builds the job for req and hands it to the exporter.
func (s *Session) Export(ctx context.Context, req export.Request) (export.Result, error) {
	job, err := s.Job(req)
	if err != nil {
		return export.Result{}, err
	}
	if s.exporter == nil {
		return export.Result{}, errors.New("no exporter configured")
	}
	res, err := s.exporter.Export(ctx, job)
	if err != nil {
		s.log.Error("export failed", "output", job.Output, "error", err)
		return res, err
	}
	s.log.Info("exported", "output", res.Output, "job", res.JobPath, "format", string(req.Format))
	return res, nil
}

func (s *Session) mutate(fn func(adjust.State) adjust.State) {
	s.PushHistory()
	s.state = fn(s.state)
	s.commit()
}

func (s *Session) commit() {
	s.save()
	s.render()
}

func (s *Session) save() {
	if s.image == nil {
		return
	}
	if err := s.store.Save(s.image.Key(), s.state); err != nil {
		s.log.Warn("failed to persist adjustments", "error", err)
		if s.onError != nil {
			s.onError(fmt.Errorf("save adjustments: %w", err))
		}
	}
}

func (s *Session) restored() {
	if s.onRestore != nil {
		s.onRestore(s.state)
	}
}

func (s *Session) render() {
	if s.sink == nil {
		return
	}
	s.sink.Render(s.Instruction(), s.canvas.Width, s.canvas.Height)
}
