package state

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pixtweak/internal/adjust"
	tuierrors "github.com/cristianoliveira/pixtweak/internal/errors"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/imagesrc"
	"github.com/cristianoliveira/pixtweak/internal/render"
	"github.com/cristianoliveira/pixtweak/internal/tui/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cat = imagesrc.Handle{Path: "/photos/cat.png", Format: "png", Width: 3000, Height: 2000, Bytes: 2048}

type fakeExporter struct {
	jobs []export.Job
	err  error
}

func (f *fakeExporter) Export(_ context.Context, job export.Job) (export.Result, error) {
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return export.Result{}, f.err
	}
	return export.Result{Output: job.Output, JobPath: export.JobPath(job.Output)}, nil
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Open == nil {
		opts.Open = func(path string) (imagesrc.Handle, error) {
			h := cat
			h.Path = path
			return h, nil
		}
	}
	return NewModel(opts)
}

func loaded(t *testing.T, opts Options) *Model {
	t.Helper()
	m := newTestModel(t, opts)
	m.Update(imageLoadedMsg{handle: cat})
	require.True(t, m.Session().HasImage())
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func TestInitOpensInitialPath(t *testing.T) {
	m := newTestModel(t, Options{InitialPath: "/photos/dog.png"})

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()

	loadedMsg, ok := msg.(imageLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, "/photos/dog.png", loadedMsg.handle.Path)
}

func TestInitWithoutPath(t *testing.T) {
	assert.Nil(t, newTestModel(t, Options{}).Init())
}

func TestOpenFailureLeavesSessionUntouched(t *testing.T) {
	m := newTestModel(t, Options{
		Open: func(string) (imagesrc.Handle, error) { return imagesrc.Handle{}, imagesrc.ErrNotImage },
	})

	msg := openImageCmd(m.open, "/notes.txt")()
	m.Update(msg)

	assert.False(t, m.Session().HasImage())
	assert.True(t, m.hasStatusMessage)
	assert.Equal(t, tuierrors.MessageTypeError, m.statusMessageType)
	assert.Contains(t, m.statusMessage, "/notes.txt")
}

func TestImageLoadedFitsCanvas(t *testing.T) {
	m := loaded(t, Options{MaxWidth: 1400, MaxHeight: 1000})

	frame, ok := m.preview.last()
	require.True(t, ok)
	assert.Equal(t, 1400, frame.Width)
	assert.Equal(t, 933, frame.Height)
	assert.Contains(t, m.statusMessage, "cat.png")
}

func TestSliderRunRecordsOneEntry(t *testing.T) {
	m := loaded(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, 103.0, m.Session().State().Brightness)
	assert.Equal(t, 1, m.Session().UndoLen())

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, 102.0, m.Session().State().Contrast)
	assert.Equal(t, 2, m.Session().UndoLen())

	press(m, runes("u"))
	assert.Equal(t, 100.0, m.Session().State().Contrast)
	assert.Equal(t, 103.0, m.Session().State().Brightness)
}

func TestSliderRunEndsOnOtherKey(t *testing.T) {
	m := loaded(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyLeft}, runes("]"), tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, 98.0, m.Session().State().Brightness)
	assert.Equal(t, 3, m.Session().UndoLen())
}

func TestShiftStepsTenAndClamps(t *testing.T) {
	m := loaded(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyShiftRight})
	assert.Equal(t, 110.0, m.Session().State().Brightness)

	for i := 0; i < 20; i++ {
		press(m, tea.KeyMsg{Type: tea.KeyShiftRight})
	}
	assert.Equal(t, 200.0, m.Session().State().Brightness)
	assert.Equal(t, 1, m.Session().UndoLen())
}

func TestCursorWraps(t *testing.T) {
	m := loaded(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, len(adjust.Keys)-1, m.cursor)

	press(m, runes("j"))
	assert.Equal(t, 0, m.cursor)
}

func TestTransformKeys(t *testing.T) {
	m := loaded(t, Options{})

	press(m, runes("]"), runes("]"), runes("["), runes("h"), runes("v"))

	st := m.Session().State()
	assert.Equal(t, 90, st.Rotation)
	assert.Equal(t, -1, st.FlipX)
	assert.Equal(t, -1, st.FlipY)

	press(m, runes("r"))
	assert.Equal(t, adjust.Default(), m.Session().State())
	assert.Equal(t, 6, m.Session().UndoLen())
}

func TestUndoRedoKeys(t *testing.T) {
	m := loaded(t, Options{})
	press(m, runes("h"))

	press(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	assert.Equal(t, 1, m.Session().State().FlipX)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, -1, m.Session().State().FlipX)

	press(m, runes("U"))
	assert.Equal(t, "Nothing to redo", m.statusMessage)
}

func TestUndoEndsSliderRun(t *testing.T) {
	m := loaded(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyRight}, runes("u"), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, 102.0, m.Session().State().Brightness)
	assert.Equal(t, 1, m.Session().UndoLen())
	assert.False(t, m.Session().CanRedo())
}

func TestPresetKeys(t *testing.T) {
	m := loaded(t, Options{})

	// presets are numbered in name order: cool mono negative vintage vivid warm
	press(m, runes("2"))

	st := m.Session().State()
	assert.Equal(t, 100.0, st.Grayscale)
	assert.Equal(t, 110.0, st.Contrast)
	assert.Equal(t, 1, m.Session().UndoLen())
	assert.Equal(t, "Applied preset mono", m.statusMessage)
}

func TestCompareKeyHoldsUntilNextKey(t *testing.T) {
	m := loaded(t, Options{})
	press(m, tea.KeyMsg{Type: tea.KeyRight})

	press(m, runes("c"))
	assert.True(t, m.Session().Compare())
	frame, _ := m.preview.last()
	assert.Empty(t, frame.Instruction.Effects)

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.False(t, m.Session().Compare())
	assert.Equal(t, 1, m.cursor, "the releasing key still acts")

	press(m, runes("c"), runes("c"))
	assert.False(t, m.Session().Compare(), "second c only releases")
	assert.Equal(t, 1, m.Session().UndoLen())
}

func TestMouseCompare(t *testing.T) {
	m := loaded(t, Options{})
	onButton := tea.MouseMsg{X: 2, Y: view.CompareRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}

	press(m, onButton)
	assert.True(t, m.Session().Compare())

	press(m, tea.MouseMsg{X: 2, Y: view.CompareRow, Action: tea.MouseActionRelease})
	assert.False(t, m.Session().Compare())

	press(m, onButton, tea.MouseMsg{X: 2, Y: view.CompareRow + 3, Action: tea.MouseActionMotion})
	assert.False(t, m.Session().Compare(), "leaving the button cancels")

	press(m, tea.MouseMsg{X: view.CompareButtonWidth + 5, Y: view.CompareRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.False(t, m.Session().Compare(), "press off the button")

	press(m, onButton, tea.MouseMsg{X: 3, Y: view.CompareRow, Action: tea.MouseActionMotion})
	assert.True(t, m.Session().Compare(), "moving on the button keeps compare")

	press(m, tea.BlurMsg{})
	assert.False(t, m.Session().Compare(), "focus loss cancels")
}

func TestViewLayout(t *testing.T) {
	m := newTestModel(t, Options{})

	out := m.View()
	assert.Contains(t, out, render.PlaceholderText)

	m.Update(imageLoadedMsg{handle: cat})
	press(m, tea.MouseMsg{X: 0, Y: view.CompareRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	lines := strings.Split(m.View(), "\n")

	require.Greater(t, len(lines), view.CompareRow)
	assert.Contains(t, lines[0], "cat.png")
	assert.Contains(t, lines[view.CompareRow], view.CompareLabel)
	assert.Contains(t, strings.Join(lines, "\n"), "showing ORIGINAL")
	assert.Contains(t, strings.Join(lines, "\n"), "Brightness")
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.help.Width)
}

func TestExportKey(t *testing.T) {
	exp := &fakeExporter{}
	m := loaded(t, Options{Exporter: exp, ExportFormat: export.JPEG, ExportQuality: 0.8})
	press(m, runes("c"))

	_, cmd := m.Update(runes("e"))
	require.NotNil(t, cmd)
	assert.True(t, m.exporting)

	m.Update(cmd())

	require.Len(t, exp.jobs, 1)
	job := exp.jobs[0]
	assert.Equal(t, "/photos/edited-image.jpg", job.Output)
	assert.Equal(t, 0.8, job.Quality)
	assert.Len(t, job.Effects, len(adjust.Keys))
	assert.False(t, m.exporting)
	assert.Equal(t, tuierrors.MessageTypeSuccess, m.statusMessageType)
}

func TestExportFailure(t *testing.T) {
	exp := &fakeExporter{err: errors.New("hook convert.sh failed")}
	m := loaded(t, Options{Exporter: exp})

	_, cmd := m.Update(runes("e"))
	m.Update(cmd())

	assert.Equal(t, tuierrors.MessageTypeError, m.statusMessageType)
	assert.Contains(t, m.statusMessage, "hook convert.sh failed")
}

func TestExportWithoutImage(t *testing.T) {
	exp := &fakeExporter{}
	m := newTestModel(t, Options{Exporter: exp})

	m.Update(runes("e"))

	assert.Empty(t, exp.jobs)
	assert.False(t, m.exporting)
	assert.Contains(t, m.statusMessage, "no image loaded")
}

func TestOpenPrompt(t *testing.T) {
	var opened string
	m := newTestModel(t, Options{Open: func(path string) (imagesrc.Handle, error) {
		opened = path
		return cat, nil
	}})

	m.Update(runes("o"))
	require.True(t, m.prompting)
	m.Update(runes("/tmp/a.png"))
	// bound keys are typed into the prompt, not executed
	m.Update(runes("r"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.prompting)
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, "/tmp/a.pngr", opened)
	assert.True(t, m.Session().HasImage())
}

func TestOpenPromptEscape(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(runes("o"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.prompting)
	assert.Nil(t, cmd)
}

func TestClearStatusIgnoresStaleTicks(t *testing.T) {
	m := newTestModel(t, Options{})
	m.errorHandler.Info("first")
	stale := m.statusSeq
	m.errorHandler.Info("second")

	m.Update(clearStatusMsg{seq: stale})
	assert.Equal(t, "second", m.statusMessage)

	m.Update(clearStatusMsg{seq: m.statusSeq})
	assert.False(t, m.hasStatusMessage)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})

	_, cmd := m.Update(runes("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCompareRowWithLongImageName(t *testing.T) {
	m := newTestModel(t, Options{})
	long := cat
	long.Path = "/photos/" + strings.Repeat("holiday-", 30) + "cat.png"

	m.Update(imageLoadedMsg{handle: long})
	lines := strings.Split(m.View(), "\n")

	require.Greater(t, len(lines), view.CompareRow)
	assert.Contains(t, lines[view.CompareRow], view.CompareLabel)

	press(m, tea.MouseMsg{X: 0, Y: view.CompareRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.True(t, m.Session().Compare())
}
