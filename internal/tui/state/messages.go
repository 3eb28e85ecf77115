package state

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/imagesrc"
)

// imageLoadedMsg is sent when an image header decoded successfully.
type imageLoadedMsg struct {
	handle imagesrc.Handle
}

// imageLoadFailedMsg is sent when a path could not be opened as an image.
// The session is left untouched.
type imageLoadFailedMsg struct {
	path string
	err  error
}

// exportDoneMsg is sent when an export job and its hooks finished.
type exportDoneMsg struct {
	result export.Result
}

// exportFailedMsg is sent when an export failed.
type exportFailedMsg struct {
	err error
}

// clearStatusMsg clears the status line if no newer message replaced it.
type clearStatusMsg struct {
	seq int
}

func openImageCmd(open func(string) (imagesrc.Handle, error), path string) tea.Cmd {
	return func() tea.Msg {
		h, err := open(path)
		if err != nil {
			return imageLoadFailedMsg{path: path, err: err}
		}
		return imageLoadedMsg{handle: h}
	}
}

func exportCmd(exp export.Exporter, job export.Job, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := exp.Export(ctx, job)
		if err != nil {
			return exportFailedMsg{err: err}
		}
		return exportDoneMsg{result: res}
	}
}

func clearStatusAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
