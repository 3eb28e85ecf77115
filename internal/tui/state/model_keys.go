package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/preset"
)

// handleKeyMsg processes keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	// A key-held compare lasts until the next key press.
	if m.keyCompare {
		m.keyCompare = false
		m.session.ReleaseCompare()
		if key.Matches(msg, m.keys.Compare) {
			return m, nil
		}
	}

	if !m.isNudge(msg) {
		m.activeKey = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.BigLeft):
		m.nudge(-10)
	case key.Matches(msg, m.keys.BigRight):
		m.nudge(10)
	case key.Matches(msg, m.keys.Left):
		m.nudge(-1)
	case key.Matches(msg, m.keys.Right):
		m.nudge(1)
	case key.Matches(msg, m.keys.RotateLeft):
		m.session.RotateLeft()
	case key.Matches(msg, m.keys.RotateRight):
		m.session.RotateRight()
	case key.Matches(msg, m.keys.FlipH):
		m.session.FlipHorizontal()
	case key.Matches(msg, m.keys.FlipV):
		m.session.FlipVertical()
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
	case key.Matches(msg, m.keys.Preset):
		return m, m.applyPreset(msg.String())
	case key.Matches(msg, m.keys.Undo):
		if !m.session.Undo() {
			m.errorHandler.Info("Nothing to undo")
			return m, m.clearStatusCmd()
		}
	case key.Matches(msg, m.keys.Redo):
		if !m.session.Redo() {
			m.errorHandler.Info("Nothing to redo")
			return m, m.clearStatusCmd()
		}
	case key.Matches(msg, m.keys.Compare):
		m.keyCompare = true
		m.session.PressCompare()
	case key.Matches(msg, m.keys.Open):
		m.prompting = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.Export):
		return m, m.startExport()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) isNudge(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.keys.Left, m.keys.Right, m.keys.BigLeft, m.keys.BigRight)
}

func (m *Model) moveCursor(delta int) {
	n := len(adjust.Keys)
	m.cursor = (m.cursor + delta + n) % n
}

// nudge moves the selected slider by steps. The first tick of a run records
// history; later ticks on the same slider only update the value.
func (m *Model) nudge(steps int) {
	p := adjust.Params()[m.cursor]
	cur, _ := adjust.Get(m.session.State(), p.Key)
	next := p.StepBy(cur, steps)
	if next == cur {
		return
	}
	if m.activeKey != p.Key {
		m.activeKey = p.Key
		m.session.Adjust(p.Key, next)
		return
	}
	m.session.SetAdjustment(p.Key, next)
}

func (m *Model) applyPreset(digit string) tea.Cmd {
	names := preset.Names()
	i, err := strconv.Atoi(digit)
	if err != nil || i < 1 || i > len(names) {
		return nil
	}
	name := names[i-1]
	if m.session.ApplyPreset(name) {
		m.errorHandler.Info(fmt.Sprintf("Applied preset %s", name))
	}
	return m.clearStatusCmd()
}

// handlePromptKey handles input while the open prompt is shown.
func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if path == "" {
			return m, nil
		}
		return m, openImageCmd(m.open, expandHome(path))
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.SetValue("")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
