package state

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pixtweak/internal/tui/view"
)

// handleMouseMsg drives the compare button. Press on the button shows the
// original; release, moving off the button or any other button ends it.
func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && onCompareButton(msg.X, msg.Y) {
			m.pointerCompare = true
			m.session.PressCompare()
		}
	case tea.MouseActionRelease:
		if m.pointerCompare {
			m.pointerCompare = false
			m.session.ReleaseCompare()
		}
	case tea.MouseActionMotion:
		if m.pointerCompare && !onCompareButton(msg.X, msg.Y) {
			m.pointerCompare = false
			m.session.CancelCompare()
		}
	}
	return m, nil
}

// endCompare clears any held compare, from pointer or key.
func (m *Model) endCompare() {
	m.pointerCompare = false
	m.keyCompare = false
	m.session.CancelCompare()
}

func onCompareButton(x, y int) bool {
	return y == view.CompareRow && x >= 0 && x < view.CompareButtonWidth
}
