package state

import (
	"strings"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/tui/view"
)

// View renders the editor.
func (m *Model) View() string {
	width := m.width
	if width == 0 {
		width = defaultViewportWidth
	}

	var s strings.Builder

	image := ""
	if h, ok := m.session.Image(); ok {
		image = h.Describe()
	}
	s.WriteString(view.Header(view.HeaderState{Image: image, Width: width}))
	s.WriteString("\n")

	frame, ok := m.preview.last()
	s.WriteString(view.Preview(view.PreviewState{Frame: frame, HasFrame: ok, Width: width}))
	s.WriteString("\n")
	s.WriteString(view.CompareButton(m.session.Compare()))
	s.WriteString("\n\n")

	st := m.session.State()
	for i, p := range adjust.Params() {
		v, _ := adjust.Get(st, p.Key)
		s.WriteString(view.Slider(view.SliderState{
			Param:    p,
			Value:    v,
			Selected: i == m.cursor,
			Active:   m.activeKey == p.Key,
		}))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	if m.prompting {
		s.WriteString(m.prompt.View())
	} else {
		s.WriteString(view.Status(view.StatusState{
			Message:    m.statusMessage,
			Type:       m.statusMessageType,
			HasMessage: m.hasStatusMessage,
			CanUndo:    m.session.CanUndo(),
			CanRedo:    m.session.CanRedo(),
			Width:      width,
		}))
	}
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}
