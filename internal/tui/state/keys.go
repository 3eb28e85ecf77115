package state

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every editor binding. It implements help.KeyMap.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	BigLeft     key.Binding
	BigRight    key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	FlipH       key.Binding
	FlipV       key.Binding
	Reset       key.Binding
	Preset      key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Compare     key.Binding
	Open        key.Binding
	Export      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "increase"),
		),
		BigLeft: key.NewBinding(
			key.WithKeys("shift+left"),
			key.WithHelp("shift+←", "decrease x10"),
		),
		BigRight: key.NewBinding(
			key.WithKeys("shift+right"),
			key.WithHelp("shift+→", "increase x10"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rotate left"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "rotate right"),
		),
		FlipH: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "flip horizontal"),
		),
		FlipV: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "flip vertical"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Preset: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "preset"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U", "ctrl+y"),
			key.WithHelp("U", "redo"),
		),
		Compare: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "hold compare"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Undo, k.Redo, k.Compare, k.Open, k.Export, k.Help, k.Quit}
}

// FullHelp returns the bindings shown when help is expanded.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.BigLeft, k.BigRight},
		{k.RotateLeft, k.RotateRight, k.FlipH, k.FlipV, k.Reset, k.Preset},
		{k.Undo, k.Redo, k.Compare, k.Open, k.Export, k.Quit},
	}
}
