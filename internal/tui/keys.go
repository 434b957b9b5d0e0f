package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Run        key.Binding
	Save       key.Binding
	Focus      key.Binding
	MoreShots  key.Binding
	FewerShots key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Insert     key.Binding
	Quit       key.Binding
	QuitAlt    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Run: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^R", "run"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^S", "save"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "editor/palette"),
		),
		MoreShots: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "shots x10"),
		),
		FewerShots: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "shots /10"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑↓", "select"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←→", "category"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		Insert: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("⏎", "insert"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^C", "quit"),
		),
		QuitAlt: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// editorKeys is shown while the editor has focus.
type editorKeys keyMap

func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Save, k.Focus, k.Quit}
}

func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// paletteKeys is shown while the gate palette has focus.
type paletteKeys keyMap

func (k paletteKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Insert, k.MoreShots, k.FewerShots, k.Run, k.Save, k.Focus, k.QuitAlt}
}

func (k paletteKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
