package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	AddNote     key.Binding
	AddRest     key.Binding
	UndoNote    key.Binding
	UndoMeasure key.Binding
	Reset       key.Binding
	Title       key.Binding
	Artist      key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newBinding(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

var keys = keyMap{
	Up:          newBinding("prev field", "up", "k"),
	Down:        newBinding("next field", "down", "j"),
	Left:        newBinding("prev value", "left", "h"),
	Right:       newBinding("next value", "right", "l"),
	AddNote:     newBinding("add note", "enter", "a"),
	AddRest:     newBinding("add rest", "r"),
	UndoNote:    newBinding("undo note", "backspace", "u"),
	UndoMeasure: newBinding("undo measure", "U"),
	Reset:       newBinding("reset", "X"),
	Title:       newBinding("edit title", "t"),
	Artist:      newBinding("edit artist", "A"),
	Save:        newBinding("save", "ctrl+s"),
	Help:        newBinding("help", "?"),
	Quit:        newBinding("quit", "q", "ctrl+c"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddNote, k.AddRest, k.UndoNote, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.AddNote, k.AddRest, k.UndoNote, k.UndoMeasure},
		{k.Title, k.Artist, k.Reset},
		{k.Save, k.Help, k.Quit},
	}
}
