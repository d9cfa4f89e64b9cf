package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Enter         key.Binding
	Mark          key.Binding
	Back          key.Binding
	Quit          key.Binding
	NewInstance   key.Binding
	Close         key.Binding
	Mode          key.Binding
	ClearChildren key.Binding
	ClearMarks    key.Binding
	GoHome        key.Binding
	Copy          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:            key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "move")),
		Down:          key.NewBinding(key.WithKeys("down")),
		PageUp:        key.NewBinding(key.WithKeys("pgup")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown")),
		Top:           key.NewBinding(key.WithKeys("home")),
		Bottom:        key.NewBinding(key.WithKeys("end")),
		Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Mark:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mark")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NewInstance:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		Close:         key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "close")),
		Mode:          key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "form")),
		ClearChildren: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "clear")),
		ClearMarks:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "unmark")),
		GoHome:        key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "home")),
		Copy:          key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy url")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Enter, k.Mark, k.Mode, k.NewInstance, k.Close, k.ClearChildren, k.GoHome, k.Copy, k.Back}
}
