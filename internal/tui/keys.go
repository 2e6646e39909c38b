package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Click    key.Binding
	FlagMode key.Binding
	NewGame  key.Binding
	Preset   key.Binding
	Save     key.Binding
	Load     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Click:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "open/flag")),
		FlagMode: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flag mode")),
		NewGame:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
		Preset:   key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "preset")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Load:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "load")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.FlagMode, k.NewGame, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Click, k.FlagMode, k.NewGame, k.Preset},
		{k.Save, k.Load, k.Help, k.Quit},
	}
}

type promptKeys struct {
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

func defaultPromptKeys() promptKeys {
	return promptKeys{
		Yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "save")),
		No:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "discard")),
		Cancel: key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k promptKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k promptKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
