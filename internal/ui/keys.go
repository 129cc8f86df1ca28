package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Toggle  key.Binding
	Clear   key.Binding
	Focus   key.Binding
	Blur    key.Binding
	Reload  key.Binding
	Source  key.Binding
	Copy    key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Toggle:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "open/close")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Focus:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Blur:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave")),
		Reload:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Source:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "source")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy email")),
		Confirm: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "confirm")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Toggle, k.Clear, k.Copy, k.Confirm, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Toggle},
		{k.Focus, k.Blur, k.Clear},
		{k.Reload, k.Source, k.Copy},
		{k.Confirm, k.Quit},
	}
}

// sourceKeys drive the source prompt.
type sourceKeys struct {
	Prev   key.Binding
	Next   key.Binding
	Accept key.Binding
	Cancel key.Binding
}

func defaultSourceKeys() sourceKeys {
	return sourceKeys{
		Prev:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older")),
		Next:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k sourceKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Accept, k.Cancel}
}

func (k sourceKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
