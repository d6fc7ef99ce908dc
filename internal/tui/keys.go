package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds all keybindings for the room browser.
type keyMap struct {
	SwitchFeed  key.Binding
	OpenRoom    key.Binding
	NewRoom     key.Binding
	LeaveRoom   key.Binding
	DeleteRoom  key.Binding
	Refresh     key.Binding
	Compose     key.Binding
	CopyMessage key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchFeed: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch feed"),
		),
		OpenRoom: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open room"),
		),
		NewRoom: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new room"),
		),
		LeaveRoom: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "leave room"),
		),
		DeleteRoom: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete room"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Compose: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "compose"),
		),
		CopyMessage: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy last message"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// shortHelp returns the bindings shown in the list's help line.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{
		k.OpenRoom, k.SwitchFeed, k.NewRoom, k.LeaveRoom, k.DeleteRoom, k.Refresh, k.Quit,
	}
}
