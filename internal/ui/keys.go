package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the app responds to.
type keyMap struct {
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Login   key.Binding
	Logout  key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding

	// Modal bindings
	Close  key.Binding
	Select key.Binding
	Submit key.Binding
	Switch key.Binding
	Yes    key.Binding
	No     key.Binding

	// ForceLogout works from any modal state.
	ForceLogout key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Login:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		Logout:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add news")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Submit:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Switch:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Yes:         key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:          key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		ForceLogout: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	}
}
