package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding

	ZoomIn  key.Binding
	ZoomOut key.Binding
	Theme   key.Binding
	Reset   key.Binding

	List    key.Binding
	Paste   key.Binding
	Attrs   key.Binding
	Inspect key.Binding
	Route   key.Binding
	Close   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "pan")),
		Down:    key.NewBinding(key.WithKeys("down")),
		Left:    key.NewBinding(key.WithKeys("left")),
		Right:   key.NewBinding(key.WithKeys("right")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		List:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "places")),
		Paste:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste wkt")),
		Attrs:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attrs")),
		Inspect: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
		Route:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "route")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:    key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.ZoomIn, k.Theme, k.Reset, k.List, k.Route, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.ZoomIn, k.Theme, k.Reset},
		{k.List, k.Paste, k.Attrs, k.Inspect},
		{k.Route, k.Close, k.Help, k.Quit},
	}
}
