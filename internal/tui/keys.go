package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browser's bindings. It implements help.KeyMap.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	PrevTab   key.Binding
	NextTab   key.Binding
	Back      key.Binding
	Reload    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		PrevTab:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev tab")),
		NextTab:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next tab")),
		Back:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "apps")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// appListKeys is the help shown in the app list, where typing filters.
func (k keyMap) appListKeys() keyMap {
	k.PrevTab.SetEnabled(false)
	k.NextTab.SetEnabled(false)
	k.Back.SetEnabled(false)
	return k
}

// tabKeys is the help shown inside an app. Enter only charts metrics.
func (k keyMap) tabKeys(tab Tab) keyMap {
	k.Open.SetEnabled(tab == TabMetrics)
	k.Open.SetHelp("enter", "chart")
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.PrevTab, k.NextTab, k.Back, k.Reload, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
