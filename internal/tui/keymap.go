package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the dashboard keybindings.
type KeyMap struct {
	Start   key.Binding
	Stop    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings: s start, x stop, r refresh,
// q or ctrl+c quit.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "запустить"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "остановить"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "обновить"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "выход"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// syncEnabled disables the start/stop bindings whose buttons are disabled,
// so they neither match key presses nor show in the help line.
func (k KeyMap) syncEnabled(startEnabled, stopEnabled bool) KeyMap {
	k.Start.SetEnabled(startEnabled)
	k.Stop.SetEnabled(stopEnabled)
	return k
}
