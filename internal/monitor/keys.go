// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the monitor's key bindings.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	Refresh   key.Binding
	BoundOnly key.Binding
	Quit      key.Binding
}

// DefaultKeyMap pairs vim-style keys with arrows.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	BoundOnly: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "bound only"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.BoundOnly, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End},
		{k.Refresh, k.BoundOnly, k.Quit},
	}
}
