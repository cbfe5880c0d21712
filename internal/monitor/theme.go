// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import "github.com/charmbracelet/lipgloss"

// Theme is the monitor's palette, in ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BoundForeground  lipgloss.Color
	ErrorForeground  lipgloss.Color
}

// DefaultTheme suits dark terminals.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	HeaderForeground:   lipgloss.Color("75"),
	BoundForeground:    lipgloss.Color("114"),
	ErrorForeground:    lipgloss.Color("203"),
}
