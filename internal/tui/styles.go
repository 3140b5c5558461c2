// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Medledger.
// This file holds the lipgloss styles shared by the ledger, the tabs and the
// device forms.
package tui // import "github.com/toeirei/medledger/internal/tui"

import "github.com/charmbracelet/lipgloss"

const (
	colorMuted   = lipgloss.Color("240")
	colorAccent  = lipgloss.Color("81")
	colorPending = lipgloss.Color("208") // inspection not done or not scheduled
	colorReject  = lipgloss.Color("196")
	colorActive  = lipgloss.Color("40")
	colorInput   = lipgloss.Color("170")
	colorInk     = lipgloss.Color("231")
)

var (
	appTitleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(1, 3)

	// Tab bar
	tabStyle       = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 2)
	activeTabStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true).Padding(0, 2)

	// Panes and their titles
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(1, 2)
	paneTitleStyle = lipgloss.NewStyle().Bold(true)

	// Device table
	tableHeaderStyle    = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	rowStyle            = lipgloss.NewStyle()
	cursorRowStyle      = lipgloss.NewStyle().Foreground(colorAccent)
	selectedMarkerStyle = lipgloss.NewStyle().Foreground(colorActive)

	// Detail pane
	pendingDateStyle = lipgloss.NewStyle().Foreground(colorPending)
	statusStyle      = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(colorInk).
				Background(colorAccent)

	// Register, repair and inspection forms
	formTitleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(1, 2)
	inputFocusedStyle  = lipgloss.NewStyle().Foreground(colorInput)
	submitStyle        = lipgloss.NewStyle()
	submitFocusedStyle = lipgloss.NewStyle().Foreground(colorAccent)
	rejectStyle        = lipgloss.NewStyle().Foreground(colorReject)

	// Language selector
	activeLocaleStyle = lipgloss.NewStyle().Foreground(colorActive)

	helpStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Italic(true)
)
