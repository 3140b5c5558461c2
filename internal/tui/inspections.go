// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/i18n"
)

// inspectionsViewModel lists the inspection status of every device in
// registry order.
type inspectionsViewModel struct {
	session *core.Session
	cursor  int
	offset  int
	height  int
	width   int
}

func newInspectionsViewModel(s *core.Session) inspectionsViewModel {
	return inspectionsViewModel{session: s, height: 10}
}

func (m inspectionsViewModel) Init() tea.Cmd {
	return nil
}

func (m inspectionsViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := m.session.Registry().Len()
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Each device takes three lines plus a blank separator.
		m.height = (msg.Height - 12) / 4
		if m.height < 1 {
			m.height = 1
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "enter":
			// Jump to the ledger with this device focused.
			devices := m.session.Registry().Devices()
			if m.cursor < len(devices) {
				id := devices[m.cursor].ID
				return m, func() tea.Msg { return focusDeviceMsg{deviceID: id} }
			}
		}
	}
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.offset = core.EnsureCursorInView(m.cursor, m.offset, m.height)
	return m, nil
}

func (m inspectionsViewModel) View() string {
	devices := m.session.Registry().Devices()

	var items []string
	items = append(items, paneTitleStyle.Render(i18n.T("inspections.title")), "")
	if len(devices) == 0 {
		items = append(items, helpStyle.Render(i18n.T("ledger.empty")))
	}
	end := min(m.offset+m.height, len(devices))
	for i := m.offset; i < end; i++ {
		d := devices[i]
		name := "  " + d.Name
		if i == m.cursor {
			name = cursorRowStyle.Render("▸ " + d.Name)
		}
		items = append(items,
			name,
			fmt.Sprintf("    %s: %s", i18n.T("detail.last_inspection"), styledDate(d.LastInspection)),
			fmt.Sprintf("    %s: %s", i18n.T("inspections.next"), styledDate(d.NextInspection)),
			"",
		)
	}

	width := 60
	if m.width > 0 {
		width = min(m.width-6, 80)
	}
	pane := paneStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
	help := footerStyle.Render(AlignFooter(i18n.T("inspections.footer"), fmt.Sprintf("%d/%d", min(m.cursor+1, len(devices)), len(devices)), width))
	return lipgloss.JoinVertical(lipgloss.Left, pane, help)
}
