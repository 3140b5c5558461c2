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
	"github.com/toeirei/medledger/internal/model"
)

// repairsViewModel shows the repair history of every device. Devices can be
// collapsed to their header line.
type repairsViewModel struct {
	session   *core.Session
	collapsed map[int]bool
	lines     []interface{} // Either a model.Device header or a model.RepairRecord
	cursor    int
	offset    int
	height    int
	width     int
}

func newRepairsViewModel(s *core.Session) repairsViewModel {
	m := repairsViewModel{session: s, collapsed: make(map[int]bool), height: 20}
	m.rebuildLines()
	return m
}

// rebuildLines flattens the registry into display lines. Devices without
// repairs get a nil placeholder line below their header.
func (m *repairsViewModel) rebuildLines() {
	m.lines = make([]interface{}, 0, len(m.lines))
	for _, d := range m.session.Registry().Devices() {
		m.lines = append(m.lines, d)
		if m.collapsed[d.ID] {
			continue
		}
		if len(d.Repairs) == 0 {
			m.lines = append(m.lines, nil)
		}
		for _, r := range d.Repairs {
			m.lines = append(m.lines, r)
		}
	}
	if m.cursor >= len(m.lines) {
		m.cursor = max(len(m.lines)-1, 0)
	}
}

func (m repairsViewModel) Init() tea.Cmd {
	return nil
}

func (m repairsViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-12, 1)
	case registryChangedMsg:
		m.rebuildLines()
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.lines)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.lines) {
				if d, ok := m.lines[m.cursor].(model.Device); ok {
					m.collapsed[d.ID] = !m.collapsed[d.ID]
					m.rebuildLines()
				}
			}
		}
	}
	m.offset = core.EnsureCursorInView(m.cursor, m.offset, m.height)
	return m, nil
}

func (m repairsViewModel) View() string {
	var items []string
	items = append(items, paneTitleStyle.Render(i18n.T("repairs.title")), "")

	end := min(m.offset+m.height, len(m.lines))
	for i := m.offset; i < end; i++ {
		var line string
		switch v := m.lines[i].(type) {
		case model.Device:
			marker := "▼"
			if m.collapsed[v.ID] {
				marker = "▶"
			}
			line = fmt.Sprintf("%s %s (%d)", marker, v.Name, len(v.Repairs))
		case model.RepairRecord:
			line = "   • " + v.String()
		default:
			line = "   " + helpStyle.Render(i18n.T("detail.no_repairs"))
		}
		if i == m.cursor {
			items = append(items, cursorRowStyle.Render("▸ "+line))
		} else {
			items = append(items, rowStyle.Render("  "+line))
		}
	}

	width := 60
	if m.width > 0 {
		width = min(m.width-6, 80)
	}
	pane := paneStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
	help := footerStyle.Render(AlignFooter(i18n.T("repairs.footer"), "", width))
	return lipgloss.JoinVertical(lipgloss.Left, pane, help)
}
