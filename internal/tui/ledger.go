// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/export"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/logging"
	"github.com/toeirei/medledger/internal/model"
	"github.com/toeirei/medledger/internal/snapshot"
)

// A message to signal that we should go back to the list from the form.
type backToListMsg struct{}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// now dates the backup and export file names.
var now = time.Now

type ledgerViewState int

const (
	ledgerListView ledgerViewState = iota
	ledgerFormView
)

// Column widths of the device table, in terminal cells.
const (
	colName     = 18
	colModel    = 10
	colLocation = 20
)

// ledgerModel is the searchable device table with its detail panel.
type ledgerModel struct {
	session     *core.Session
	state       ledgerViewState
	form        formModel
	displayed   []model.Device // The filtered list for display
	viewport    viewport.Model
	cursor      int
	isFiltering bool
	status      string // For showing status messages like "Registered..."
	hint        string // Why the last action did nothing
	outputDir   string // Where backups and exports are written
	width       int
	height      int
}

func newLedgerModel(s *core.Session, outputDir string) *ledgerModel {
	m := &ledgerModel{
		session:   s,
		viewport:  viewport.New(0, 0),
		outputDir: outputDir,
	}
	m.rebuildDisplayed()
	m.viewport.SetContent(m.listContentView())
	return m
}

func (m *ledgerModel) Init() tea.Cmd {
	return nil
}

// capturesInput reports whether key presses are consumed as text input.
func (m *ledgerModel) capturesInput() bool {
	return m.isFiltering || m.state == ledgerFormView
}

// rebuildDisplayed re-queries the session; the filtered list is never cached
// across registry changes.
func (m *ledgerModel) rebuildDisplayed() {
	m.displayed = m.session.GetFilteredDevices()

	// Reset cursor if it's out of bounds
	if m.cursor >= len(m.displayed) {
		if len(m.displayed) > 0 {
			m.cursor = len(m.displayed) - 1
		} else {
			m.cursor = 0
		}
	}
}

func (m *ledgerModel) refresh() {
	m.rebuildDisplayed()
	m.viewport.SetContent(m.listContentView())
	m.ensureCursorInView()
}

// focus selects a device and moves the cursor onto it, dropping a filter
// that hides it.
func (m *ledgerModel) focus(id int) {
	if !m.session.Select(id) {
		return
	}
	m.refresh()
	if !m.moveCursorTo(id) && m.session.SearchTerm() != "" {
		m.setSearchTerm("")
		m.moveCursorTo(id)
	}
	m.viewport.SetContent(m.listContentView())
	m.ensureCursorInView()
}

func (m *ledgerModel) moveCursorTo(id int) bool {
	for i, d := range m.displayed {
		if d.ID == id {
			m.cursor = i
			return true
		}
	}
	return false
}

func (m *ledgerModel) setSearchTerm(term string) {
	m.session.SetSearchTerm(term)
	m.cursor = 0
	m.refresh()
}

func (m *ledgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size messages first, as they affect layout.
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sizeMsg.Width
		m.height = sizeMsg.Height

		footerHeight := lipgloss.Height(m.footerView())
		// Tabs, title and footer take the rest of the screen.
		mainAreaHeight := m.height - 4 - footerHeight - 2

		// The viewport's height is the available area minus chrome for the pane itself (borders, padding, title, header row).
		m.viewport.Height = mainAreaHeight - 7
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.viewport.Width = colName + colModel + colLocation + 4 // marker and two separators
		m.viewport.SetContent(m.listContentView())
	}

	// Delegate updates to the form if it's active.
	if m.state == ledgerFormView {
		switch msg := msg.(type) {
		case deviceModifiedMsg:
			m.state = ledgerListView
			m.hint = ""
			m.refresh()
			switch msg.kind {
			case newDeviceForm:
				m.status = i18n.T("ledger.status.registered", msg.deviceID)
				// Move the cursor onto the new device if it is visible.
				m.moveCursorTo(msg.deviceID)
				m.viewport.SetContent(m.listContentView())
				m.ensureCursorInView()
			case repairForm:
				m.status = i18n.T("ledger.status.repair_added")
			case inspectionForm:
				m.status = i18n.T("ledger.status.inspection_updated")
			}
			return m, func() tea.Msg { return registryChangedMsg{} }
		case backToListMsg:
			m.state = ledgerListView
			m.status = ""
			m.refresh()
			return m, nil
		}

		var newFormModel tea.Model
		newFormModel, cmd = m.form.Update(msg)
		m.form = newFormModel.(formModel)
		return m, cmd
	}

	if _, ok := msg.(registryChangedMsg); ok {
		m.refresh()
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If we are in filtering mode, capture all input for the filter.
		if m.isFiltering {
			term := m.session.SearchTerm()
			switch msg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.setSearchTerm("")
			case tea.KeyEnter:
				m.isFiltering = false
			case tea.KeyBackspace:
				if r := []rune(term); len(r) > 0 {
					m.setSearchTerm(string(r[:len(r)-1]))
				}
			case tea.KeySpace:
				m.setSearchTerm(term + " ")
			case tea.KeyRunes:
				m.setSearchTerm(term + string(msg.Runes))
			}
			return m, nil
		}

		m.hint = ""
		switch msg.String() {
		case "/":
			m.isFiltering = true
			m.status = ""
			m.setSearchTerm("") // Start with a fresh filter
			return m, nil

		case "esc":
			if m.session.SearchTerm() != "" {
				m.setSearchTerm("")
				return m, nil
			}
			m.session.ClearSelection()
			m.status = ""
			return m, nil

		// Navigate up.
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				// SetContent must be called to redraw the cursor.
				// This resets the viewport's YOffset, so ensureCursorInView must be called *after*.
				m.viewport.SetContent(m.listContentView())
				m.ensureCursorInView()
			}

		// Navigate down.
		case "down", "j":
			if m.cursor < len(m.displayed)-1 {
				m.cursor++
				m.viewport.SetContent(m.listContentView())
				m.ensureCursorInView()
			}

		// Focus the device under the cursor in the detail panel.
		case "enter", " ":
			if len(m.displayed) > 0 {
				m.session.Select(m.displayed[m.cursor].ID)
				m.status = ""
				m.viewport.SetContent(m.listContentView())
			}
			return m, nil

		// Register a new device.
		case "a":
			return m.openForm(newDeviceForm)

		// Update the inspection dates of the selected device.
		case "i":
			if _, ok := m.session.SelectedID(); !ok {
				m.hint = i18n.T("ledger.hint.select_first")
				return m, nil
			}
			return m.openForm(inspectionForm)

		// Log a repair on the selected device.
		case "r":
			if _, ok := m.session.SelectedID(); !ok {
				m.hint = i18n.T("ledger.hint.select_first")
				return m, nil
			}
			return m.openForm(repairForm)

		// Write a compressed snapshot of the current registry.
		case "b":
			m.writeFile(snapshot.DefaultFileName(now()), "ledger.status.backup_written", snapshot.WriteFile)
			return m, nil

		// Export the current registry as an Excel workbook.
		case "x":
			m.writeFile(export.DefaultFileName(now()), "ledger.status.export_written", export.WriteLedgerFile)
			return m, nil

		// Copy the selected device's detail to the clipboard.
		case "y":
			dev, ok := m.session.SelectedDevice()
			if !ok {
				m.hint = i18n.T("ledger.hint.select_first")
				return m, nil
			}
			if err := copyToClipboard(deviceSummary(dev)); err != nil {
				m.status = i18n.T("ledger.status.copy_failed", err)
			} else {
				m.status = i18n.T("ledger.status.copied", dev.Name)
			}
			return m, nil
		}
	}

	// Pass messages to the viewport at the end
	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, vpCmd)
}

// writeFile serializes the session's current registry into the output
// directory and reports the outcome in the status line.
func (m *ledgerModel) writeFile(name, okKey string, write func(string, core.Registry) error) {
	path := filepath.Join(m.outputDir, name)
	reg := m.session.Registry()
	if err := write(path, reg); err != nil {
		logging.Errorf("could not write %s: %v", path, err)
		m.status = i18n.T("ledger.status.write_failed", err)
		return
	}
	logging.Infof("wrote %d devices to %s", reg.Len(), path)
	m.status = i18n.T(okKey, reg.Len(), path)
}

func (m *ledgerModel) openForm(kind formKind) (tea.Model, tea.Cmd) {
	m.state = ledgerFormView
	m.form = newFormModel(kind, m.session)
	m.status = "" // Clear status before showing form
	return m, m.form.Init()
}

// ensureCursorInView adjusts the viewport's Y offset to ensure the cursor is visible.
// It implements "edge scrolling," where the list only scrolls when the cursor
// hits the top or bottom of the visible area.
func (m *ledgerModel) ensureCursorInView() {
	m.viewport.YOffset = core.EnsureCursorInView(m.cursor, m.viewport.YOffset, m.viewport.Height)
}

// tableHeader renders the column titles of the device table.
func tableHeader() string {
	return "  " + padCell(i18n.T("ledger.col.name"), colName) + " " +
		padCell(i18n.T("ledger.col.model"), colModel) + " " +
		padCell(i18n.T("ledger.col.location"), colLocation)
}

// listContentView builds the string content for the list viewport.
func (m *ledgerModel) listContentView() string {
	selectedID, hasSel := m.session.SelectedID()
	var b strings.Builder
	for i, d := range m.displayed {
		row := padCell(d.Name, colName) + " " + padCell(d.Model, colModel) + " " + padCell(d.Location, colLocation)
		marker := "  "
		if hasSel && d.ID == selectedID {
			marker = selectedMarkerStyle.Render("●") + " "
		}
		if m.cursor == i {
			b.WriteString(cursorRowStyle.Render("▸ "+row) + "\n")
			continue
		}
		b.WriteString(rowStyle.Render(marker+row) + "\n")
	}
	return b.String()
}

// detailContentView renders the selected device straight from the session's
// live snapshot.
func (m *ledgerModel) detailContentView() string {
	var items []string
	if m.status != "" {
		items = append(items, statusStyle.Render(m.status), "")
	}
	if m.hint != "" {
		items = append(items, helpStyle.Render(m.hint), "")
	}

	dev, ok := m.session.SelectedDevice()
	if !ok {
		items = append(items, helpStyle.Render(i18n.T("detail.none_selected")))
		return lipgloss.JoinVertical(lipgloss.Left, items...)
	}

	items = append(items,
		paneTitleStyle.Render(i18n.T("detail.title", dev.Name)), "",
		fmt.Sprintf("%s: %s", i18n.T("detail.model"), dev.Model),
		fmt.Sprintf("%s: %s", i18n.T("detail.location"), dev.Location),
		fmt.Sprintf("%s: %s", i18n.T("detail.last_inspection"), styledDate(dev.LastInspection)),
		fmt.Sprintf("%s: %s", i18n.T("detail.next_inspection"), styledDate(dev.NextInspection)),
		"", paneTitleStyle.Render(i18n.T("detail.repairs")),
	)
	if len(dev.Repairs) == 0 {
		items = append(items, helpStyle.Render(i18n.T("detail.no_repairs")))
	}
	for _, r := range dev.Repairs {
		items = append(items, "• "+r.String())
	}
	items = append(items, "", helpStyle.Render(i18n.T("detail.actions")))
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// footerView renders the help text at the bottom of the page.
func (m *ledgerModel) footerView() string {
	filterStatus := getFilterStatusLine(m.isFiltering, m.session.SearchTerm(), FilterI18nKeys{
		Filtering:    "ledger.filtering",
		FilterActive: "ledger.filter_active",
		FilterHint:   "ledger.filter_hint",
	})
	return footerStyle.Render(AlignFooter(i18n.T("ledger.footer"), filterStatus, m.width-2))
}

func (m *ledgerModel) View() string {
	if m.state == ledgerFormView {
		return paneStyle.Render(m.form.View())
	}

	// --- List Pane (Left) ---
	listPaneTitle := paneTitleStyle.Render(i18n.T("ledger.list_title", len(m.displayed), m.session.Registry().Len()))
	var listContent string
	if len(m.displayed) == 0 {
		if m.session.SearchTerm() == "" {
			listContent = helpStyle.Render(i18n.T("ledger.empty"))
		} else {
			listContent = helpStyle.Render(i18n.T("ledger.empty_filtered"))
		}
	} else {
		listContent = m.viewport.View()
	}
	listPaneBody := lipgloss.JoinVertical(lipgloss.Left, listPaneTitle, "", tableHeaderStyle.Render(tableHeader()), listContent)

	// --- Detail Pane (Right) ---
	detailContent := m.detailContentView()

	// Use the viewport's calculated height to drive the pane height.
	paneHeight := m.viewport.Height + 7
	listWidth := colName + colModel + colLocation + 8
	detailWidth := m.width - listWidth - 10
	if detailWidth < 30 {
		detailWidth = 30
	}

	leftPane := paneStyle.Width(listWidth).Height(paneHeight).Render(listPaneBody)
	rightPane := paneStyle.Width(detailWidth).Height(paneHeight).Render(detailContent)
	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	return lipgloss.JoinVertical(lipgloss.Top, mainArea, m.footerView())
}
