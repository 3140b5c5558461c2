// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Medledger.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that acts as a router between the tabs.
package tui // import "github.com/toeirei/medledger/internal/tui"

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/logging"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	ledgerView viewState = iota
	inspectionsView
	repairsView
	languageView
)

// registryChangedMsg is emitted after a commit replaced the session snapshot.
type registryChangedMsg struct{}

// focusDeviceMsg asks the ledger to select a device and take over the screen.
type focusDeviceMsg struct {
	deviceID int
}

// languageChangedMsg is a message to signal that the language has changed and the UI should be re-initialized.
type languageChangedMsg struct{}

// Options carries the collaborators the TUI needs from the CLI.
type Options struct {
	// SaveLanguage persists a language chosen in the language menu. May be nil.
	SaveLanguage func(lang string) error
	// OutputDir receives backups and exports written from the ledger.
	// Empty means the working directory.
	OutputDir string
}

// mainModel is the top-level model for the TUI. It routes updates to the
// active tab and renders the tab bar above it.
type mainModel struct {
	session     *core.Session
	opts        Options
	state       viewState
	ledger      *ledgerModel
	inspections inspectionsViewModel
	repairs     repairsViewModel
	language    languageModel
	width       int
	height      int
}

// languageModel holds the state for the language selection menu.
type languageModel struct {
	choices     map[string]string // map of lang code to display name
	orderedKeys []string          // for stable iteration
	cursor      int
}

func newMainModel(s *core.Session, opts Options) mainModel {
	return mainModel{
		session:     s,
		opts:        opts,
		state:       ledgerView,
		ledger:      newLedgerModel(s, opts.OutputDir),
		inspections: newInspectionsViewModel(s),
		repairs:     newRepairsViewModel(s),
	}
}

// Init is the first function that will be called by the Bubble Tea runtime.
func (m mainModel) Init() tea.Cmd {
	return nil
}

// resize forwards the last known window size to every tab.
func (m mainModel) resize() mainModel {
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	m.ledger.Update(size)
	im, _ := m.inspections.Update(size)
	m.inspections = im.(inspectionsViewModel)
	rm, _ := m.repairs.Update(size)
	m.repairs = rm.(repairsViewModel)
	return m
}

// Update is the main message loop. It handles all events (like key presses and
// window size changes) and delegates them to the active tab.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings that work everywhere.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state != languageView && !m.ledger.capturesInput() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.state = ledgerView
				return m, nil
			case "2":
				m.state = inspectionsView
				return m, nil
			case "3":
				m.state = repairsView
				return m, nil
			case "tab":
				m.state = (m.state + 1) % languageView
				return m, nil
			case "L":
				m.state = languageView
				m.language = newLanguageModel()
				return m, nil
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - lipgloss.Height(m.tabsView())
		return m.resize(), nil

	case registryChangedMsg:
		// Every tab re-queries the session.
		m.ledger.Update(msg)
		rm, _ := m.repairs.Update(msg)
		m.repairs = rm.(repairsViewModel)
		return m, nil

	case focusDeviceMsg:
		m.state = ledgerView
		m.ledger.focus(msg.deviceID)
		return m, nil

	case languageChangedMsg:
		// The language has changed. Re-initialize the entire model to apply new translations everywhere.
		newModel := newMainModel(m.session, m.opts)
		// Preserve the current window dimensions so the layout remains correct.
		newModel.width = m.width
		newModel.height = m.height
		return newModel.resize(), newModel.Init()
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case inspectionsView:
		var newModel tea.Model
		newModel, cmd = m.inspections.Update(msg)
		m.inspections = newModel.(inspectionsViewModel)

	case repairsView:
		var newModel tea.Model
		newModel, cmd = m.repairs.Update(msg)
		m.repairs = newModel.(repairsViewModel)

	case languageView:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "esc":
				m.state = ledgerView
				return m, nil
			case "up", "k":
				if m.language.cursor > 0 {
					m.language.cursor--
				}
			case "down", "j":
				if m.language.cursor < len(m.language.orderedKeys)-1 {
					m.language.cursor++
				}
			case "enter":
				if len(m.language.orderedKeys) == 0 {
					return m, nil
				}
				langCode := m.language.orderedKeys[m.language.cursor]
				i18n.SetLang(langCode)
				logging.Infof("language switched to %s", langCode)
				if m.opts.SaveLanguage != nil {
					if err := m.opts.SaveLanguage(langCode); err != nil {
						logging.Warnf("failed to save config: %v", err)
					}
				}
				// Signal that the language has changed so the entire UI can be re-initialized.
				return m, func() tea.Msg { return languageChangedMsg{} }
			}
		}

	default: // ledgerView
		_, cmd = m.ledger.Update(msg)
	}

	return m, cmd
}

// tabsView renders the application title and the tab bar.
func (m mainModel) tabsView() string {
	labels := []string{i18n.T("tabs.ledger"), i18n.T("tabs.inspections"), i18n.T("tabs.repairs")}
	tabs := make([]string, 0, len(labels))
	for i, l := range labels {
		label := fmt.Sprintf("%d %s", i+1, l)
		if viewState(i) == m.state {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	title := appTitleStyle.Render("🏥 " + i18n.T("app.title"))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// View renders the TUI. It's called after every Update and delegates rendering
// to the currently active tab.
func (m mainModel) View() string {
	var body string
	switch m.state {
	case inspectionsView:
		body = m.inspections.View()
	case repairsView:
		body = m.repairs.View()
	case languageView:
		body = m.language.View()
	default:
		body = m.ledger.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.tabsView(), body)
}

// newLanguageModel creates a new model for the language selection view.
func newLanguageModel() languageModel {
	// Get the dynamically discovered locales from the i18n package.
	choices := i18n.GetAvailableLocales()

	// Create a sorted list of keys for stable iteration and display order.
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cursor := 0
	for i, k := range keys {
		if k == i18n.GetLang() {
			cursor = i
		}
	}

	return languageModel{
		choices:     choices,
		orderedKeys: keys,
		cursor:      cursor,
	}
}

// View for languageModel.
func (m languageModel) View() string {
	var listItems []string
	listItems = append(listItems, paneTitleStyle.Render(i18n.T("language.select")), "")

	for i, langCode := range m.orderedKeys {
		displayName := m.choices[langCode]
		if langCode == i18n.GetLang() {
			displayName += activeLocaleStyle.Render(" ✓")
		}
		if m.cursor == i {
			listItems = append(listItems, cursorRowStyle.Render("▸ "+displayName))
		} else {
			listItems = append(listItems, rowStyle.Render("  "+displayName))
		}
	}

	listPane := paneStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, listItems...))
	// Render the language help line using AlignFooter for consistent layout.
	helpLine := footerStyle.Render(AlignFooter(i18n.T("language.help"), "", 60))

	return lipgloss.JoinVertical(lipgloss.Left, listPane, "", helpLine)
}

// Run is the main entrypoint for the TUI. It runs the Bubble Tea program
// over the given session until the user quits.
func Run(s *core.Session, opts Options) error {
	cancel := s.Subscribe(func(r core.Registry) {
		logging.Debugf("registry snapshot replaced: %d devices", r.Len())
	})
	defer cancel()

	if _, err := tea.NewProgram(newMainModel(s, opts), tea.WithAltScreen()).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
