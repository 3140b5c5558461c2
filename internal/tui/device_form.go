// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/model"
)

type formKind int

const (
	newDeviceForm formKind = iota
	repairForm
	inspectionForm
)

// A message to signal that the registry was changed by a form.
type deviceModifiedMsg struct {
	kind     formKind
	deviceID int
}

// formModel edits one of the session drafts. Every keystroke is written back
// to the session, so an abandoned form keeps its input until it is committed.
type formModel struct {
	kind       formKind
	session    *core.Session
	focusIndex int
	inputs     []textinput.Model
	deviceName string // target device for repair and inspection forms
	err        error
}

func newFormModel(kind formKind, s *core.Session) formModel {
	m := formModel{kind: kind, session: s}

	var prompts, placeholders, values []string
	switch kind {
	case newDeviceForm:
		d := s.DeviceDraft()
		prompts = []string{i18n.T("form.device.name"), i18n.T("form.device.model"), i18n.T("form.device.location")}
		placeholders = []string{"超音波装置", "US-1", "診察室2"}
		values = []string{d.Name, d.Model, d.Location}
	case repairForm:
		d := s.RepairDraft()
		prompts = []string{i18n.T("form.repair.date"), i18n.T("form.repair.description")}
		placeholders = []string{"YYYY-MM-DD", i18n.T("form.repair.description_placeholder")}
		values = []string{d.Date, d.Description}
	case inspectionForm:
		d := s.InspectionDraft()
		prompts = []string{i18n.T("form.inspection.last"), i18n.T("form.inspection.next")}
		placeholders = []string{"YYYY-MM-DD", "YYYY-MM-DD"}
		values = []string{d.Last, d.Next}
	}
	if dev, ok := s.SelectedDevice(); ok {
		m.deviceName = dev.Name
	}

	width := 0
	for _, p := range prompts {
		if w := lipgloss.Width(p); w > width {
			width = w
		}
	}

	m.inputs = make([]textinput.Model, len(prompts))
	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = inputFocusedStyle
		t.CharLimit = 128
		t.Width = 40
		t.Prompt = padCell(prompts[i], width) + " "
		t.Placeholder = placeholders[i]
		t.SetValue(values[i])
		m.inputs[i] = t
	}
	m.inputs[0].Focus()
	m.inputs[0].TextStyle = inputFocusedStyle
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		// Go back to the ledger; the draft stays in the session.
		case "esc":
			return m, func() tea.Msg { return backToListMsg{} }

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			// Did the user press enter while the submit button was focused?
			if s == "enter" && m.focusIndex == len(m.inputs) {
				return m.submit()
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].TextStyle = inputFocusedStyle
					continue
				}
				m.inputs[i].Blur()
				m.inputs[i].TextStyle = lipgloss.NewStyle()
			}
			return m, tea.Batch(cmds...)
		}
	}

	// Handle character input and blinking
	cmd := m.updateInputs(msg)
	m.syncDraft()
	return m, cmd
}

func (m *formModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

// syncDraft copies the input values into the matching session draft.
func (m *formModel) syncDraft() {
	v := func(i int) string { return m.inputs[i].Value() }
	switch m.kind {
	case newDeviceForm:
		m.session.SetDeviceDraft(core.DeviceDraft{Name: v(0), Model: v(1), Location: v(2)})
	case repairForm:
		m.session.SetRepairDraft(core.RepairDraft{Date: v(0), Description: v(1)})
	case inspectionForm:
		m.session.SetInspectionDraft(core.InspectionDraft{Last: v(0), Next: v(1)})
	}
}

// submit commits the draft. Rejected commits leave the form open with its
// input intact and a hint naming the reason.
func (m formModel) submit() (tea.Model, tea.Cmd) {
	m.syncDraft()

	var (
		id  int
		err error
	)
	switch m.kind {
	case newDeviceForm:
		var dev model.Device
		dev, err = m.session.CommitNewDevice()
		id = dev.ID
	case repairForm:
		id, _ = m.session.SelectedID()
		err = m.session.CommitRepair()
	case inspectionForm:
		id, _ = m.session.SelectedID()
		err = m.session.CommitInspection()
	}

	if errors.Is(err, core.ErrValidationSkip) || errors.Is(err, core.ErrNoSelection) {
		m.err = err
		return m, nil
	}
	kind := m.kind
	if err != nil {
		// The target vanished; the session already discarded the draft.
		return m, func() tea.Msg { return backToListMsg{} }
	}
	return m, func() tea.Msg { return deviceModifiedMsg{kind: kind, deviceID: id} }
}

func (m formModel) title() string {
	switch m.kind {
	case repairForm:
		return i18n.T("form.repair.title", m.deviceName)
	case inspectionForm:
		return i18n.T("form.inspection.title", m.deviceName)
	default:
		return i18n.T("form.device.title")
	}
}

// hint returns the localized reason for a rejected submit.
func (m formModel) hint() string {
	switch {
	case errors.Is(m.err, core.ErrNoSelection):
		return i18n.T("form.hint.no_selection")
	case m.kind == newDeviceForm:
		return i18n.T("form.hint.device_required")
	case m.kind == repairForm:
		return i18n.T("form.hint.repair_required")
	}
	return ""
}

func (m formModel) View() string {
	var viewItems []string
	viewItems = append(viewItems, formTitleStyle.Render(m.title()))

	// The title's padding adds a newline, so we add one more for a blank line.
	viewItems = append(viewItems, "")
	for i := range m.inputs {
		viewItems = append(viewItems, m.inputs[i].View())
	}

	label := "[ " + i18n.T("form.submit") + " ]"
	button := submitStyle.Render(label)
	if m.focusIndex == len(m.inputs) {
		button = submitFocusedStyle.Render(label)
	}
	viewItems = append(viewItems, "", button) // Blank line before button

	if m.err != nil {
		viewItems = append(viewItems, "", rejectStyle.Render(m.hint()))
	}

	viewItems = append(viewItems, "", helpStyle.Render(i18n.T("form.help")))

	return lipgloss.JoinVertical(lipgloss.Left, viewItems...)
}
