// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/export"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/snapshot"
	"github.com/xuri/excelize/v2"
)

func newTestSession() *core.Session {
	return core.NewSession(core.NewRegistry(core.DefaultSeed()))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// send feeds msg to the ledger and then every message its commands produce,
// the way the runtime would. Blink and batch commands are not followed.
func send(m *ledgerModel, msg tea.Msg) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		seen = append(seen, next)
		_, cmd := m.Update(next)
		if cmd == nil {
			continue
		}
		switch out := cmd().(type) {
		case backToListMsg, deviceModifiedMsg, registryChangedMsg:
			queue = append(queue, out)
		}
	}
	return seen
}

func TestLedger_ShowsAllDevicesInitially(t *testing.T) {
	i18n.Init("en")
	m := newLedgerModel(newTestSession(), "")
	if len(m.displayed) != 10 {
		t.Fatalf("expected 10 devices, got %d", len(m.displayed))
	}
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	out := m.View()
	if !strings.Contains(out, "内視鏡") || !strings.Contains(out, "Devices (10 of 10)") {
		t.Fatalf("unexpected view:\n%s", out)
	}
}

func TestLedger_FilterMode(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")

	m.Update(runes("/"))
	if !m.isFiltering || !m.capturesInput() {
		t.Fatalf("expected filter mode after /")
	}
	m.Update(runes("MRI"))
	if len(m.displayed) != 1 || m.displayed[0].ID != 2 {
		t.Fatalf("expected only device 2, got %v", m.displayed)
	}
	if s.SearchTerm() != "MRI" {
		t.Fatalf("search term must live in the session, got %q", s.SearchTerm())
	}

	m.Update(key(tea.KeyBackspace))
	if s.SearchTerm() != "MR" {
		t.Fatalf("expected MR after backspace, got %q", s.SearchTerm())
	}

	m.Update(key(tea.KeyEnter))
	if m.isFiltering {
		t.Fatalf("enter should leave filter mode")
	}
	if s.SearchTerm() != "MR" {
		t.Fatalf("enter must keep the term, got %q", s.SearchTerm())
	}

	m.Update(key(tea.KeyEsc))
	if s.SearchTerm() != "" || len(m.displayed) != 10 {
		t.Fatalf("esc should clear the filter, term=%q displayed=%d", s.SearchTerm(), len(m.displayed))
	}
}

func TestLedger_FilterWithNoMatchShowsEmptyMessage(t *testing.T) {
	i18n.Init("en")
	m := newLedgerModel(newTestSession(), "")
	m.Update(runes("/"))
	m.Update(runes("zzz"))
	if len(m.displayed) != 0 || m.cursor != 0 {
		t.Fatalf("expected empty list with cursor 0, got %d/%d", len(m.displayed), m.cursor)
	}
	if !strings.Contains(m.View(), "No devices match the filter.") {
		t.Fatalf("expected empty filter message")
	}
}

func TestLedger_NavigateAndSelect(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")

	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyEnter))
	if id, ok := s.SelectedID(); !ok || id != 3 {
		t.Fatalf("expected device 3 selected, got %d (%v)", id, ok)
	}
	if out := m.detailContentView(); !strings.Contains(out, "CTX-300") || !strings.Contains(out, "No repair history") {
		t.Fatalf("detail should show device 3:\n%s", out)
	}

	m.Update(key(tea.KeyUp))
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}

	m.Update(key(tea.KeyEsc))
	if _, ok := s.SelectedID(); ok {
		t.Fatalf("esc without a filter should clear the selection")
	}
}

func TestLedger_ActionsNeedSelection(t *testing.T) {
	i18n.Init("en")
	m := newLedgerModel(newTestSession(), "")
	for _, k := range []string{"r", "i", "y"} {
		m.Update(runes(k))
		if m.state != ledgerListView {
			t.Fatalf("%s without selection must not open a form", k)
		}
		if m.hint != i18n.T("ledger.hint.select_first") {
			t.Fatalf("expected select-first hint after %s, got %q", k, m.hint)
		}
	}
}

func TestLedger_RegisterDeviceFlow(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")

	m.Update(runes("a"))
	if m.state != ledgerFormView || !m.capturesInput() {
		t.Fatalf("expected device form")
	}
	m.Update(runes("超音波装置"))
	m.Update(key(tea.KeyDown))
	m.Update(runes("US-1"))
	m.Update(key(tea.KeyDown))
	m.Update(runes("診察室2"))
	m.Update(key(tea.KeyDown))

	seen := send(m, key(tea.KeyEnter))
	var sawChange bool
	for _, msg := range seen {
		if _, ok := msg.(registryChangedMsg); ok {
			sawChange = true
		}
	}
	if !sawChange {
		t.Fatalf("expected a registry change after submit, saw %v", seen)
	}
	if m.state != ledgerListView {
		t.Fatalf("expected list view after submit")
	}
	dev, ok := s.GetDevice(11)
	if !ok || dev.Name != "超音波装置" || dev.Model != "US-1" || dev.Location != "診察室2" {
		t.Fatalf("device 11 not registered as typed: %+v", dev)
	}
	if len(m.displayed) != 11 || m.displayed[m.cursor].ID != 11 {
		t.Fatalf("cursor should land on the new device")
	}
	if m.status != "Registered device #11." {
		t.Fatalf("unexpected status %q", m.status)
	}
	if d := s.DeviceDraft(); d != (core.DeviceDraft{}) {
		t.Fatalf("draft should be cleared after commit, got %+v", d)
	}
}

func TestLedger_RegisterRejectsMissingFields(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")

	m.Update(runes("a"))
	m.Update(runes("名前だけ"))
	for i := 0; i < 3; i++ {
		m.Update(key(tea.KeyDown))
	}
	_, cmd := m.Update(key(tea.KeyEnter))
	if cmd != nil {
		t.Fatalf("rejected submit must not emit a command")
	}
	if m.state != ledgerFormView || !errors.Is(m.form.err, core.ErrValidationSkip) {
		t.Fatalf("form should stay open with a validation hint, err=%v", m.form.err)
	}
	if s.Registry().Len() != 10 {
		t.Fatalf("registry must be unchanged")
	}
	if !strings.Contains(m.View(), "Name and model are required.") {
		t.Fatalf("expected hint in form view")
	}
}

func TestLedger_EscKeepsDraft(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")

	m.Update(runes("a"))
	m.Update(runes("除細動器B"))
	send(m, key(tea.KeyEsc))
	if m.state != ledgerListView {
		t.Fatalf("esc should return to the list")
	}
	if got := s.DeviceDraft().Name; got != "除細動器B" {
		t.Fatalf("draft lost on esc, got %q", got)
	}

	m.Update(runes("a"))
	if got := m.form.inputs[0].Value(); got != "除細動器B" {
		t.Fatalf("reopened form should be prefilled, got %q", got)
	}
}

func TestLedger_AddRepairFlow(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")

	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyEnter))
	m.Update(runes("r"))
	if m.state != ledgerFormView || m.form.kind != repairForm {
		t.Fatalf("expected repair form")
	}
	if !strings.Contains(m.form.View(), "CTスキャナ") {
		t.Fatalf("repair form should name the device")
	}
	m.Update(runes("2025-06-01"))
	m.Update(key(tea.KeyDown))
	m.Update(runes("X線管交換"))
	m.Update(key(tea.KeyDown))
	send(m, key(tea.KeyEnter))

	dev, _ := s.GetDevice(3)
	if len(dev.Repairs) != 1 || dev.Repairs[0].Date != "2025-06-01" || dev.Repairs[0].Description != "X線管交換" {
		t.Fatalf("repair not recorded: %+v", dev.Repairs)
	}
	if !strings.Contains(m.detailContentView(), "2025-06-01 - X線管交換") {
		t.Fatalf("detail should show the new repair")
	}
}

func TestLedger_InspectionFlow(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")
	if !s.Select(8) {
		t.Fatalf("select 8 failed")
	}

	m.Update(runes("i"))
	m.Update(runes("2025-05-01"))
	m.Update(key(tea.KeyDown))
	m.Update(runes("2026-05-01"))
	m.Update(key(tea.KeyDown))
	send(m, key(tea.KeyEnter))

	dev, _ := s.GetDevice(8)
	if dev.LastInspection != "2025-05-01" || dev.NextInspection != "2026-05-01" {
		t.Fatalf("inspection not recorded: %+v", dev)
	}
	if m.status != "Inspection dates updated." {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestLedger_CopySelected(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(text string) error { copied = text; return nil }
	defer func() { copyToClipboard = orig }()

	s.Select(1)
	m.Update(runes("y"))
	if !strings.Contains(copied, "NS-1000") {
		t.Fatalf("clipboard text should describe device 1, got %q", copied)
	}
	if !strings.Contains(m.status, "内視鏡") {
		t.Fatalf("expected copied status, got %q", m.status)
	}

	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	m.Update(runes("y"))
	if !strings.Contains(m.status, "no clipboard") {
		t.Fatalf("expected failure status, got %q", m.status)
	}
}

func TestLedger_FocusClearsHidingFilter(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")
	m.setSearchTerm("MRI")

	m.focus(8)
	if s.SearchTerm() != "" {
		t.Fatalf("filter hiding the device should be cleared")
	}
	if m.displayed[m.cursor].ID != 8 {
		t.Fatalf("cursor should be on device 8")
	}

	m.focus(99)
	if id, _ := s.SelectedID(); id != 8 {
		t.Fatalf("unknown ids must not change the selection")
	}
}

func fixedClock(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

// registerDevice drives the register form through the ledger.
func registerDevice(m *ledgerModel, name, mdl string) {
	m.Update(runes("a"))
	m.Update(runes(name))
	m.Update(key(tea.KeyDown))
	m.Update(runes(mdl))
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	send(m, key(tea.KeyEnter))
}

func TestLedger_BackupCapturesSessionEdits(t *testing.T) {
	i18n.Init("en")
	fixedClock(t)
	dir := t.TempDir()
	s := newTestSession()
	m := newLedgerModel(s, dir)

	registerDevice(m, "超音波装置", "US-1")
	require.True(t, s.Select(3))
	m.Update(runes("r"))
	m.Update(runes("2026-10-18"))
	m.Update(key(tea.KeyDown))
	m.Update(runes("プローブ交換"))
	m.Update(key(tea.KeyDown))
	send(m, key(tea.KeyEnter))

	m.Update(runes("b"))
	path := filepath.Join(dir, "medledger-backup-2026-10-19.json.zst")
	require.Equal(t, "Backed up 11 devices to "+path+".", m.status)

	reg, err := snapshot.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 11, reg.Len())
	dev, ok := reg.Device(11)
	require.True(t, ok)
	require.Equal(t, "超音波装置", dev.Name)
	dev, _ = reg.Device(3)
	require.Len(t, dev.Repairs, 1)
	require.Equal(t, "プローブ交換", dev.Repairs[0].Description)
	require.Equal(t, 12, reg.NextID())
}

func TestLedger_ExportCapturesSessionEdits(t *testing.T) {
	i18n.Init("en")
	fixedClock(t)
	dir := t.TempDir()
	s := newTestSession()
	m := newLedgerModel(s, dir)

	registerDevice(m, "輸液ポンプ", "IP-9")
	m.Update(runes("x"))
	path := filepath.Join(dir, export.DefaultFileName(now()))
	require.Equal(t, "Exported 11 devices to "+path+".", m.status)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(export.DevicesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 12) // header plus eleven devices
	require.Equal(t, "輸液ポンプ", rows[11][1])
}

func TestLedger_WriteFailureShowsError(t *testing.T) {
	i18n.Init("en")
	fixedClock(t)
	m := newLedgerModel(newTestSession(), filepath.Join(t.TempDir(), "missing"))

	m.Update(runes("b"))
	require.True(t, strings.HasPrefix(m.status, "Write failed: "), m.status)
	m.Update(runes("x"))
	require.True(t, strings.HasPrefix(m.status, "Write failed: "), m.status)
}

func TestLedger_TableShowsHeaderAndSelectionMarker(t *testing.T) {
	i18n.Init("en")
	s := newTestSession()
	m := newLedgerModel(s, "")
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})

	require.True(t, s.Select(2))
	m.refresh() // cursor stays on device 1, the marker belongs to device 2
	content := m.listContentView()
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 10)
	require.NotContains(t, lines[0], "●")
	require.Contains(t, lines[1], "●")
	require.Contains(t, lines[1], "MRI装置")

	view := m.View()
	for _, col := range []string{"Name", "Model", "Location"} {
		require.Contains(t, view, col)
	}
}
