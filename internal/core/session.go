// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"sync"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/toeirei/medledger/internal/logging"
	"github.com/toeirei/medledger/internal/model"
)

// RepairDraft holds the pending input of the "add repair" form.
type RepairDraft struct {
	Date        string
	Description string
}

// InspectionDraft holds the pending input of the "update inspection" form.
type InspectionDraft struct {
	Last string
	Next string
}

// Session owns the current registry snapshot together with the transient UI
// state: search term, selected device and the three form drafts. Every
// registry change replaces the snapshot and notifies subscribers.
//
// A session is driven from a single event loop; the lock only guarantees
// that readers on other goroutines never observe a half-applied commit.
type Session struct {
	mu  sync.RWMutex
	id  string
	log *clog.Logger

	reg      Registry
	term     string
	selected int
	hasSel   bool

	deviceDraft     DeviceDraft
	repairDraft     RepairDraft
	inspectionDraft InspectionDraft

	subs    map[int]func(Registry)
	subSeq  int
	subKeys []int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger mutations are reported to.
func WithLogger(l *clog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession starts a session over reg.
func NewSession(reg Registry, opts ...SessionOption) *Session {
	s := &Session{
		id:   uuid.NewString(),
		reg:  reg,
		subs: make(map[int]func(Registry)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.L
	}
	s.log = s.log.With("session", s.id)
	return s
}

// ID returns the session id used to correlate log lines.
func (s *Session) ID() string { return s.id }

// Registry returns the current snapshot.
func (s *Session) Registry() Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg
}

// GetDevice reads a device from the current snapshot.
func (s *Session) GetDevice(id int) (model.Device, bool) {
	return s.Registry().Device(id)
}

// SetSearchTerm replaces the search term.
func (s *Session) SetSearchTerm(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()
}

// SearchTerm returns the current search term.
func (s *Session) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.term
}

// GetFilteredDevices applies the current search term to the current snapshot.
func (s *Session) GetFilteredDevices() []model.Device {
	s.mu.RLock()
	reg, term := s.reg, s.term
	s.mu.RUnlock()
	return reg.Filter(term)
}

// Select focuses the device with the given id, replacing any previous
// selection. It reports false and leaves the selection alone when the id is
// not registered.
func (s *Session) Select(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reg.indexOf(id) < 0 {
		return false
	}
	s.selected, s.hasSel = id, true
	return true
}

// ClearSelection drops the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selected, s.hasSel = 0, false
	s.mu.Unlock()
}

// SelectedID returns the selected device id, if any.
func (s *Session) SelectedID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.hasSel
}

// SelectedDevice reads the selected device from the live snapshot, so commits
// are visible immediately.
func (s *Session) SelectedDevice() (model.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSel {
		return model.Device{}, false
	}
	return s.reg.Device(s.selected)
}

// DeviceDraft returns the pending new-device input.
func (s *Session) DeviceDraft() DeviceDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceDraft
}

// SetDeviceDraft replaces the pending new-device input.
func (s *Session) SetDeviceDraft(d DeviceDraft) {
	s.mu.Lock()
	s.deviceDraft = d
	s.mu.Unlock()
}

// RepairDraft returns the pending repair input.
func (s *Session) RepairDraft() RepairDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repairDraft
}

// SetRepairDraft replaces the pending repair input.
func (s *Session) SetRepairDraft(d RepairDraft) {
	s.mu.Lock()
	s.repairDraft = d
	s.mu.Unlock()
}

// InspectionDraft returns the pending inspection input.
func (s *Session) InspectionDraft() InspectionDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inspectionDraft
}

// SetInspectionDraft replaces the pending inspection input.
func (s *Session) SetInspectionDraft(d InspectionDraft) {
	s.mu.Lock()
	s.inspectionDraft = d
	s.mu.Unlock()
}

// CommitNewDevice registers the device described by the new-device draft and
// clears the draft. When name or model is missing nothing changes and
// ErrValidationSkip is returned.
func (s *Session) CommitNewDevice() (model.Device, error) {
	s.mu.Lock()
	next, dev, err := s.reg.CreateDevice(s.deviceDraft)
	if err != nil {
		s.mu.Unlock()
		s.log.Debug("device not registered", "err", err)
		return model.Device{}, err
	}
	s.reg = next
	s.deviceDraft = DeviceDraft{}
	s.mu.Unlock()

	s.log.Info("device registered", "id", dev.ID, "name", dev.Name, "model", dev.Model)
	s.notify(next)
	return dev, nil
}

// CommitRepair appends the repair draft to the selected device. The draft is
// cleared once it passed validation, even if the device has meanwhile
// disappeared from the registry.
func (s *Session) CommitRepair() error {
	s.mu.Lock()
	if !s.hasSel {
		s.mu.Unlock()
		return ErrNoSelection
	}
	id, draft := s.selected, s.repairDraft
	next, err := s.reg.AddRepair(id, model.RepairRecord{Date: draft.Date, Description: draft.Description})
	if errors.Is(err, ErrValidationSkip) {
		s.mu.Unlock()
		s.log.Debug("repair not recorded", "id", id, "err", err)
		return err
	}
	s.repairDraft = RepairDraft{}
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("repair target missing", "id", id)
		return err
	}
	s.reg = next
	s.mu.Unlock()

	s.log.Info("repair recorded", "id", id, "date", draft.Date)
	s.notify(next)
	return nil
}

// CommitInspection writes the inspection draft to the selected device and
// clears the draft. Dates are not validated; empty values are written as-is.
func (s *Session) CommitInspection() error {
	s.mu.Lock()
	if !s.hasSel {
		s.mu.Unlock()
		return ErrNoSelection
	}
	id, draft := s.selected, s.inspectionDraft
	next, err := s.reg.RecordInspection(id, draft.Last, draft.Next)
	s.inspectionDraft = InspectionDraft{}
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("inspection target missing", "id", id)
		return err
	}
	s.reg = next
	s.mu.Unlock()

	s.log.Info("inspection recorded", "id", id, "last", draft.Last, "next", draft.Next)
	s.notify(next)
	return nil
}

// Subscribe registers fn to be called with every new snapshot. Callbacks run
// synchronously on the committing goroutine in registration order. The
// returned function removes the subscription.
func (s *Session) Subscribe(fn func(Registry)) (cancel func()) {
	s.mu.Lock()
	s.subSeq++
	key := s.subSeq
	s.subs[key] = fn
	s.subKeys = append(s.subKeys, key)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, key)
		for i, k := range s.subKeys {
			if k == key {
				s.subKeys = append(s.subKeys[:i:i], s.subKeys[i+1:]...)
				break
			}
		}
	}
}

func (s *Session) notify(reg Registry) {
	s.mu.RLock()
	fns := make([]func(Registry), 0, len(s.subKeys))
	for _, k := range s.subKeys {
		fns = append(fns, s.subs[k])
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(reg)
	}
}
