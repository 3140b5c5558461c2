// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// package core holds the device registry, the search filter and the session
// state that the TUI and the CLI drive.
package core

import (
	"fmt"

	"github.com/toeirei/medledger/internal/model"
)

// DeviceDraft holds the pending input of the "register device" form.
type DeviceDraft struct {
	Name     string
	Model    string
	Location string
}

// Registry is an immutable snapshot of all registered devices in insertion
// order. Mutating methods return a new Registry and leave the receiver as it
// was; the zero value is an empty registry.
type Registry struct {
	devices []model.Device
	nextID  int
}

// NewRegistry builds a registry from devices. The input is copied, and ids
// handed out later by CreateDevice start after the highest id present.
// Devices must pass CheckDevices; input from outside the program should be
// checked first.
func NewRegistry(devices []model.Device) Registry {
	r := Registry{devices: make([]model.Device, len(devices)), nextID: 1}
	for i, d := range devices {
		r.devices[i] = d.Clone()
		if d.ID >= r.nextID {
			r.nextID = d.ID + 1
		}
	}
	return r
}

// CheckDevices reports the first device that cannot be part of a registry:
// ids must be positive and unique, name and model must be set.
func CheckDevices(devices []model.Device) error {
	seen := make(map[int]bool, len(devices))
	for i, d := range devices {
		switch {
		case d.ID <= 0:
			return fmt.Errorf("%w: device %d has id %d", ErrInvalidDevice, i, d.ID)
		case seen[d.ID]:
			return fmt.Errorf("%w: duplicate device id %d", ErrInvalidDevice, d.ID)
		case d.Name == "" || d.Model == "":
			return fmt.Errorf("%w: device %d needs a name and a model", ErrInvalidDevice, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

// Len returns the number of registered devices.
func (r Registry) Len() int { return len(r.devices) }

// NextID returns the id the next created device will receive.
func (r Registry) NextID() int {
	if r.nextID < 1 {
		return 1
	}
	return r.nextID
}

// Devices returns a copy of all devices in insertion order.
func (r Registry) Devices() []model.Device {
	out := make([]model.Device, len(r.devices))
	for i, d := range r.devices {
		out[i] = d.Clone()
	}
	return out
}

// Device looks up a device by id.
func (r Registry) Device(id int) (model.Device, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.devices[i].Clone(), true
	}
	return model.Device{}, false
}

// Filter is shorthand for FilterDevices(r.Devices(), term).
func (r Registry) Filter(term string) []model.Device {
	return FilterDevices(r.Devices(), term)
}

// CreateDevice registers a new device built from d. Name and model are
// required. The device gets the next id from the registry's counter, the
// inspection placeholders and an empty repair log, and is appended last.
func (r Registry) CreateDevice(d DeviceDraft) (Registry, model.Device, error) {
	if d.Name == "" || d.Model == "" {
		return r, model.Device{}, ErrValidationSkip
	}
	dev := model.Device{
		ID:             r.NextID(),
		Name:           d.Name,
		Model:          d.Model,
		Location:       d.Location,
		LastInspection: model.NotPerformed,
		NextInspection: model.NotScheduled,
		Repairs:        []model.RepairRecord{},
	}
	next := Registry{
		devices: make([]model.Device, 0, len(r.devices)+1),
		nextID:  dev.ID + 1,
	}
	next.devices = append(next.devices, r.devices...)
	next.devices = append(next.devices, dev)
	return next, dev.Clone(), nil
}

// RecordInspection overwrites both inspection fields of device id. The values
// are stored as given.
func (r Registry) RecordInspection(id int, last, next string) (Registry, error) {
	return r.replace(id, func(d model.Device) model.Device {
		d.LastInspection = last
		d.NextInspection = next
		return d
	})
}

// AddRepair appends rec to the repair log of device id. Date and description
// are required.
func (r Registry) AddRepair(id int, rec model.RepairRecord) (Registry, error) {
	if rec.Date == "" || rec.Description == "" {
		return r, ErrValidationSkip
	}
	return r.replace(id, func(d model.Device) model.Device {
		repairs := make([]model.RepairRecord, 0, len(d.Repairs)+1)
		repairs = append(repairs, d.Repairs...)
		d.Repairs = append(repairs, rec)
		return d
	})
}

// replace derives a new snapshot in which the device with the given id is
// swapped for fn's result. Untouched devices share storage with r, which is
// safe because no snapshot is ever modified in place.
func (r Registry) replace(id int, fn func(model.Device) model.Device) (Registry, error) {
	i := r.indexOf(id)
	if i < 0 {
		return r, ErrLookupMiss
	}
	next := Registry{devices: make([]model.Device, len(r.devices)), nextID: r.nextID}
	copy(next.devices, r.devices)
	next.devices[i] = fn(r.devices[i])
	return next, nil
}

func (r Registry) indexOf(id int) int {
	for i := range r.devices {
		if r.devices[i].ID == id {
			return i
		}
	}
	return -1
}
