// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the data structures shared by the registry core, the
// TUI and the CLI.
package model

import "fmt"

// Placeholder values stored in the inspection fields of a device that has
// never been inspected or has no inspection on the calendar yet.
const (
	NotPerformed = "not yet performed"
	NotScheduled = "not yet scheduled"
)

// RepairRecord is a dated free-text note describing a maintenance action.
// Records are never edited once appended to a device.
type RepairRecord struct {
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
}

// String returns the "date - description" line used by the repair listings.
func (r RepairRecord) String() string {
	return fmt.Sprintf("%s - %s", r.Date, r.Description)
}

// Device is a managed medical instrument.
// Inspection dates are kept as raw text and never parsed.
type Device struct {
	ID             int            `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Model          string         `json:"model" yaml:"model"`
	Location       string         `json:"location" yaml:"location"`
	LastInspection string         `json:"last_inspection" yaml:"last_inspection"`
	NextInspection string         `json:"next_inspection" yaml:"next_inspection"`
	Repairs        []RepairRecord `json:"repairs" yaml:"repairs"`
}

// String returns "name (model)".
func (d Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Model)
}

// IsInspected reports whether LastInspection holds a real date.
func (d Device) IsInspected() bool {
	return d.LastInspection != "" && d.LastInspection != NotPerformed
}

// IsScheduled reports whether NextInspection holds a real date.
func (d Device) IsScheduled() bool {
	return d.NextInspection != "" && d.NextInspection != NotScheduled
}

// Clone returns a copy of d whose repair log does not share backing storage
// with the original.
func (d Device) Clone() Device {
	out := d
	out.Repairs = make([]RepairRecord, len(d.Repairs))
	copy(out.Repairs, d.Repairs)
	return out
}
