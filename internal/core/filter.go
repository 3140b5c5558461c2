// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"strings"

	"github.com/toeirei/medledger/internal/model"
)

// FilterDevices returns the devices whose name, model or location contains
// term as a literal, case-sensitive substring. An empty term matches every
// device. Registry order is preserved, and the result never shares its
// backing array with devices.
func FilterDevices(devices []model.Device, term string) []model.Device {
	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if term == "" ||
			strings.Contains(d.Name, term) ||
			strings.Contains(d.Model, term) ||
			strings.Contains(d.Location, term) {
			out = append(out, d)
		}
	}
	return out
}

// EnsureCursorInView returns the viewport offset that keeps cursor visible
// inside a window of the given height, scrolling only when the cursor
// reaches an edge.
func EnsureCursorInView(cursor, offset, height int) int {
	if height <= 0 {
		return offset
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}
