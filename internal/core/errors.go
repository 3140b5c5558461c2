// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "errors"

// Registry mutations that could not be applied return one of these errors
// together with the unchanged receiver, so callers that ignore the error
// observe a plain no-op.
var (
	// ErrValidationSkip is returned when a required draft field is empty.
	ErrValidationSkip = errors.New("required field is empty")
	// ErrLookupMiss is returned when the target device id is not registered.
	ErrLookupMiss = errors.New("device not found")
	// ErrNoSelection is returned by session commits that need a selected device.
	ErrNoSelection = errors.New("no device selected")
)

// ErrInvalidDevice is returned by CheckDevices.
var ErrInvalidDevice = errors.New("invalid device")
