// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// SnapshotSchemaVersion is written into every serialized snapshot.
const SnapshotSchemaVersion = 1

// SnapshotData is the serialized form of a registry snapshot. It is used for
// seed files and backups.
type SnapshotData struct {
	// SchemaVersion helps in handling format changes when reading old files.
	SchemaVersion int      `json:"schema_version" yaml:"schema_version"`
	Devices       []Device `json:"devices" yaml:"devices"`
}
