// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/model"
)

func TestWriteRead_PlainAndCompressed(t *testing.T) {
	reg := core.NewRegistry(core.DefaultSeed())

	var plain, packed bytes.Buffer
	require.NoError(t, Write(&plain, reg))
	require.NoError(t, WriteCompressed(&packed, reg))
	require.True(t, bytes.HasPrefix(packed.Bytes(), zstdMagic), "compressed output must start with the zstd magic")
	require.Contains(t, plain.String(), `"last_inspection": "2025-04-01"`)

	for name, buf := range map[string]*bytes.Buffer{"plain": &plain, "zstd": &packed} {
		data, err := Read(buf)
		require.NoError(t, err, name)
		require.Equal(t, model.SnapshotSchemaVersion, data.SchemaVersion)
		if diff := cmp.Diff(reg.Devices(), data.Devices); diff != "" {
			t.Fatalf("%s snapshot differs (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadFile_Formats(t *testing.T) {
	dir := t.TempDir()
	reg := core.NewRegistry(core.DefaultSeed())

	zst := filepath.Join(dir, "backup.json.zst")
	require.NoError(t, WriteFile(zst, reg))

	yml := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(`schema_version: 1
devices:
  - id: 5
    name: 心電図モニター
    model: ECG-10
    location: ナースステーション
    last_inspection: "2025-05-01"
    next_inspection: "2025-11-01"
    repairs: []
  - id: 9
    name: 手術灯
    model: OP-LUX
    repairs:
      - date: "2024-02-01"
        description: 電球交換
`), 0o600))

	got, err := LoadFile(zst)
	require.NoError(t, err)
	require.Equal(t, 10, got.Len())
	require.Equal(t, 11, got.NextID())

	got, err = LoadFile(yml)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	require.Equal(t, 10, got.NextID(), "next id follows the highest seeded id")
	dev, ok := got.Device(9)
	require.True(t, ok)
	require.Equal(t, []model.RepairRecord{{Date: "2024-02-01", Description: "電球交換"}}, dev.Repairs)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = LoadFile(bad)
	require.Error(t, err)

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`{"schema_version":1,"devices":[{"id":1,"name":"a","model":"b"},{"id":1,"name":"c","model":"d"}]}`), 0o600))
	_, err = LoadFile(dup)
	require.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		data model.SnapshotData
		ok   bool
	}{
		{"empty", model.SnapshotData{}, true},
		{"seed", model.SnapshotData{SchemaVersion: 1, Devices: core.DefaultSeed()}, true},
		{"future schema", model.SnapshotData{SchemaVersion: 2}, false},
		{"zero id", model.SnapshotData{Devices: []model.Device{{Name: "a", Model: "b"}}}, false},
		{"duplicate id", model.SnapshotData{Devices: []model.Device{{ID: 1, Name: "a", Model: "b"}, {ID: 1, Name: "c", Model: "d"}}}, false},
		{"missing model", model.SnapshotData{Devices: []model.Device{{ID: 1, Name: "a"}}}, false},
	}
	for _, tc := range cases {
		err := Validate(tc.data)
		if tc.ok {
			require.NoError(t, err, tc.name)
			continue
		}
		require.ErrorIs(t, err, ErrInvalidSnapshot, tc.name)
		if tc.data.SchemaVersion <= model.SnapshotSchemaVersion {
			require.ErrorIs(t, err, core.ErrInvalidDevice, tc.name)
		}
		require.True(t, strings.HasPrefix(err.Error(), "invalid snapshot"), tc.name)
	}
}
