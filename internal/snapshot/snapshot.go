// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package snapshot reads and writes registry snapshots as JSON, zstd
// compressed JSON or YAML. Snapshots are only written on explicit request.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSnapshot is returned for snapshots that cannot seed a registry.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// DefaultFileName is the backup file name used when none is given.
func DefaultFileName(t time.Time) string {
	return fmt.Sprintf("medledger-backup-%s.json.zst", t.Format("2006-01-02"))
}

// New captures the devices of reg.
func New(reg core.Registry) model.SnapshotData {
	return model.SnapshotData{
		SchemaVersion: model.SnapshotSchemaVersion,
		Devices:       reg.Devices(),
	}
}

// Write encodes reg as indented JSON.
func Write(w io.Writer, reg core.Registry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(New(reg)); err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	return nil
}

// WriteCompressed encodes reg as zstd compressed JSON.
func WriteCompressed(w io.Writer, reg core.Registry) error {
	zstdWriter, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	if err := Write(zstdWriter, reg); err != nil {
		_ = zstdWriter.Close()
		return err
	}
	// Close flushes the final frame.
	if err := zstdWriter.Close(); err != nil {
		return fmt.Errorf("could not finish zstd stream: %w", err)
	}
	return nil
}

// WriteFile writes a compressed snapshot of reg to path.
func WriteFile(path string, reg core.Registry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	if err := WriteCompressed(file, reg); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Read decodes a JSON snapshot, decompressing it first when it starts with
// the zstd frame magic.
func Read(r io.Reader) (model.SnapshotData, error) {
	var data model.SnapshotData

	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))
	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		zstdReader, err := zstd.NewReader(br)
		if err != nil {
			return data, fmt.Errorf("could not create zstd reader: %w", err)
		}
		defer zstdReader.Close()
		src = zstdReader
	}

	if err := json.NewDecoder(src).Decode(&data); err != nil {
		return data, fmt.Errorf("could not decode snapshot: %w", err)
	}
	return data, nil
}

// ReadYAML decodes a YAML snapshot.
func ReadYAML(r io.Reader) (model.SnapshotData, error) {
	var data model.SnapshotData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return data, fmt.Errorf("could not decode yaml snapshot: %w", err)
	}
	return data, nil
}

// LoadFile reads the snapshot at path and builds a registry from it. Files
// ending in .yaml or .yml are YAML; anything else is JSON, compressed or not.
func LoadFile(path string) (core.Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return core.Registry{}, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data model.SnapshotData
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = ReadYAML(file)
	default:
		data, err = Read(file)
	}
	if err != nil {
		return core.Registry{}, err
	}
	if err := Validate(data); err != nil {
		return core.Registry{}, fmt.Errorf("%s: %w", path, err)
	}
	return core.NewRegistry(data.Devices), nil
}

// Validate checks that data can seed a registry: a known schema version and
// devices with unique positive ids, a name and a model.
func Validate(data model.SnapshotData) error {
	if data.SchemaVersion > model.SnapshotSchemaVersion {
		return fmt.Errorf("%w: schema version %d is newer than %d", ErrInvalidSnapshot, data.SchemaVersion, model.SnapshotSchemaVersion)
	}
	if err := core.CheckDevices(data.Devices); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return nil
}
