// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cfg "github.com/toeirei/medledger/internal/config"
)

// isolate points the user config dir and the working directory at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Chdir(t.TempDir())
	return tmp
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	var nf viper.ConfigFileNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
	if got.Language != "ja" || got.Log.Level != "info" {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	isolate(t)

	c := cfg.Config{Language: "en"}
	c.Log.Level = "debug"
	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}

	// The written file is picked up on the next load.
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Language != "en" || got.Log.Level != "debug" {
		t.Fatalf("expected written values, got %+v", got)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	isolate(t)
	yaml := "language: en\nseed: ./devices.yaml\nlog:\n  level: warn\n  file: ./medledger.log\n"
	file := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := cfg.Config{Language: "en", Seed: "./devices.yaml", Log: cfg.LogConfig{Level: "warn", File: "./medledger.log"}}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadConfig_EnvAndFlagsOverride(t *testing.T) {
	isolate(t)
	t.Setenv("MEDLEDGER_LANGUAGE", "en")
	t.Setenv("MEDLEDGER_LOG_LEVEL", "warn")

	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", "", "")
	if err := cmd.Flags().Set("log-level", "debug"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	got, _ := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), nil)
	if got.Language != "en" {
		t.Fatalf("expected env language en, got %q", got.Language)
	}
	if got.Log.Level != "debug" {
		t.Fatalf("flag should beat env, got %q", got.Log.Level)
	}
}

func TestLoadConfig_LocalFileMerged(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".medledger.yaml", []byte("language: en\n"), 0o600); err != nil {
		t.Fatalf("write local config: %v", err)
	}
	got, _ := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if got.Language != "en" {
		t.Fatalf("expected local override, got %q", got.Language)
	}
}
