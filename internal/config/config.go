// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the Medledger configuration from defaults, YAML files,
// MEDLEDGER_* environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	// Language is the UI language code, e.g. "ja" or "en".
	Language string `mapstructure:"language" yaml:"language"`
	// Seed is an optional snapshot file loaded instead of the built-in devices.
	Seed string    `mapstructure:"seed" yaml:"seed,omitempty"`
	Log  LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File receives log output. Empty discards logs while the TUI owns the terminal.
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// Defaults returns the default settings keyed by their viper path.
func Defaults() map[string]any {
	return map[string]any{
		"language":  "ja",
		"seed":      "",
		"log.level": "info",
		"log.file":  "",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Medledger")
		default: // Linux, macOS, etc.
			configDir = "/etc/medledger"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "medledger")
	}

	return filepath.Join(configDir, "medledger.yaml"), nil
}

// LoadConfig resolves the configuration into T. A missing config file is
// reported as viper.ConfigFileNotFoundError alongside the fully resolved
// value, so callers can decide to write one.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("medledger")
	v.SetConfigType("yaml")

	// 3. An explicit --config path has the highest precedence for file-based configuration.
	if additionalConfigFilePath != nil && *additionalConfigFilePath != "" {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	// 4. Add standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for medledger.yaml in current dir

	// 5. Read in the primary config file.
	var notFound error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &nf):
			notFound = nf
		case errors.Is(err, os.ErrNotExist):
			// An explicit path that does not exist.
			notFound = viper.ConfigFileNotFoundError{}
		default:
			return c, err
		}
	}

	// 6. A `.medledger.yaml` in the current directory overrides the file values.
	mergeLocalConfig(v)

	// 7. Read from environment variables
	v.SetEnvPrefix("medledger")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 8. Flags that were set on the command line win. "log-level" binds to "log.level".
	if cmd != nil {
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if bindErr == nil {
				bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "."), f)
			}
		})
		if bindErr != nil {
			return c, bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// mergeLocalConfig merges a `.medledger.yaml` from the current directory.
func mergeLocalConfig(v *viper.Viper) {
	localConfigFile := ".medledger.yaml"
	if _, err := os.Stat(localConfigFile); err == nil {
		v.SetConfigFile(localConfigFile)
		// A malformed local file is ignored rather than breaking startup.
		_ = v.MergeInConfig()
		v.SetConfigFile("")
	}
}

// WriteConfigFile writes c as YAML to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating its directory.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600)
}
