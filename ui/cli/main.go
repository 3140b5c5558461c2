// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Medledger
// application using the Cobra library. It defines the root command,
// the global flags and the main entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/medledger/buildvars"
	"github.com/toeirei/medledger/internal/config"
	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/logging"
	"github.com/toeirei/medledger/internal/snapshot"
	"github.com/toeirei/medledger/internal/tui"
	"golang.org/x/term"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string

var appConfig config.Config

// configPath is the explicit --config file, if any. Language changes made in
// the TUI are written back to it.
var configPath *string

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runTUI starts the interactive UI. Tests replace it.
var runTUI = tui.Run

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	// Load optional config file argument from cli
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}
	configPath = optionalConfigPath

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run, so we handle it specifically.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// This is the first run, or the config file was deleted. Create a default one.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// Log a warning but don't fail, as the app can run on defaults.
			logging.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Empty values in the user's file fall back to the defaults.
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Log.Level == "" {
		appConfig.Log.Level = defaults["log.level"].(string)
	}

	logging.SetLevel(appConfig.Log.Level)
	i18n.Init(appConfig.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}

		// If the flag is set but the value is empty, do nothing.
		if path == "" {
			return nil, nil
		}

		// Make sure the user-provided file exists to avoid unwanted behavior.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// loadRegistry builds the starting registry from the configured seed file,
// or from the built-in devices when none is set.
func loadRegistry() (core.Registry, error) {
	if appConfig.Seed == "" {
		return core.NewRegistry(core.DefaultSeed()), nil
	}
	reg, err := snapshot.LoadFile(appConfig.Seed)
	if err != nil {
		return core.Registry{}, errors.New(i18n.T("cli.error_seed", err))
	}
	logging.Infof("loaded %d devices from %s", reg.Len(), appConfig.Seed)
	return reg, nil
}

// saveLanguage persists a language picked in the TUI.
func saveLanguage(lang string) error {
	appConfig.Language = lang
	if configPath != nil {
		return config.WriteConfigFileTo(&appConfig, *configPath)
	}
	return config.WriteConfigFile(&appConfig, false)
}

// runInteractive starts the TUI over a fresh session, or prints the device
// table when stdout is not a terminal.
func runInteractive(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	if !isTerminal() {
		return printDevices(cmd.OutOrStdout(), reg.Devices(), outputTable)
	}

	// The TUI owns the terminal; logs go to the configured file. The session
	// logger is derived afterwards so it writes there too.
	closer, err := logging.OpenFile(appConfig.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	session := core.NewSession(reg)
	logging.Infof("starting TUI with %d devices", reg.Len())
	return runTUI(session, tui.Options{SaveLanguage: saveLanguage})
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medledger",
		Short: "Medledger is a terminal ledger for medical devices.",
		Long: `Medledger keeps a ledger of medical devices with their inspection
dates and repair history. Devices can be searched, registered, inspected
and repaired from an interactive terminal UI.

Running without a subcommand will launch the interactive TUI. When stdout
is not a terminal the device table is printed instead.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupDefaultServices,
		RunE:              runInteractive,
	}

	cmd.Version = compositeVersion()
	cmd.SetVersionTemplate("{{.Version}}\n")

	// Define flags
	cmd.Flags().BoolP("version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "", `UI language ("ja", "en")`)
	cmd.PersistentFlags().String("seed", "", "Snapshot file (.json, .json.zst, .yaml) to load instead of the built-in devices")
	cmd.PersistentFlags().String("log-level", "", `Log level ("debug", "info", "warn", "error")`)

	// Add a lightweight `version` subcommand so users and CI can run `medledger version`.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		newListCmd(),
		newExportCmd(),
		newBackupCmd(),
		versionCmd,
	)

	return cmd
}

// compositeVersion renders "version (commit) built: date" for --version.
func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	composite := v
	if c != "" && c != "dev" {
		composite = composite + " (" + c + ")"
	}
	if d != "" {
		composite = composite + " built: " + d
	}
	return composite
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime. This helper is separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/medledger" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, if no version was discovered, but a gitCommit was
	// provided via ldflags, show that to aid support.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
