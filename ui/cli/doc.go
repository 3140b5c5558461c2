// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Medledger using Cobra.
// It wires configuration, logging and translations, loads the device
// registry and either starts the TUI or runs one of the batch commands. CLI
// code stays thin and delegates to `internal/core` and the output packages.
package cli
