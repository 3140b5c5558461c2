// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Medledger.
//
// Usage:
//
//	go run . [flags]
//	./medledger [flags]
//
// This launches the Medledger CLI. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/medledger/ui/cli"
)

// main is the entrypoint for the Medledger CLI. Cobra already printed the
// error, so only the exit code is left to set.
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
