// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for the HWID manager.
//
// Usage:
//
//	go run . [flags]
//	./hwidmanager [flags]
//
// Without a subcommand the interactive TUI starts. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/hwidmanager/ui/cli"
)

// main is the entrypoint for the HWID manager CLI.
func main() {
	if err := cli.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}
