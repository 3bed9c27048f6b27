// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for the HWID manager
// using Cobra. It wires configuration, logging, localization and the storage
// slot, then delegates every command to the handlers in internal/core.
package cli
