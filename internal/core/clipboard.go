// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "github.com/atotto/clipboard"

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
