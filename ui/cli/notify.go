// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/toeirei/hwidmanager/internal/core"
)

// cliNotifier prints handler notifications as status lines and remembers
// the last error so the command can fail with it.
type cliNotifier struct {
	out     io.Writer
	lastErr string
}

func (n *cliNotifier) Notify(kind core.Kind, msg string) {
	if kind == core.KindError {
		n.lastErr = msg
		return
	}
	fmt.Fprintln(n.out, msg)
}

// err returns the last reported error, or nil.
func (n *cliNotifier) err() error {
	if n.lastErr == "" {
		return nil
	}
	return errors.New(n.lastErr)
}
