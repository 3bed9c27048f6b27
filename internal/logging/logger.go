// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Callers should use the helper functions
// below rather than reaching for L directly.
var L = clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "hwidmanager"})

// Init replaces L with a logger writing to w at the named level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func Init(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	L = clog.NewWithOptions(w, clog.Options{
		Prefix:          "hwidmanager",
		ReportTimestamp: true,
		Level:           ParseLevel(level),
	})
}

// ParseLevel maps a config value onto a log level.
func ParseLevel(level string) clog.Level {
	lvl, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return clog.InfoLevel
	}
	return lvl
}

// SetDebug lowers the level of L to debug when enabled is true.
func SetDebug(enabled bool) {
	if enabled {
		L.SetLevel(clog.DebugLevel)
	}
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...any) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...any) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...any) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...any) {
	L.Error(fmt.Sprintf(format, v...))
}
