// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model holds the plain data types shared by the registry, its
// persistence backends and the user interfaces.
package model

import (
	"fmt"
	"strings"
)

// UnknownPlayer is the default player name stored when none is given.
const UnknownPlayer = "Unknown"

// Entry is one registered HWID-to-player record.
//
// DateAdded and LastSeen are locale-rendered display strings. They are
// never parsed back into times.
type Entry struct {
	ID         string `json:"id"`
	HWID       string `json:"hwid"`
	PlayerName string `json:"playerName"`
	DateAdded  string `json:"dateAdded"`
	LastSeen   string `json:"lastSeen"`
}

// String returns the "hwid (player)" representation.
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.HWID, e.PlayerName)
}

// Matches reports whether the HWID or the player name contains term,
// ignoring case. An empty term matches every entry.
func (e Entry) Matches(term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.HWID), t) ||
		strings.Contains(strings.ToLower(e.PlayerName), t)
}
