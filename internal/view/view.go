// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// Package view projects the HWID list and the live search term onto the rows
// a host UI displays. Render is pure; hosts call it after every command.
package view

import "github.com/toeirei/hwidmanager/internal/model"

// State tells the host which table body to draw.
type State int

const (
	// StateList means at least one row matches.
	StateList State = iota
	// StateEmpty means the registry holds no entries at all.
	StateEmpty
	// StateNoMatches means entries exist but none match the search term.
	StateNoMatches
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateNoMatches:
		return "no-matches"
	default:
		return "list"
	}
}

// Model is the projection of one registry snapshot.
type Model struct {
	Rows       []model.Entry
	Total      int
	SearchTerm string
	State      State
}

// Render returns the rows of entries matching term, in list order.
func Render(entries []model.Entry, term string) Model {
	m := Model{Total: len(entries), SearchTerm: term}
	for _, e := range entries {
		if e.Matches(term) {
			m.Rows = append(m.Rows, e)
		}
	}
	switch {
	case m.Total == 0:
		m.State = StateEmpty
	case len(m.Rows) == 0:
		m.State = StateNoMatches
	default:
		m.State = StateList
	}
	return m
}

// Filtered reports whether a search term narrows the rows.
func (m Model) Filtered() bool { return m.SearchTerm != "" }
