// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/toeirei/hwidmanager/internal/config"
	"github.com/toeirei/hwidmanager/internal/i18n"
	"github.com/toeirei/hwidmanager/internal/model"
)

// Option customizes a Store.
type Option func(*Store)

// WithKey sets the slot key the list is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock overrides the time source used for new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTimestampFormat overrides how creation times are rendered.
func WithTimestampFormat(format func(time.Time) string) Option {
	return func(s *Store) { s.format = format }
}

// WithIDGenerator overrides the id source for new entries.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithUnknownPlayer sets the name stored when no player name is given.
func WithUnknownPlayer(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.unknownPlayer = name
		}
	}
}

func defaults(s *Store) {
	s.key = config.DefaultSlotKey
	s.now = time.Now
	s.format = i18n.FormatTimestamp
	s.newID = uuid.NewString
	s.unknownPlayer = model.UnknownPlayer
}
