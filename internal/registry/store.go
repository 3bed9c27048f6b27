// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// Package registry owns the canonical, ordered list of HWID entries and keeps
// it mirrored into a persistent slot. Every mutation is followed by an
// explicit save; a failed save rolls the mutation back so memory and storage
// never disagree.
//
// A Store is not safe for concurrent use.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/toeirei/hwidmanager/internal/logging"
	"github.com/toeirei/hwidmanager/internal/model"
	"github.com/toeirei/hwidmanager/internal/slot"
)

// quarantineSuffix is appended to the slot key when unreadable data is set aside.
const quarantineSuffix = ".corrupt"

// maxIDAttempts bounds regeneration when the id source returns an id in use.
const maxIDAttempts = 8

// Store holds the HWID list, newest entry first.
type Store struct {
	slot    slot.Slot
	key     string
	entries []model.Entry

	now           func() time.Time
	format        func(time.Time) string
	newID         func() string
	unknownPlayer string
}

// New returns an empty Store persisting into s. Call Load to read what is
// already stored.
func New(s slot.Slot, opts ...Option) *Store {
	st := &Store{slot: s}
	defaults(st)
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Key returns the slot key the list is stored under.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory list with the persisted one. A missing slot
// yields an empty list. Unreadable data also yields an empty list: the raw
// bytes are copied to <key>.corrupt first and a *CorruptSlotError is
// returned so the caller can tell the operator.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.slot.Read(ctx, s.key)
	if errors.Is(err, slot.ErrNotFound) {
		s.entries = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("load hwid list: %w", err)
	}

	entries, perr := decode(raw)
	if perr == nil {
		s.entries = entries
		logging.Debugf("registry: loaded %d entries from %q", len(entries), s.key)
		return nil
	}

	s.entries = nil
	cerr := &CorruptSlotError{Key: s.key, Err: perr}
	qkey := s.key + quarantineSuffix
	if werr := s.slot.Write(ctx, qkey, raw); werr != nil {
		logging.Errorf("registry: could not quarantine corrupt slot %q: %v", s.key, werr)
	} else {
		cerr.QuarantineKey = qkey
	}
	logging.Warnf("registry: %v", cerr)
	return cerr
}

// decode parses and validates a persisted list.
func decode(raw []byte) ([]model.Entry, error) {
	var entries []model.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	if err := validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// validate checks the list-wide invariants: every entry has an id and an
// HWID, and neither repeats.
func validate(entries []model.Entry) error {
	ids := make(map[string]struct{}, len(entries))
	hwids := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("entry %d has no id", i)
		}
		if strings.TrimSpace(e.HWID) == "" {
			return fmt.Errorf("entry %d (%s) has no hwid", i, e.ID)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("entry %d repeats id %q", i, e.ID)
		}
		if _, dup := hwids[e.HWID]; dup {
			return fmt.Errorf("entry %d repeats hwid %q", i, e.HWID)
		}
		ids[e.ID] = struct{}{}
		hwids[e.HWID] = struct{}{}
	}
	return nil
}

// Save writes the full list to the slot as a JSON array.
func (s *Store) Save(ctx context.Context) error {
	list := s.entries
	if list == nil {
		list = []model.Entry{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}
	if err := s.slot.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// commit installs next and saves it, restoring the previous list when the
// save fails.
func (s *Store) commit(ctx context.Context, next []model.Entry) error {
	prev := s.entries
	s.entries = next
	if err := s.Save(ctx); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

// Add registers hwid for playerName and returns the new entry, which is placed
// first in the list. Both inputs are trimmed; a blank player name becomes the
// unknown-player sentinel.
func (s *Store) Add(ctx context.Context, hwid, playerName string) (model.Entry, error) {
	hwid = strings.TrimSpace(hwid)
	if hwid == "" {
		return model.Entry{}, &ValidationError{Kind: EmptyHWID}
	}
	if _, ok := s.FindByHWID(hwid); ok {
		return model.Entry{}, &ValidationError{Kind: DuplicateHWID, HWID: hwid}
	}
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		playerName = s.unknownPlayer
	}

	id, err := s.freshID()
	if err != nil {
		return model.Entry{}, err
	}
	stamp := s.format(s.now())
	e := model.Entry{
		ID:         id,
		HWID:       hwid,
		PlayerName: playerName,
		DateAdded:  stamp,
		LastSeen:   stamp,
	}

	next := make([]model.Entry, 0, len(s.entries)+1)
	next = append(next, e)
	next = append(next, s.entries...)
	if err := s.commit(ctx, next); err != nil {
		return model.Entry{}, err
	}
	logging.Debugf("registry: added %s", e)
	return e, nil
}

func (s *Store) freshID() (string, error) {
	return s.NewID(func(id string) bool {
		_, taken := s.Get(id)
		return taken
	})
}

// NewID draws an id from the store's id source that is not empty and not
// reported as in use.
func (s *Store) NewID(inUse func(id string) bool) (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if id != "" && !inUse(id) {
			return id, nil
		}
	}
	return "", errors.New("registry: could not generate a unique entry id")
}

// Remove deletes the entry with the given id and reports whether one was
// found. A missing id is a no-op and nothing is written.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.entries), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	logging.Debugf("registry: removed %s", id)
	return true, nil
}

// Clear removes every entry and persists the empty list.
func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, nil)
}

// Replace installs entries as the whole list, in the given order, after
// checking the list-wide invariants.
func (s *Store) Replace(ctx context.Context, entries []model.Entry) error {
	if err := validate(entries); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntries, err)
	}
	return s.commit(ctx, slices.Clone(entries))
}

// Filter returns a lazy view of the entries whose HWID or player name
// contains term, ignoring case. The sequence reads the list when iterated,
// so it can be ranged over again after the store changes.
func (s *Store) Filter(term string) iter.Seq[model.Entry] {
	return func(yield func(model.Entry) bool) {
		for _, e := range s.entries {
			if e.Matches(term) && !yield(e) {
				return
			}
		}
	}
}

// Entries returns a copy of the list, newest first.
func (s *Store) Entries() []model.Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Get returns the entry with the given id.
func (s *Store) Get(id string) (model.Entry, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return model.Entry{}, false
}

// FindByHWID returns the entry with exactly this HWID.
func (s *Store) FindByHWID(hwid string) (model.Entry, bool) {
	for _, e := range s.entries {
		if e.HWID == hwid {
			return e, true
		}
	}
	return model.Entry{}, false
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.entries, func(e model.Entry) bool { return e.ID == id })
}
