// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import (
	"errors"
	"fmt"
)

// ValidationKind classifies why an add was rejected.
type ValidationKind int

const (
	// EmptyHWID means the HWID was blank after trimming.
	EmptyHWID ValidationKind = iota + 1
	// DuplicateHWID means an entry with the same HWID already exists.
	DuplicateHWID
)

func (k ValidationKind) String() string {
	switch k {
	case EmptyHWID:
		return "empty hwid"
	case DuplicateHWID:
		return "duplicate hwid"
	default:
		return fmt.Sprintf("validation kind %d", int(k))
	}
}

// ValidationError rejects an add without touching the list.
type ValidationError struct {
	Kind ValidationKind
	HWID string
}

func (e *ValidationError) Error() string {
	if e.HWID == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.HWID)
}

// Is matches any *ValidationError of the same kind, so
// errors.Is(err, ErrDuplicateHWID) works regardless of the HWID carried.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	// ErrEmptyHWID matches validation errors of kind EmptyHWID.
	ErrEmptyHWID error = &ValidationError{Kind: EmptyHWID}
	// ErrDuplicateHWID matches validation errors of kind DuplicateHWID.
	ErrDuplicateHWID error = &ValidationError{Kind: DuplicateHWID}

	// ErrPersist wraps failures writing the list to its slot. The mutation
	// that triggered the write has been rolled back.
	ErrPersist = errors.New("persist hwid list")
	// ErrCorruptSlot is matched by *CorruptSlotError.
	ErrCorruptSlot = errors.New("corrupt hwid slot")
	// ErrInvalidEntries is returned by Replace for lists that break the
	// registry's invariants.
	ErrInvalidEntries = errors.New("invalid hwid entries")
)

// CorruptSlotError reports persisted data that could not be used. The raw
// bytes were copied to QuarantineKey (empty if that copy failed) and the
// store continues with an empty list.
type CorruptSlotError struct {
	Key           string
	QuarantineKey string
	Err           error
}

func (e *CorruptSlotError) Error() string {
	if e.QuarantineKey == "" {
		return fmt.Sprintf("corrupt hwid slot %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("corrupt hwid slot %q (moved to %q): %v", e.Key, e.QuarantineKey, e.Err)
}

func (e *CorruptSlotError) Is(target error) bool { return target == ErrCorruptSlot }

func (e *CorruptSlotError) Unwrap() error { return e.Err }
