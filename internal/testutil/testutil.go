// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds storage fakes shared by the package tests.
package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/toeirei/hwidmanager/internal/slot"
)

// ErrInjected is returned by FlakySlot when a failure is switched on.
var ErrInjected = errors.New("testutil: injected failure")

// FlakySlot is an in-memory slot whose reads and writes can be made to fail.
type FlakySlot struct {
	*slot.MemorySlot
	FailReads  bool
	FailWrites bool
	Writes     int // successful writes
}

// NewFlakySlot returns an empty FlakySlot with no failures switched on.
func NewFlakySlot() *FlakySlot {
	return &FlakySlot{MemorySlot: slot.NewMemorySlot()}
}

func (f *FlakySlot) Read(ctx context.Context, key string) ([]byte, error) {
	if f.FailReads {
		return nil, ErrInjected
	}
	return f.MemorySlot.Read(ctx, key)
}

func (f *FlakySlot) Write(ctx context.Context, key string, data []byte) error {
	if f.FailWrites {
		return ErrInjected
	}
	f.Writes++
	return f.MemorySlot.Write(ctx, key, data)
}

// Seed stores raw under key, failing the test on error.
func Seed(t *testing.T, s slot.Slot, key string, raw string) {
	t.Helper()
	if err := s.Write(context.Background(), key, []byte(raw)); err != nil {
		t.Fatalf("seed %q: %v", key, err)
	}
}
