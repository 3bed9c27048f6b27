// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slot provides the persistent key-value slots the HWID list is
// mirrored into. A slot stores opaque bytes under a string key; the registry
// decides what those bytes mean.
package slot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/hwidmanager/internal/config"
	"github.com/toeirei/hwidmanager/internal/db"
)

// ErrNotFound is returned by Read when nothing is stored under the key.
var ErrNotFound = errors.New("slot: key not found")

// Slot is a named key-value storage location.
type Slot interface {
	// Read returns the bytes stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces whatever is stored under key with data.
	Write(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Open returns the slot backend selected by cfg.Type.
func Open(ctx context.Context, cfg config.Storage) (Slot, error) {
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	switch {
	case typ == "" || typ == "file":
		return NewFileSlot(cfg.Path)
	case typ == "memory":
		return NewMemorySlot(), nil
	case db.Supported(typ):
		return OpenSQLSlot(ctx, typ, cfg.DSN)
	case typ == "s3":
		return OpenS3Slot(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type: '%s'", cfg.Type)
	}
}

// validKey rejects keys that cannot be mapped safely onto every backend.
func validKey(key string) error {
	if key == "" {
		return errors.New("slot: empty key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("slot: invalid key %q", key)
	}
	return nil
}
