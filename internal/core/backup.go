// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"filippo.io/age"
	"github.com/klauspost/compress/zstd"

	"github.com/toeirei/hwidmanager/internal/logging"
	"github.com/toeirei/hwidmanager/internal/model"
	"github.com/toeirei/hwidmanager/internal/registry"
	"github.com/toeirei/hwidmanager/internal/slot"
)

// ErrPassphraseRequired is returned by ReadBackup for an encrypted backup
// when no passphrase was given.
var ErrPassphraseRequired = errors.New("backup is encrypted: passphrase required")

// ageHeader is the first line of every age file.
const ageHeader = "age-encryption.org/v1"

// RestoreOptions controls Restore. Full replaces the whole list; otherwise
// the backup is merged into the existing entries.
type RestoreOptions struct {
	Full bool
}

// Backup snapshots the list held by st.
func Backup(st *registry.Store) *model.BackupData {
	return &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		CreatedAt:     time.Now().UTC(),
		SlotKey:       st.Key(),
		Entries:       st.Entries(),
	}
}

// WriteBackup streams data to w as indented JSON inside a zstd frame. A
// non-empty passphrase additionally wraps the compressed stream in age
// scrypt encryption.
func WriteBackup(w io.Writer, data *model.BackupData, passphrase string) error {
	var (
		sink   = w
		closer io.WriteCloser
	)
	if passphrase != "" {
		recipient, err := age.NewScryptRecipient(passphrase)
		if err != nil {
			return fmt.Errorf("could not create age recipient: %w", err)
		}
		enc, err := age.Encrypt(w, recipient)
		if err != nil {
			return fmt.Errorf("could not start encryption: %w", err)
		}
		sink, closer = enc, enc
	}

	zw, err := zstd.NewWriter(sink)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	encoder := json.NewEncoder(zw)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not finish zstd stream: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("could not finish encryption: %w", err)
		}
	}
	return nil
}

// ReadBackup decodes a backup written by WriteBackup. Encrypted input is
// recognized by its age header.
func ReadBackup(r io.Reader, passphrase string) (*model.BackupData, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br

	if head, _ := br.Peek(len(ageHeader)); string(head) == ageHeader {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		identity, err := age.NewScryptIdentity(passphrase)
		if err != nil {
			return nil, fmt.Errorf("could not create age identity: %w", err)
		}
		dec, err := age.Decrypt(br, identity)
		if err != nil {
			return nil, fmt.Errorf("could not decrypt backup: %w", err)
		}
		src = dec
	}

	zr, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	if data.SchemaVersion > model.BackupSchemaVersion {
		return nil, fmt.Errorf("unsupported backup schema version %d", data.SchemaVersion)
	}
	return &data, nil
}

// Restore loads data into st. A full restore replaces the list. A merge
// appends backup entries whose hwid is not yet present, in backup order;
// an entry whose id is already taken gets a fresh one. It returns how many
// entries were added and how many were skipped as duplicates.
func Restore(ctx context.Context, st *registry.Store, data *model.BackupData, opts RestoreOptions) (added, skipped int, err error) {
	if data == nil {
		return 0, 0, errors.New("restore: no backup data")
	}
	if opts.Full {
		if err := st.Replace(ctx, data.Entries); err != nil {
			return 0, 0, fmt.Errorf("full restore: %w", err)
		}
		return len(data.Entries), 0, nil
	}

	merged := st.Entries()
	ids := make(map[string]struct{}, len(merged))
	hwids := make(map[string]struct{}, len(merged))
	for _, e := range merged {
		ids[e.ID] = struct{}{}
		hwids[e.HWID] = struct{}{}
	}

	for _, e := range data.Entries {
		if strings.TrimSpace(e.HWID) == "" {
			skipped++
			continue
		}
		if _, dup := hwids[e.HWID]; dup {
			skipped++
			continue
		}
		if _, taken := ids[e.ID]; taken || e.ID == "" {
			id, err := st.NewID(func(id string) bool {
				_, used := ids[id]
				return used
			})
			if err != nil {
				return 0, 0, fmt.Errorf("merge restore: %w", err)
			}
			old := e.ID
			e.ID = id
			logging.Debugf("restore: reassigned id %q to %q for hwid %q", old, e.ID, e.HWID)
		}
		ids[e.ID] = struct{}{}
		hwids[e.HWID] = struct{}{}
		merged = append(merged, e)
		added++
	}

	if added == 0 {
		return 0, skipped, nil
	}
	if err := st.Replace(ctx, merged); err != nil {
		return 0, 0, fmt.Errorf("merge restore: %w", err)
	}
	return added, skipped, nil
}

// Migrate copies the list held by src into dst under key. An empty key
// keeps the source key. Whatever dst held under that key is overwritten.
func Migrate(ctx context.Context, src *registry.Store, dst slot.Slot, key string) (int, error) {
	if key == "" {
		key = src.Key()
	}
	target := registry.New(dst, registry.WithKey(key))
	if err := target.Replace(ctx, src.Entries()); err != nil {
		return 0, fmt.Errorf("migrate to %q: %w", key, err)
	}
	return src.Len(), nil
}
