// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/hwidmanager/internal/db"
	"github.com/uptrace/bun"
)

// slotRow is the Bun mapping for the hwid_slots table.
type slotRow struct {
	bun.BaseModel `bun:"table:hwid_slots"`
	Key           string    `bun:"slot_key,pk"`
	Value         string    `bun:"value"`
	UpdatedAt     time.Time `bun:"updated_at"`
}

// SQLSlot stores each key as one row of hwid_slots in a SQLite, PostgreSQL
// or MySQL database.
type SQLSlot struct {
	bun *bun.DB
	now func() time.Time
}

var _ Slot = (*SQLSlot)(nil)

// OpenSQLSlot connects to the database, applies migrations and returns a
// slot backed by it.
func OpenSQLSlot(ctx context.Context, dbType, dsn string) (*SQLSlot, error) {
	bdb, err := db.Open(ctx, dbType, dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLSlot(bdb), nil
}

// NewSQLSlot wraps an already migrated *bun.DB.
func NewSQLSlot(bdb *bun.DB) *SQLSlot {
	return &SQLSlot{bun: bdb, now: time.Now}
}

func (s *SQLSlot) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	var row slotRow
	err := s.bun.NewSelect().Model(&row).Where("slot_key = ?", key).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return []byte(row.Value), nil
}

// Write replaces the row inside a transaction. A delete followed by an
// insert behaves the same on every dialect, unlike the upsert syntaxes.
func (s *SQLSlot) Write(ctx context.Context, key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*slotRow)(nil)).Where("slot_key = ?", key).Exec(ctx); err != nil {
			return err
		}
		row := &slotRow{Key: key, Value: string(data), UpdatedAt: s.now().UTC()}
		_, err := tx.NewInsert().Model(row).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, db.MapDBError(err))
	}
	return nil
}

func (s *SQLSlot) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if _, err := s.bun.NewDelete().Model((*slotRow)(nil)).Where("slot_key = ?", key).Exec(ctx); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLSlot) Close() error {
	return s.bun.Close()
}
