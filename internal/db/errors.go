// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicate reports a second hwid_slots row for a slot key, which happens
// when two writers insert the same key between delete and insert.
var ErrDuplicate = errors.New("slot key already stored")

// duplicateMarkers are the fragments the supported drivers put in a
// unique-key violation: MySQL 1062, Postgres SQLSTATE 23505 and SQLite's
// "UNIQUE constraint failed".
var duplicateMarkers = []string{"duplicate", "unique constraint", "23505", "1062"}

// MapDBError turns a driver's unique-key violation on hwid_slots into
// ErrDuplicate and passes every other error through unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
	}
	return err
}
