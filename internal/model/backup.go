// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "time"

// BackupSchemaVersion is written into every backup produced by this build.
const BackupSchemaVersion = 1

// BackupData is the container written by the backup command.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	SlotKey       string    `json:"slot_key"`
	Entries       []Entry   `json:"entries"`
}
