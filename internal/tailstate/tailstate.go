// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package tailstate

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vrc-companion/internal/logging"
)

// Cursor is the persisted tracking state for the current log file.
type Cursor struct {
	// Basename is the tracked file's name, e.g. "output_log_2026-07-30.txt".
	Basename string `json:"basename"`

	// Offset is the byte position the tracker has fully consumed up to.
	Offset int64 `json:"offset"`

	// Remainder holds unterminated bytes from the line assembler (C6) that
	// must be prepended to the next read.
	Remainder []byte `json:"remainder,omitempty"`

	// LastCallID is the last observed remote-API marker call-id, used for
	// the C9 dedup rule (spec.md §4.6).
	LastCallID string `json:"last_call_id,omitempty"`

	// UpdatedAt is when this cursor was last persisted.
	UpdatedAt time.Time `json:"updated_at"`
}

const cursorKey = "cursor"

// Store is a small BadgerDB-backed checkpoint for the log tracker's
// recoverable state. Unlike the teacher's WAL, there is no queue of
// pending entries to replay: there is exactly one current cursor, and
// saving it is an overwrite.
type Store struct {
	db *badger.DB
}

// Open creates or opens the BadgerDB database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open tailstate db: %w", err)
	}

	logging.Info().Str("path", path).Msg("tailstate store opened")
	return &Store{db: db}, nil
}

// Load returns the persisted cursor, or the zero Cursor if none has been
// saved yet (fresh install / deleted state directory).
func (s *Store) Load() (Cursor, error) {
	var cur Cursor
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cursorKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cur)
		})
	})
	if err != nil {
		return Cursor{}, fmt.Errorf("load cursor: %w", err)
	}
	return cur, nil
}

// Save persists the cursor, overwriting whatever was stored before.
func (s *Store) Save(cur Cursor) error {
	cur.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cur)
	if err != nil {
		return fmt.Errorf("marshal cursor: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(cursorKey), data)
	})
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	return nil
}

// Reset clears the persisted cursor, forcing the next Load to return the
// zero value. Used when a fresh file is discovered and the previous
// cursor no longer applies.
func (s *Store) Reset() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(cursorKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Close shuts down the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close tailstate db: %w", err)
	}
	return nil
}
