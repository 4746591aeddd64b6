// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/logging"
)

// Store wraps the DuckDB connection backing join_log and its companion
// tables.
type Store struct {
	conn *sql.DB
}

// Open creates the data directory if needed, opens the DuckDB file at
// cfg.Path, and applies every migration. I/O fatal at init (spec.md §7
// kind 2): a failure here should abort startup.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s", cfg.Path, threads, cfg.MaxMemory)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The store is accessed through short-lived connections per operation
	// (spec.md §5); a single underlying conn with a small pool serializes
	// writers at the file level the same way DuckDB's single-writer file
	// lock does.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(context.Background()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("store opened")
	return s, nil
}

// Conn exposes the underlying connection for callers (enrichment,
// command-surface queries) that need ad hoc SQL beyond this package's
// typed methods.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Close shuts down the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func closeQuietly(conn *sql.DB) {
	_ = conn.Close()
}
