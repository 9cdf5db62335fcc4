// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history persists past diagnostic runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tombee/mcpdoctor/internal/report"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("history record not found")

// Record is one stored diagnostic run. The full report is kept as a JSON
// blob; the remaining columns exist so listings don't need to unmarshal it.
type Record struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	Target        string    `json:"target"`
	Transport     string    `json:"transport"`
	ServerName    string    `json:"serverName,omitempty"`
	ServerVersion string    `json:"serverVersion,omitempty"`
	ToolCount     int       `json:"toolCount"`
	ErrorCount    int       `json:"errorCount"`
	WarningCount  int       `json:"warningCount"`
	InfoCount     int       `json:"infoCount"`

	// Report is the full report, populated by Get but not by List.
	Report *report.Report `json:"report,omitempty"`
}

// Store provides SQLite-backed storage for diagnostic runs.
type Store struct {
	db *sql.DB
}

// Config contains history storage configuration.
type Config struct {
	// Path is the filesystem path to the SQLite database file.
	// Special value ":memory:" creates an in-memory database.
	Path string
}

// New opens (creating if necessary) the history database at cfg.Path.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// WAL mode for better concurrency
	connStr := cfg.Path
	if cfg.Path != ":memory:" {
		connStr += "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate creates the database schema.
func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			target TEXT NOT NULL,
			transport TEXT NOT NULL,
			server_name TEXT,
			server_version TEXT,
			tool_count INTEGER NOT NULL DEFAULT 0,
			error_count INTEGER NOT NULL DEFAULT 0,
			warning_count INTEGER NOT NULL DEFAULT 0,
			info_count INTEGER NOT NULL DEFAULT 0,
			report TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Append stores one completed diagnostic run and returns its record id.
func (s *Store) Append(ctx context.Context, rep *report.Report) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("report is nil")
	}

	blob, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	errorCount, warningCount, infoCount := rep.Counts()
	id := uuid.New().String()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, target, transport, server_name, server_version,
			tool_count, error_count, warning_count, info_count, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rep.GeneratedAt.UnixMilli(),
		rep.Target,
		rep.Transport,
		rep.Snapshot.ServerName,
		rep.Snapshot.ServerVersion,
		len(rep.Snapshot.Tools),
		errorCount,
		warningCount,
		infoCount,
		string(blob),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store run: %w", err)
	}

	return id, nil
}

// List returns the most recent runs, newest first, without their report
// blobs. A limit of 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, created_at, target, transport, server_name, server_version,
			tool_count, error_count, warning_count, info_count
		FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt int64
		var serverName, serverVersion sql.NullString
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Target, &rec.Transport,
			&serverName, &serverVersion,
			&rec.ToolCount, &rec.ErrorCount, &rec.WarningCount, &rec.InfoCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()
		rec.ServerName = serverName.String
		rec.ServerVersion = serverVersion.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Get returns one run by id, including its full report.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, target, transport, server_name, server_version,
			tool_count, error_count, warning_count, info_count, report
		FROM runs WHERE id = ?`, id)

	var rec Record
	var createdAt int64
	var serverName, serverVersion sql.NullString
	var blob string
	err := row.Scan(&rec.ID, &createdAt, &rec.Target, &rec.Transport,
		&serverName, &serverVersion,
		&rec.ToolCount, &rec.ErrorCount, &rec.WarningCount, &rec.InfoCount, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.ServerName = serverName.String
	rec.ServerVersion = serverVersion.String

	var rep report.Report
	if err := json.Unmarshal([]byte(blob), &rep); err != nil {
		return nil, fmt.Errorf("failed to deserialize report: %w", err)
	}
	rec.Report = &rep

	return &rec, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
