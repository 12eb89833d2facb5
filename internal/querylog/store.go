// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package querylog persists finished queries to SQLite for long-term
// reporting, beyond the in-memory window. Writes go through an async
// batching service so the resolver hot path never waits on disk.
package querylog

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"grimm.is/sinkhole/internal/stats"
)

// Entry is one persisted query record. Domain and client carry the privacy
// placeholder when the in-memory record was anonymized; the database never
// learns more than the live views disclose.
type Entry struct {
	Timestamp     int64
	Type          string
	Domain        string
	Client        string
	Status        stats.QueryStatus
	Reply         stats.ReplyType
	Upstream      string
	LatencyMicros int64
}

// Store handles persistence of finished queries to SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the query database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open query db: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL, -- Unix timestamp
		type TEXT NOT NULL,
		domain TEXT NOT NULL,
		client TEXT NOT NULL,
		status INTEGER NOT NULL,
		reply INTEGER NOT NULL,
		upstream TEXT,
		latency_us INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_queries_timestamp ON queries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_queries_domain ON queries(domain);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertBatch writes entries inside one transaction and returns the number
// written.
func (s *Store) InsertBatch(entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO queries (timestamp, type, domain, client, status, reply, upstream, latency_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(
			e.Timestamp, e.Type, e.Domain, e.Client,
			int(e.Status), int(e.Reply), e.Upstream, e.LatencyMicros,
		); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Purge deletes entries older than cutoff and returns the number removed.
func (s *Store) Purge(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM queries WHERE timestamp < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge query db: %w", err)
	}
	return res.RowsAffected()
}

// Info is the database introspection view served by the API.
type Info struct {
	Rows      int64 `json:"queries"`
	SizeBytes int64 `json:"filesize"`
	Oldest    int64 `json:"oldest_timestamp"`
	Newest    int64 `json:"newest_timestamp"`
}

// Stat reports row count, on-disk size and timestamp bounds.
func (s *Store) Stat() (Info, error) {
	var info Info
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(MIN(timestamp), 0),
		       COALESCE(MAX(timestamp), 0)
		FROM queries
	`).Scan(&info.Rows, &info.Oldest, &info.Newest)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat query db: %w", err)
	}
	if fi, err := os.Stat(s.path); err == nil {
		info.SizeBytes = fi.Size()
	}
	return info, nil
}
