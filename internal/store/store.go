// Package store keeps a local history of generated digests in
// SQLite, so scheduled runs can be audited and re-read without
// refetching from the platform.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS digests (
    id            TEXT PRIMARY KEY,
    window_start  TEXT NOT NULL,
    window_end    TEXT NOT NULL,
    total_runs    INTEGER NOT NULL,
    success_rate  REAL NOT NULL,
    narration     TEXT NOT NULL DEFAULT '',
    recipient     TEXT NOT NULL DEFAULT '',
    sent          INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_digests_created_at
    ON digests(created_at);
`

// Digest is one recorded digest generation.
type Digest struct {
	ID          string
	WindowStart time.Time
	WindowEnd   time.Time
	TotalRuns   int
	SuccessRate float64
	Narration   string
	Recipient   string
	Sent        bool
	CreatedAt   time.Time
}

// NewID generates a ULID-based digest identifier.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Store is a SQLite-backed digest history.
type Store struct {
	db *sql.DB
}

// makeDSN builds a SQLite connection string with shared pragmas.
func makeDSN(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_synchronous", "NORMAL")
	return path + "?" + params.Encode()
}

// Open creates or opens the digest database at path, creating the
// parent directory and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", makeDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening digest db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing digest schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const timeFormat = time.RFC3339Nano

// Record inserts a digest row. A zero ID or CreatedAt is filled in.
func (s *Store) Record(ctx context.Context, d Digest) (Digest, error) {
	if d.ID == "" {
		d.ID = NewID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO digests (
			id, window_start, window_end, total_runs,
			success_rate, narration, recipient, sent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.WindowStart.UTC().Format(timeFormat),
		d.WindowEnd.UTC().Format(timeFormat),
		d.TotalRuns,
		d.SuccessRate,
		d.Narration,
		d.Recipient,
		boolToInt(d.Sent),
		d.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return Digest{}, fmt.Errorf("recording digest: %w", err)
	}
	return d, nil
}

// List returns the most recent digests, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Digest, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, window_start, window_end, total_runs,
		       success_rate, narration, recipient, sent, created_at
		FROM digests
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	defer rows.Close()

	var out []Digest
	for rows.Next() {
		var d Digest
		var start, end, created string
		var sent int
		if err := rows.Scan(
			&d.ID, &start, &end, &d.TotalRuns,
			&d.SuccessRate, &d.Narration, &d.Recipient, &sent, &created,
		); err != nil {
			return nil, fmt.Errorf("scanning digest row: %w", err)
		}
		if d.WindowStart, err = time.Parse(timeFormat, start); err != nil {
			return nil, fmt.Errorf("parsing window_start: %w", err)
		}
		if d.WindowEnd, err = time.Parse(timeFormat, end); err != nil {
			return nil, fmt.Errorf("parsing window_end: %w", err)
		}
		if d.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		d.Sent = sent != 0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating digests: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
