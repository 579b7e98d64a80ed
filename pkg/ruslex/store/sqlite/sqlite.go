// Package sqlite implements store.Store on SQLite via modernc.org/sqlite
// (pure Go, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
	"github.com/cognicore/ruslex/pkg/ruslex/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database with WAL mode
// enabled and the analyses schema in place.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps readers unblocked while a save is in flight
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	filename TEXT,
	char_count INTEGER NOT NULL DEFAULT 0,
	word_count INTEGER NOT NULL DEFAULT 0,
	processing_time REAL NOT NULL DEFAULT 0,
	dictionary TEXT,
	statistics TEXT,
	collocations TEXT
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses (created_at DESC);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveAnalysis implements store.Store.
func (s *sqliteStore) SaveAnalysis(ctx context.Context, a store.Analysis) (store.Analysis, error) {
	if a.ID == "" {
		a.ID = store.NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO analyses (id, created_at, filename, char_count, word_count, processing_time, dictionary, statistics, collocations)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.CreatedAt.Format(time.RFC3339Nano),
		a.Filename,
		a.CharCount,
		a.WordCount,
		a.ProcessingTime,
		string(a.Dictionary),
		string(a.Statistics),
		string(a.Collocations),
	)
	if err != nil {
		return store.Analysis{}, fmt.Errorf("save analysis: %w", err)
	}
	return a, nil
}

// GetAnalysis implements store.Store.
func (s *sqliteStore) GetAnalysis(ctx context.Context, id string) (store.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, filename, char_count, word_count, processing_time, dictionary, statistics, collocations
FROM analyses WHERE id = ?`, id)

	var (
		a                               store.Analysis
		createdAt                       string
		dictJSON, statsJSON, collocJSON string
	)
	err := row.Scan(&a.ID, &createdAt, &a.Filename, &a.CharCount, &a.WordCount,
		&a.ProcessingTime, &dictJSON, &statsJSON, &collocJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Analysis{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Analysis{}, fmt.Errorf("get analysis %s: %w", id, err)
	}

	a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Analysis{}, fmt.Errorf("parse created_at for %s: %w", id, err)
	}
	a.Dictionary = []byte(dictJSON)
	a.Statistics = []byte(statsJSON)
	a.Collocations = []byte(collocJSON)
	return a, nil
}

// ListAnalyses implements store.Store.
func (s *sqliteStore) ListAnalyses(ctx context.Context, limit int) ([]store.Summary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, filename, char_count, word_count, processing_time
FROM analyses ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var summaries []store.Summary
	for rows.Next() {
		var (
			sum       store.Summary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &createdAt, &sum.Filename, &sum.CharCount,
			&sum.WordCount, &sum.ProcessingTime); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", sum.ID, err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// DeleteAnalysis implements store.Store.
func (s *sqliteStore) DeleteAnalysis(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete analysis %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internalerr.ErrNotFound
	}
	return nil
}
