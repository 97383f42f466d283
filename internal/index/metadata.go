// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-search/pkg/types"
)

// MetadataStore manages the SQLite table mapping index positions to papers.
type MetadataStore struct {
	db *sql.DB
}

// OpenMetadata opens or creates the metadata database at path, creating the
// schema if it does not exist.
func OpenMetadata(path string) (*MetadataStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening metadata database: %w", err)
	}

	s := &MetadataStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating metadata schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *MetadataStore) Close() error {
	return s.db.Close()
}

func (s *MetadataStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS positions (
		position INTEGER PRIMARY KEY,
		paper_id TEXT NOT NULL,
		search_text TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Replace atomically swaps the table contents for entries, assigning
// positions 0..N-1 in slice order. An artifact set is rebuilt whole; there
// are no incremental updates.
func (s *MetadataStore) Replace(ctx context.Context, entries []types.CompositeEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM positions`); err != nil {
		return fmt.Errorf("clearing positions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO positions (position, paper_id, search_text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for p, e := range entries {
		if _, err := stmt.ExecContext(ctx, p, e.PaperID, e.SearchText); err != nil {
			return fmt.Errorf("inserting position %d: %w", p, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored positions.
func (s *MetadataStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM positions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting positions: %w", err)
	}
	return n, nil
}

// All returns every entry ordered by position. Positions must be dense and
// zero-based; a gap means the artifact set is corrupt.
func (s *MetadataStore) All(ctx context.Context) ([]types.CompositeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, paper_id, search_text FROM positions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying positions: %w", err)
	}
	defer rows.Close()

	var entries []types.CompositeEntry
	for rows.Next() {
		var position int
		var e types.CompositeEntry
		if err := rows.Scan(&position, &e.PaperID, &e.SearchText); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		if position != len(entries) {
			return nil, fmt.Errorf("metadata positions not dense: got %d at row %d", position, len(entries))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	return entries, nil
}
