// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store exports finished result tables into a SQLite database.
// Each run is stored once, after the harvest completes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sidscraper/pkg/types"
)

// Store manages the export database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating its parent
// directory and the schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS traits (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			taxa TEXT NOT NULL,
			mean_seed_weight_g TEXT NOT NULL,
			perc_oil_content TEXT NOT NULL,
			perc_protein_content TEXT NOT NULL,
			salt_tolerance INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_traits_taxa ON traits(taxa)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores rows as a new run in one transaction and returns the run ID.
func (s *Store) SaveRun(ctx context.Context, rows types.ResultTable) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, row_count) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339), len(rows))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO traits
		(run_id, seq, taxa, mean_seed_weight_g, perc_oil_content, perc_protein_content, salt_tolerance)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID, i, r.Taxa, r.MeanSeedWeight,
			r.OilContent, r.ProteinContent, r.SaltTolerance); err != nil {
			return 0, fmt.Errorf("inserting row %d (%s): %w", i, r.Taxa, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Rows returns the rows of a stored run in their original order.
func (s *Store) Rows(ctx context.Context, runID int64) (types.ResultTable, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT taxa, mean_seed_weight_g, perc_oil_content,
		perc_protein_content, salt_tolerance FROM traits WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", runID, err)
	}
	defer rs.Close()

	var rows types.ResultTable
	for rs.Next() {
		var r types.TraitRow
		if err := rs.Scan(&r.Taxa, &r.MeanSeedWeight, &r.OilContent, &r.ProteinContent, &r.SaltTolerance); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rows = append(rows, r)
	}
	return rows, rs.Err()
}

// RunCount returns the number of stored runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}
