// Package duckdb persists pipeline results in a queryable DuckDB
// database: one table of per-event classification results and one of
// protein edits. Junction quantification tables can additionally be
// bulk-loaded for ad-hoc querying.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for pipeline results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS event_results (
		event_id VARCHAR,
		module_id VARCHAR,
		gene_id VARCHAR,
		gene_name VARCHAR,
		strand VARCHAR,
		event_size BIGINT,
		consequence_group VARCHAR,
		frame_shift BOOLEAN,
		stop_codon BOOLEAN,
		e1d_start BIGINT,
		e1d_end BIGINT,
		e1p_start BIGINT,
		e1p_end BIGINT,
		e2_start BIGINT,
		e2_end BIGINT,
		phase_removed_nt INTEGER,
		phase_overlap_nt BIGINT,
		distal_peptide VARCHAR,
		proximal_peptide VARCHAR,
		PRIMARY KEY (event_id)
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS protein_edits (
		event_id VARCHAR,
		variant VARCHAR,
		isoform_id VARCHAR,
		new_id VARCHAR,
		subject_start INTEGER,
		subject_end INTEGER,
		matches INTEGER,
		mismatches INTEGER,
		insertions INTEGER,
		deletions INTEGER,
		edited_sequence VARCHAR,
		PRIMARY KEY (event_id, variant, isoform_id)
	)`)
	return err
}

// ImportJunctions bulk-loads a junction quantification TSV into a table
// named by eventClass using DuckDB's read_csv, so a run's raw inputs can
// be queried next to its results.
func (s *Store) ImportJunctions(eventClass, tsvPath string) (int64, error) {
	table := "junctions_" + eventClass
	_, err := s.db.Exec(fmt.Sprintf(
		`CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv(?, delim='\t', header=true, nullstr='NA')`,
		table), tsvPath)
	if err != nil {
		return 0, fmt.Errorf("import junction table %s: %w", eventClass, err)
	}

	var count int64
	if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count junction rows: %w", err)
	}
	return count, nil
}

// EventCount returns the number of stored event results.
func (s *Store) EventCount() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM event_results`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count event results: %w", err)
	}
	return count, nil
}

// EditCount returns the number of stored protein edits.
func (s *Store) EditCount() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM protein_edits`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count protein edits: %w", err)
	}
	return count, nil
}
