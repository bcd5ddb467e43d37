// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package txdb stores a transcript-to-gene annotation as a SQLite database,
// the conventional on-disk form for transcript databases. It serves the
// mapping builder's TranscriptDB interface.
package txdb

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// TxRecord is one transcript row from a parsed annotation.
type TxRecord struct {
	TxName string
	GeneID string
}

// DB is an open transcript database.
type DB struct {
	db *sql.DB
}

// Create builds a transcript database at path from the given records,
// replacing any existing file. Transcript names must be unique; a duplicate
// aborts the build.
func Create(path string, records []TxRecord) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale database %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", path, err)
	}
	defer db.Close()

	schema := []string{
		`CREATE TABLE transcripts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			tx_name TEXT NOT NULL UNIQUE,
			gene_id TEXT NOT NULL
		)`,
		`CREATE INDEX idx_transcripts_gene_id ON transcripts(gene_id)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO transcripts (tx_name, gene_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.TxName, rec.GeneID); err != nil {
			return fmt.Errorf("inserting transcript %s: %w", rec.TxName, err)
		}
	}

	return tx.Commit()
}

// Open opens an existing transcript database.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("transcript database %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript database %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// TxNames returns all transcript names in insertion order.
func (d *DB) TxNames() ([]string, error) {
	rows, err := d.db.Query(`SELECT tx_name FROM transcripts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying transcript names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning transcript name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GeneForTx returns the gene identifier the named transcript belongs to.
func (d *DB) GeneForTx(txName string) (string, error) {
	var gene string
	err := d.db.QueryRow(
		`SELECT gene_id FROM transcripts WHERE tx_name = ?`, txName,
	).Scan(&gene)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("transcript %q not in database", txName)
	}
	if err != nil {
		return "", fmt.Errorf("looking up transcript %q: %w", txName, err)
	}
	return gene, nil
}
