// Package storage records build provenance for the vector index: which
// provider and model embedded each corpus document, and a hash of the
// content that was embedded. It answers "what built this index" at query
// and status time.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFileName is the provenance database file inside an index directory.
const DBFileName = "provenance.db"

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// DBPath returns the provenance database path for an index directory.
func DBPath(indexDir string) string {
	return filepath.Join(indexDir, DBFileName)
}

// Open opens or creates a provenance database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS index_documents (
			doc_id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			model_name TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			indexed_at INTEGER NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Record is the provenance of one indexed document.
type Record struct {
	DocID       string
	Provider    string
	ModelName   string
	ContentHash string // SHA256 of the embedded content
	IndexedAt   int64  // Unix timestamp
}

// Save inserts or replaces the provenance record for a document.
func (d *DB) Save(rec Record) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO index_documents (doc_id, provider, model_name, content_hash, indexed_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.DocID, rec.Provider, rec.ModelName, rec.ContentHash, rec.IndexedAt)
	return err
}

// Get retrieves the provenance record for a document, or nil if absent.
func (d *DB) Get(docID string) (*Record, error) {
	var rec Record
	err := d.db.QueryRow(`
		SELECT doc_id, provider, model_name, content_hash, indexed_at
		FROM index_documents
		WHERE doc_id = ?
	`, docID).Scan(&rec.DocID, &rec.Provider, &rec.ModelName, &rec.ContentHash, &rec.IndexedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Clear removes all provenance records. A rebuild starts from a clean
// table since there are no incremental index updates.
func (d *DB) Clear() error {
	_, err := d.db.Exec("DELETE FROM index_documents")
	return err
}

// Count returns the number of recorded documents.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM index_documents").Scan(&count)
	return count, err
}

// HashContent computes a SHA256 hash of embedded content.
func HashContent(content string) string {
	h := sha256.New()
	io.WriteString(h, content)
	return fmt.Sprintf("%x", h.Sum(nil))
}
