// Package store persists scrape runs and reviews in SQLite.
//
// Reviews are deduplicated across runs by content hash: re-scraping a
// business upserts matching reviews onto the newest run instead of
// duplicating rows.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"

	"github.com/hazyhaar/avis/idgen"
)

// Store wraps a database opened via dbopen.
type Store struct {
	DB *sql.DB

	newRunID    idgen.Generator
	newReviewID idgen.Generator
}

// New creates a Store from an already-opened database connection.
func New(db *sql.DB) *Store {
	return &Store{
		DB:          db,
		newRunID:    idgen.Prefixed("run_", idgen.UUIDv7()),
		newReviewID: idgen.Prefixed("rev_", idgen.UUIDv7()),
	}
}

// Init applies the schema. Idempotent.
func (s *Store) Init() error {
	_, err := s.DB.Exec(Schema)
	return err
}

// ContentHash identifies a review across runs.
func ContentHash(business, reviewer, text string) string {
	h := sha256.New()
	h.Write([]byte(business))
	h.Write([]byte{0})
	h.Write([]byte(reviewer))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
