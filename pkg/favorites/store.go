// Package favorites persists the user's favorite books in a local
// SQLite database. The store is a simple keyed set with an independent
// lifecycle from search results: records are added and removed only by
// explicit user toggles and survive across sessions.
//
// Persistence failures never reach the user. A corrupt or unreadable
// database is recreated empty on open, and rows that fail to decode are
// skipped with a warning.
package favorites

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/openshelf/openshelf/pkg/book"
	"github.com/openshelf/openshelf/pkg/log"
)

var logger = log.For("favorites")

const schema = `
CREATE TABLE IF NOT EXISTS favorites (
	key TEXT PRIMARY KEY,
	record TEXT NOT NULL,
	added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Store is a favorites set backed by one SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the favorites database at path. A database
// that cannot be initialized, typically a corrupt file, is replaced
// with a fresh empty one rather than failing the caller.
func Open(path string) (*Store, error) {
	db, err := openDatabase(path)
	if err != nil {
		logger.Warnf("favorites database unusable, starting empty: %v", err)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("removing corrupt database: %w", rmErr)
		}
		db, err = openDatabase(path)
		if err != nil {
			return nil, fmt.Errorf("recreating database: %w", err)
		}
	}

	return &Store{db: db, path: path}, nil
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores the record under its key, replacing any previous copy.
func (s *Store) Add(b book.Book) error {
	record, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling record %s: %w", b.Key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO favorites (key, record) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET record = excluded.record`,
		b.Key, string(record),
	)
	if err != nil {
		return fmt.Errorf("inserting favorite %s: %w", b.Key, err)
	}
	return nil
}

// Remove deletes the record with the given key. Removing an absent key
// is not an error.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM favorites WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing favorite %s: %w", key, err)
	}
	return nil
}

// Toggle adds the record if absent and removes it if present,
// returning whether the record is a favorite afterwards.
func (s *Store) Toggle(b book.Book) (bool, error) {
	if s.Contains(b.Key) {
		return false, s.Remove(b.Key)
	}
	return true, s.Add(b)
}

// Contains reports whether a record with the given key is stored.
// Query failures degrade to false.
func (s *Store) Contains(key string) bool {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM favorites WHERE key = ?`, key).Scan(&one)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Warnf("checking favorite %s: %v", key, err)
		}
		return false
	}
	return true
}

// List returns all stored records in insertion order. The rowid trails
// insertion even when timestamps collide within one second; replacing a
// record keeps its position. Rows that fail to decode are skipped.
func (s *Store) List() []book.Book {
	rows, err := s.db.Query(`SELECT key, record FROM favorites ORDER BY rowid`)
	if err != nil {
		logger.Warnf("listing favorites: %v", err)
		return nil
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("closing rows: %v", err)
		}
	}()

	var books []book.Book
	for rows.Next() {
		var key, record string
		if err := rows.Scan(&key, &record); err != nil {
			logger.Warnf("scanning favorite row: %v", err)
			continue
		}
		var b book.Book
		if err := json.Unmarshal([]byte(record), &b); err != nil {
			logger.Warnf("skipping undecodable favorite %s: %v", key, err)
			continue
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		logger.Warnf("iterating favorites: %v", err)
	}
	return books
}

// Get returns the stored record for key, if present.
func (s *Store) Get(key string) (book.Book, bool) {
	var record string
	err := s.db.QueryRow(`SELECT record FROM favorites WHERE key = ?`, key).Scan(&record)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Warnf("reading favorite %s: %v", key, err)
		}
		return book.Book{}, false
	}
	var b book.Book
	if err := json.Unmarshal([]byte(record), &b); err != nil {
		logger.Warnf("decoding favorite %s: %v", key, err)
		return book.Book{}, false
	}
	return b, true
}

// Count returns the number of stored favorites.
func (s *Store) Count() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM favorites`).Scan(&n); err != nil {
		logger.Warnf("counting favorites: %v", err)
		return 0
	}
	return n
}

// Clear removes every stored favorite.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM favorites`); err != nil {
		return fmt.Errorf("clearing favorites: %w", err)
	}
	return nil
}
