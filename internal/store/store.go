// Package store persists presentation records in SQLite: the shared
// navigation state, ownership fields and the deck document blob consumed by
// the sync server. The engine itself treats this as an external record; the
// schema here is the server's own.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a presentation id does not resolve.
var ErrNotFound = errors.New("presentation not found")

// Record is one persisted presentation.
type Record struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	OwnerID        string    `json:"ownerId"`
	PresenterID    string    `json:"presenterUserId,omitempty"`
	CurrentSlideID string    `json:"currentSlideId,omitempty"`
	IsPresenting   bool      `json:"isPresenting"`
	Public         bool      `json:"public"`
	Path           []string  `json:"path,omitempty"`
	Deck           []byte    `json:"-"` // YAML deck blob
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Store wraps the SQLite database holding presentation records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS presentations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL DEFAULT '',
		presenter_id TEXT NOT NULL DEFAULT '',
		current_slide_id TEXT NOT NULL DEFAULT '',
		is_presenting INTEGER NOT NULL DEFAULT 0,
		public INTEGER NOT NULL DEFAULT 0,
		path TEXT NOT NULL DEFAULT '[]',
		deck BLOB,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create presentations table: %w", err)
	}

	index := `CREATE INDEX IF NOT EXISTS idx_owner_id ON presentations(owner_id);`
	if _, err := s.db.Exec(index); err != nil {
		return fmt.Errorf("create owner index: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new record. The caller supplies the id.
func (s *Store) Create(rec *Record) error {
	pathJSON, err := json.Marshal(rec.Path)
	if err != nil {
		return fmt.Errorf("marshal path: %w", err)
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO presentations
		(id, title, owner_id, presenter_id, current_slide_id, is_presenting, public, path, deck, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query, rec.ID, rec.Title, rec.OwnerID, rec.PresenterID,
		rec.CurrentSlideID, rec.IsPresenting, rec.Public, string(pathJSON), rec.Deck,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert presentation: %w", err)
	}
	return nil
}

// Get returns a presentation record by id.
func (s *Store) Get(id string) (*Record, error) {
	query := `SELECT id, title, owner_id, presenter_id, current_slide_id,
		is_presenting, public, path, deck, created_at, updated_at
		FROM presentations WHERE id = ?`

	var rec Record
	var pathJSON string
	var deck []byte

	err := s.db.QueryRow(query, id).Scan(
		&rec.ID,
		&rec.Title,
		&rec.OwnerID,
		&rec.PresenterID,
		&rec.CurrentSlideID,
		&rec.IsPresenting,
		&rec.Public,
		&pathJSON,
		&deck,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query presentation: %w", err)
	}

	if err := json.Unmarshal([]byte(pathJSON), &rec.Path); err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	rec.Deck = deck
	return &rec, nil
}

// List returns all presentations owned by ownerID, newest first.
func (s *Store) List(ownerID string) ([]*Record, error) {
	query := `SELECT id, title, owner_id, presenter_id, current_slide_id,
		is_presenting, public, path, deck, created_at, updated_at
		FROM presentations WHERE owner_id = ? ORDER BY created_at DESC`

	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query presentations: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var pathJSON string
		var deck []byte

		err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&rec.OwnerID,
			&rec.PresenterID,
			&rec.CurrentSlideID,
			&rec.IsPresenting,
			&rec.Public,
			&pathJSON,
			&deck,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &rec.Path); err != nil {
			return nil, fmt.Errorf("parse path: %w", err)
		}
		rec.Deck = deck
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// UpdateState writes back the shared navigation fields: current slide,
// presenter identity, presenting flag and path.
func (s *Store) UpdateState(id, currentSlideID, presenterID string, isPresenting bool, path []string) error {
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("marshal path: %w", err)
	}

	query := `UPDATE presentations
		SET current_slide_id = ?, presenter_id = ?, is_presenting = ?, path = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.Exec(query, currentSlideID, presenterID, isPresenting,
		string(pathJSON), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update presentation state: %w", err)
	}
	return checkAffected(result, id)
}

// UpdateDeck replaces the stored deck blob.
func (s *Store) UpdateDeck(id string, deck []byte) error {
	query := `UPDATE presentations SET deck = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.Exec(query, deck, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}
	return checkAffected(result, id)
}

// Delete removes a presentation record.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM presentations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete presentation: %w", err)
	}
	return checkAffected(result, id)
}

func checkAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
