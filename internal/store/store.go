// Package store persists cases, proceedings and schedules in an embedded
// SQLite database. It owns the denormalization logic that keeps schedules,
// proceedings and their participant join rows consistent.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ErrCaseNotFound indicates an operation referenced a case id that is not in
// the store. It is the validation failure a client can act on, as opposed to
// a store-level error.
var ErrCaseNotFound = errors.New("case not found")

// Store is the SQLite database handle shared by all handlers.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens or creates the database at path and bootstraps the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The handlers were written against one shared sequential connection,
	// and an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DB returns the underlying sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// nextID assigns the next integer identifier as current max + 1 over the
// whole table. Two concurrent creators can compute the same id; the second
// insert then fails on the primary key. That read-then-write contract is
// part of the observable behavior and is left as is.
func (s *Store) nextID(ctx context.Context, table, column string) (int64, error) {
	var id int64
	query := "SELECT COALESCE(MAX(" + column + "), 0) + 1 FROM " + table
	if err := s.db.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("next id for %s: %w", table, err)
	}
	return id, nil
}
