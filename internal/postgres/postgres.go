// Package postgres is the Postgres backend for listings and reviews. Fuzzy
// title search runs server-side through pg_trgm.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Store is a Postgres-backed listing.Source and review.Source.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and checks the connection.
func Open(ctx context.Context, url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Postgres error codes the store maps to friendlier errors.
const (
	codeUndefinedFunction = "42883"
	codeUndefinedTable    = "42P01"
	codeCheckViolation    = "23514"
)

// ErrSchemaMissing is returned when the tables or the search function have
// not been created. Run Migrate.
var ErrSchemaMissing = errors.New("postgres schema missing, run migrate")

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func schemaErr(err error) error {
	switch pqCode(err) {
	case codeUndefinedFunction, codeUndefinedTable:
		return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	return err
}
