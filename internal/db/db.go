// Package db opens the local SQLite store that holds cars, reviews, users
// and settings.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath returns the default database path: ~/.config/cf/cars.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cf", "cars.db"), nil
}

// Resolve returns path, or DefaultPath when path is empty.
func Resolve(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

// dsn builds the go-sqlite3 connection string. Pragmas given here apply to
// every pooled connection, not just the first.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", "5000")
	return path + "?" + q.Encode()
}

// Open opens (or creates) the SQLite database at path and brings its schema
// up to date.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	d, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := d.Ping(); err != nil {
		return nil, closeWith(d, fmt.Errorf("connecting to %s: %w", path, err))
	}

	if err := migrate(d); err != nil {
		return nil, closeWith(d, fmt.Errorf("running migrations: %w", err))
	}

	return d, nil
}

func closeWith(d *sql.DB, err error) error {
	if closeErr := d.Close(); closeErr != nil {
		return fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
	}
	return err
}
