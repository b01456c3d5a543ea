package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// schema holds one entry per schema version. Entry i takes the database from
// user_version i to i+1 and runs in its own transaction.
var schema = []func(tx *sql.Tx) error{
	execAll(
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT     PRIMARY KEY,
			name       TEXT,
			avatar_url TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cars (
			id            TEXT     PRIMARY KEY,
			title         TEXT,
			description   TEXT,
			price_per_day REAL,
			location      TEXT,
			photos        TEXT,
			tags          TEXT,
			type          TEXT,
			host_id       TEXT     REFERENCES users(id) ON DELETE SET NULL,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id          TEXT     PRIMARY KEY,
			car_id      TEXT     NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
			reviewer_id TEXT     REFERENCES users(id) ON DELETE SET NULL,
			rating      INTEGER  NOT NULL CHECK (rating >= 1 AND rating <= 5),
			comment     TEXT     NOT NULL DEFAULT '',
			likes       INTEGER  NOT NULL DEFAULT 0,
			dislikes    INTEGER  NOT NULL DEFAULT 0,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cars_created_at ON cars (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_car_id ON reviews (car_id)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT     PRIMARY KEY,
			value      TEXT     NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	),
	addColumn("reviews", "booking_id", "TEXT"),
}

// migrate applies every schema version newer than the database's
// user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for v := version; v < len(schema); v++ {
		if err := step(db, v); err != nil {
			return fmt.Errorf("schema version %d: %w", v+1, err)
		}
		slog.Debug("migrated local database", "version", v+1)
	}
	return nil
}

func step(db *sql.DB, v int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := schema[v](tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("rolling back migration", "error", rbErr)
		}
		return err
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func execAll(stmts ...string) func(*sql.Tx) error {
	return func(tx *sql.Tx) error {
		for i, s := range stmts {
			if _, err := tx.Exec(s); err != nil {
				return fmt.Errorf("statement %d: %w", i, err)
			}
		}
		return nil
	}
}

// addColumn adds a column unless a database created before versioning
// already has it.
func addColumn(table, column, definition string) func(*sql.Tx) error {
	return func(tx *sql.Tx) error {
		var n int
		err := tx.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
		if err != nil {
			return fmt.Errorf("checking %s.%s: %w", table, column, err)
		}
		if n > 0 {
			return nil
		}
		_, err = tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
		return err
	}
}
