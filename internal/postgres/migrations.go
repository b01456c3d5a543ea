package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT        PRIMARY KEY,
		name       TEXT,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cars (
		id            TEXT        PRIMARY KEY,
		title         TEXT,
		description   TEXT,
		price_per_day NUMERIC(10,2),
		location      TEXT,
		photos        JSONB,
		tags          JSONB,
		type          TEXT,
		host_id       TEXT        REFERENCES users(id) ON DELETE SET NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          TEXT        PRIMARY KEY,
		car_id      TEXT        NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
		reviewer_id TEXT        REFERENCES users(id) ON DELETE SET NULL,
		booking_id  TEXT,
		rating      INTEGER     NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment     TEXT        NOT NULL DEFAULT '',
		likes       INTEGER     NOT NULL DEFAULT 0,
		dislikes    INTEGER     NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cars_created_at ON cars (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_cars_title_trgm ON cars USING gin (title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_car_id ON reviews (car_id)`,
	`CREATE OR REPLACE FUNCTION search_cars_fuzzy(search_query TEXT, threshold REAL DEFAULT 0.05)
	RETURNS SETOF cars
	LANGUAGE sql STABLE
	AS $$
		SELECT *
		FROM cars
		WHERE similarity(coalesce(title, ''), search_query) > threshold
		ORDER BY similarity(coalesce(title, ''), search_query) DESC, created_at DESC
		LIMIT 50
	$$`,
}

// Migrate creates the extension, tables, indexes and the search function.
// It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	for i, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("postgres migration %d: %w", i, err)
		}
	}
	return nil
}
