// Package backend opens the stores selected by configuration.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/evcraddock/car-finder/internal/config"
	"github.com/evcraddock/car-finder/internal/db"
	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/postgres"
	"github.com/evcraddock/car-finder/internal/review"
	"github.com/evcraddock/car-finder/internal/seed"
	"github.com/evcraddock/car-finder/internal/settings"
	"github.com/evcraddock/car-finder/internal/supabase"
)

// ErrReadOnly is returned by Writer for backends that cannot be seeded.
var ErrReadOnly = errors.New("backend is read-only")

// Backend bundles the listing, review and settings stores.
type Backend struct {
	Name     string
	Listings listing.Source
	Reviews  review.Source
	Settings settings.Store

	writer  seed.Writer
	closers []func() error
}

// Open connects the configured listing backend. Settings live in Redis when
// CF_REDIS_URL is set and in the local SQLite database otherwise.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{Name: cfg.Backend}
	var local *sql.DB

	openLocal := func() (*sql.DB, error) {
		if local != nil {
			return local, nil
		}
		path, err := db.Resolve(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		d, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, d.Close)
		slog.Debug("opened local database", "path", path)
		local = d
		return d, nil
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		d, err := openLocal()
		if err != nil {
			return nil, b.fail(err)
		}
		cars := listing.NewRepository(d)
		reviews := review.NewRepository(d)
		b.Listings, b.Reviews = cars, reviews
		b.writer = seed.SQLiteWriter{Cars: cars, Reviews: reviews}

	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, b.fail(err)
		}
		b.closers = append(b.closers, store.Close)
		if err := store.Migrate(ctx); err != nil {
			return nil, b.fail(err)
		}
		b.Listings, b.Reviews, b.writer = store, store, store

	case config.BackendSupabase:
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, b.fail(err)
		}
		b.Listings, b.Reviews = client, client
	}

	if cfg.RedisURL != "" {
		rdb, err := settings.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, b.fail(err)
		}
		b.closers = append(b.closers, rdb.Close)
		b.Settings = settings.NewRedisStore(rdb, "")
	} else {
		d, err := openLocal()
		if err != nil {
			return nil, b.fail(err)
		}
		b.Settings = settings.NewSQLiteStore(d)
	}

	slog.Info("backend ready", "backend", cfg.Backend, "redis_settings", cfg.RedisURL != "")
	return b, nil
}

// Writer returns the store seed data goes into.
func (b *Backend) Writer() (seed.Writer, error) {
	if b.writer == nil {
		return nil, fmt.Errorf("%s: %w", b.Name, ErrReadOnly)
	}
	return b.writer, nil
}

// Close releases every connection, newest first.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

func (b *Backend) fail(err error) error {
	if closeErr := b.Close(); closeErr != nil {
		return fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
	}
	return err
}
