package listing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Repository is the SQLite listing store. It implements Source.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a listing repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// The rating is the average of reviews not written by the car's host. A car
// without a host counts every review, anonymous ones included.
const selectSQL = `SELECT c.id, c.title, c.description, c.price_per_day, c.location,
	c.photos, c.tags, c.type, c.host_id,
	(SELECT AVG(r.rating) FROM reviews r WHERE r.car_id = c.id
		AND (c.host_id IS NULL OR r.reviewer_id IS NOT c.host_id)),
	c.created_at
	FROM cars c`

const insertSQL = `INSERT INTO cars
	(id, title, description, price_per_day, location, photos, tags, type, host_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))`

// Insert stores a row and returns its ID, generating a UUID when r.ID is empty.
// Tags and Photos are stored as given when they are strings and JSON-encoded
// otherwise, so malformed values survive for the normalizer to deal with.
func (r *Repository) Insert(ctx context.Context, row Row) (string, error) {
	id := row.ID
	if id == "" {
		id = uuid.NewString()
	}

	photos, err := encodeList(row.Photos)
	if err != nil {
		return "", fmt.Errorf("encoding photos: %w", err)
	}
	tags, err := encodeList(row.Tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}

	var createdAt interface{}
	if !row.CreatedAt.IsZero() {
		createdAt = row.CreatedAt.UTC()
	}

	_, err = r.db.ExecContext(ctx, insertSQL,
		id, row.Title, row.Description, row.PricePerDay, row.Location,
		photos, tags, row.Type, row.HostID, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting car: %w", err)
	}

	return id, nil
}

// Recent returns up to limit cars, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Row, error) {
	rows, err := r.query(ctx, selectSQL+" ORDER BY c.created_at DESC, c.rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent cars: %w", err)
	}
	return rows, nil
}

// SearchFuzzy scores every title against query with trigram similarity and
// returns those above threshold, best first, capped at RecentLimit.
func (r *Repository) SearchFuzzy(ctx context.Context, query string, threshold float64) ([]Row, error) {
	all, err := r.query(ctx, selectSQL+" ORDER BY c.created_at DESC, c.rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("searching cars: %w", err)
	}

	type scored struct {
		row   Row
		score float64
	}
	var matches []scored
	for _, row := range all {
		title := ""
		if row.Title != nil {
			title = *row.Title
		}
		if s := Similarity(title, query); s > threshold {
			matches = append(matches, scored{row: row, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > RecentLimit {
		matches = matches[:RecentLimit]
	}
	result := make([]Row, len(matches))
	for i, m := range matches {
		result[i] = m.row
	}
	return result, nil
}

// Get returns one car by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Row, error) {
	row, err := scanRow(r.db.QueryRowContext(ctx, selectSQL+" WHERE c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("car %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying car %s: %w", id, err)
	}
	return row, nil
}

// Delete removes a car by ID. Reviews cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM cars WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting car: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("car %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) (result []Row, err error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning car: %w", err)
		}
		result = append(result, *row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cars: %w", err)
	}

	return result, nil
}

// scanRow scans a car from a database row. Tags and photos are handed on as
// raw strings.
func scanRow(row interface{ Scan(...interface{}) error }) (*Row, error) {
	var r Row
	var title, description, location, photos, tags, carType, hostID sql.NullString
	var price, rating sql.NullFloat64
	var createdAt sql.NullTime

	err := row.Scan(
		&r.ID, &title, &description, &price, &location,
		&photos, &tags, &carType, &hostID, &rating, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.Title = nullString(title)
	r.Description = nullString(description)
	r.Location = nullString(location)
	r.Type = nullString(carType)
	r.HostID = nullString(hostID)
	if price.Valid {
		r.PricePerDay = &price.Float64
	}
	if rating.Valid {
		r.Rating = &rating.Float64
	}
	if photos.Valid {
		r.Photos = photos.String
	}
	if tags.Valid {
		r.Tags = tags.String
	}
	if createdAt.Valid {
		r.CreatedAt = createdAt.Time
	}

	return &r, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// encodeList prepares a list value for a TEXT column.
func encodeList(v any) (sql.NullString, error) {
	switch x := v.(type) {
	case nil:
		return sql.NullString{}, nil
	case string:
		return sql.NullString{String: x, Valid: true}, nil
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return sql.NullString{}, err
		}
		return sql.NullString{String: string(data), Valid: true}, nil
	}
}
