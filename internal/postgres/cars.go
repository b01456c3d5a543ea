package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/evcraddock/car-finder/internal/listing"
)

const carColumns = `c.id, c.title, c.description, c.price_per_day, c.location,
	c.photos::text, c.tags::text, c.type, c.host_id,
	(SELECT AVG(r.rating) FROM reviews r WHERE r.car_id = c.id
		AND (c.host_id IS NULL OR r.reviewer_id IS DISTINCT FROM c.host_id)),
	c.created_at`

// Recent returns up to limit cars, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]listing.Row, error) {
	rows, err := s.queryCars(ctx,
		"SELECT "+carColumns+" FROM cars c ORDER BY c.created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent cars: %w", err)
	}
	return rows, nil
}

// SearchFuzzy calls search_cars_fuzzy, keeping its ranking.
func (s *Store) SearchFuzzy(ctx context.Context, query string, threshold float64) ([]listing.Row, error) {
	rows, err := s.queryCars(ctx,
		"SELECT "+carColumns+" FROM search_cars_fuzzy($1, $2) WITH ORDINALITY AS c ORDER BY c.ordinality",
		query, threshold)
	if err != nil {
		return nil, fmt.Errorf("searching cars: %w", err)
	}
	return rows, nil
}

// Get returns one car by ID.
func (s *Store) Get(ctx context.Context, id string) (*listing.Row, error) {
	row, err := scanCar(s.db.QueryRowContext(ctx,
		"SELECT "+carColumns+" FROM cars c WHERE c.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("car %s: %w", id, listing.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying car %s: %w", id, schemaErr(err))
	}
	return row, nil
}

// InsertCar stores a car and returns its ID, generating a UUID when the row
// has none.
func (s *Store) InsertCar(ctx context.Context, row listing.Row) (string, error) {
	id := row.ID
	if id == "" {
		id = uuid.NewString()
	}

	photos, err := encodeJSON(row.Photos)
	if err != nil {
		return "", fmt.Errorf("encoding photos: %w", err)
	}
	tags, err := encodeJSON(row.Tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}

	var createdAt interface{}
	if !row.CreatedAt.IsZero() {
		createdAt = row.CreatedAt
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cars (id, title, description, price_per_day, location, photos, tags, type, host_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9, COALESCE($10, now()))`,
		id, row.Title, row.Description, row.PricePerDay, row.Location,
		photos, tags, row.Type, row.HostID, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting car: %w", schemaErr(err))
	}
	return id, nil
}

func (s *Store) queryCars(ctx context.Context, query string, args ...interface{}) (result []listing.Row, err error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, schemaErr(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	result = []listing.Row{}
	for rows.Next() {
		row, err := scanCar(rows)
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

// scanCar reads one car. JSONB columns arrive as raw JSON for the listing
// normalizer.
func scanCar(row interface{ Scan(...interface{}) error }) (*listing.Row, error) {
	var r listing.Row
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
		r.Photos = json.RawMessage(photos.String)
	}
	if tags.Valid {
		r.Tags = json.RawMessage(tags.String)
	}
	if createdAt.Valid {
		r.CreatedAt = createdAt.Time
	}
	return &r, nil
}

// encodeJSON prepares a list value for a JSONB column. A string that is
// already JSON goes in as-is; any other string is stored as a JSON string.
func encodeJSON(v any) (sql.NullString, error) {
	switch x := v.(type) {
	case nil:
		return sql.NullString{}, nil
	case string:
		if json.Valid([]byte(x)) {
			return sql.NullString{String: x, Valid: true}, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// DeleteCar removes a car. Its reviews cascade.
func (s *Store) DeleteCar(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cars WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting car: %w", schemaErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("car %s: %w", id, listing.ErrNotFound)
	}
	return nil
}
