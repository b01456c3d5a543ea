package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/evcraddock/car-finder/internal/review"
)

// ListForCar returns up to limit reviews of a car, newest first, joined with
// their reviewer.
func (s *Store) ListForCar(ctx context.Context, carID, excludeReviewerID string, limit int) (result []review.Row, err error) {
	query := `SELECT r.id, r.rating, r.comment, r.created_at, r.reviewer_id, r.likes, r.dislikes,
		u.id, u.name, u.avatar_url
		FROM reviews r
		LEFT JOIN users u ON u.id = r.reviewer_id
		WHERE r.car_id = $1`
	args := []interface{}{carID}
	if excludeReviewerID != "" {
		query += " AND r.reviewer_id IS DISTINCT FROM $2"
		args = append(args, excludeReviewerID)
	}
	query += fmt.Sprintf(" ORDER BY r.created_at DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", schemaErr(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	result = []review.Row{}
	for rows.Next() {
		var row review.Row
		var comment, reviewerID, userID, name, avatar sql.NullString
		if err := rows.Scan(
			&row.ID, &row.Rating, &comment, &row.CreatedAt, &reviewerID, &row.Likes, &row.Dislikes,
			&userID, &name, &avatar,
		); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}

		row.Comment = nullString(comment)
		row.ReviewerID = nullString(reviewerID)
		if userID.Valid {
			row.Reviewer = &review.ReviewerRow{
				ID:        userID.String,
				Name:      nullString(name),
				AvatarURL: nullString(avatar),
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}
	return result, nil
}

// UpsertUser creates or updates a reviewer profile.
func (s *Store) UpsertUser(ctx context.Context, u review.Reviewer) error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, avatar_url) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, avatar_url = excluded.avatar_url`,
		u.ID, u.Name, u.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", schemaErr(err))
	}
	return nil
}

// AddReview stores a review and returns its ID.
func (s *Store) AddReview(ctx context.Context, n review.NewReview) (string, error) {
	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}

	var createdAt interface{}
	if !n.CreatedAt.IsZero() {
		createdAt = n.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, car_id, reviewer_id, rating, comment, likes, dislikes, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, COALESCE($8, now()))`,
		id, n.CarID, n.ReviewerID, n.Rating, n.Comment, n.Likes, n.Dislikes, createdAt,
	)
	if pqCode(err) == codeCheckViolation {
		return "", fmt.Errorf("rating %d: %w", n.Rating, review.ErrInvalidRating)
	}
	if err != nil {
		return "", fmt.Errorf("inserting review: %w", schemaErr(err))
	}
	return id, nil
}

// DeleteReview removes a review.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting review: %w", schemaErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("review %s: %w", id, review.ErrNotFound)
	}
	return nil
}
