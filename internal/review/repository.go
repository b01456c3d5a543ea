package review

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the SQLite review store. It implements Source.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a review repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// NewReview holds the fields for Add. A zero CreatedAt means now.
type NewReview struct {
	ID         string
	CarID      string
	ReviewerID string
	Rating     int
	Comment    string
	Likes      int
	Dislikes   int
	CreatedAt  time.Time
}

// UpsertUser creates or updates a reviewer profile.
func (r *Repository) UpsertUser(ctx context.Context, u Reviewer) error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, avatar_url) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, avatar_url = excluded.avatar_url`,
		u.ID, nullIfEmpty(u.Name), nullIfEmpty(u.AvatarURL),
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

// Add stores a review and returns its ID.
func (r *Repository) Add(ctx context.Context, n NewReview) (string, error) {
	if n.Rating < 1 || n.Rating > 5 {
		return "", fmt.Errorf("rating %d: %w", n.Rating, ErrInvalidRating)
	}
	if n.CarID == "" {
		return "", fmt.Errorf("car id is required")
	}

	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}

	var createdAt interface{}
	if !n.CreatedAt.IsZero() {
		createdAt = n.CreatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (id, car_id, reviewer_id, rating, comment, likes, dislikes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))`,
		id, n.CarID, nullIfEmpty(n.ReviewerID), n.Rating, n.Comment, n.Likes, n.Dislikes, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting review: %w", err)
	}

	return id, nil
}

const listSQL = `SELECT r.id, r.rating, r.comment, r.created_at, r.reviewer_id, r.likes, r.dislikes,
	u.id, u.name, u.avatar_url
	FROM reviews r
	LEFT JOIN users u ON u.id = r.reviewer_id
	WHERE r.car_id = ?`

// ListForCar returns up to limit reviews of a car, newest first. Anonymous
// reviews are kept when excludeReviewerID is set.
func (r *Repository) ListForCar(ctx context.Context, carID, excludeReviewerID string, limit int) (result []Row, err error) {
	query := listSQL
	args := []interface{}{carID}
	if excludeReviewerID != "" {
		query += " AND r.reviewer_id IS NOT ?"
		args = append(args, excludeReviewerID)
	}
	query += " ORDER BY r.created_at DESC, r.rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	result = []Row{}
	for rows.Next() {
		var row Row
		var comment, reviewerID, userID, name, avatar sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(
			&row.ID, &row.Rating, &comment, &createdAt, &reviewerID, &row.Likes, &row.Dislikes,
			&userID, &name, &avatar,
		); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}

		row.Comment = nullString(comment)
		row.ReviewerID = nullString(reviewerID)
		if createdAt.Valid {
			row.CreatedAt = createdAt.Time
		}
		if userID.Valid {
			row.Reviewer = &ReviewerRow{
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

// Delete removes a review by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("review %s: %w", id, ErrNotFound)
	}

	return nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
