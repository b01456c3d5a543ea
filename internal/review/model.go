// Package review provides car reviews, their aggregation into a rating
// summary and the SQLite review store.
package review

import (
	"context"
	"errors"
	"time"
)

const (
	// AvatarPlaceholder is shown for reviewers without an avatar.
	AvatarPlaceholder = "https://placehold.co/50x50/10b981/ffffff?text=U"

	// Limit caps the reviews loaded for one car.
	Limit = 50
)

// ErrInvalidRating is returned for ratings outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ErrNotFound is returned when a review does not exist.
var ErrNotFound = errors.New("review not found")

// Reviewer is the author of a review.
type Reviewer struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Review is a rating and comment left on a car.
type Review struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Reviewer  Reviewer  `json:"reviewer"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
}

// ReviewerRow is the joined reviewer as a backend returns it.
type ReviewerRow struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// Row is a raw review row joined with its reviewer, if any.
type Row struct {
	ID         string       `json:"id"`
	Rating     int          `json:"rating"`
	Comment    *string      `json:"comment"`
	CreatedAt  time.Time    `json:"created_at"`
	ReviewerID *string      `json:"reviewer_id"`
	Likes      int          `json:"likes"`
	Dislikes   int          `json:"dislikes"`
	Reviewer   *ReviewerRow `json:"reviewer"`
}

// Source is a backend that can list the reviews of a car.
type Source interface {
	// ListForCar returns up to limit reviews of carID, newest first.
	// Reviews by excludeReviewerID are left out; an empty
	// excludeReviewerID excludes nobody.
	ListForCar(ctx context.Context, carID, excludeReviewerID string, limit int) ([]Row, error)
}

// FromRow maps a raw row into a Review. anonymous names a missing reviewer.
func FromRow(r Row, anonymous string) Review {
	rv := Review{
		ID:        r.ID,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		Likes:     r.Likes,
		Dislikes:  r.Dislikes,
		Reviewer: Reviewer{
			Name:      anonymous,
			AvatarURL: AvatarPlaceholder,
		},
	}
	if r.Comment != nil {
		rv.Comment = *r.Comment
	}

	if r.Reviewer != nil {
		rv.Reviewer.ID = r.Reviewer.ID
		if r.Reviewer.Name != nil && *r.Reviewer.Name != "" {
			rv.Reviewer.Name = *r.Reviewer.Name
		}
		if r.Reviewer.AvatarURL != nil && *r.Reviewer.AvatarURL != "" {
			rv.Reviewer.AvatarURL = *r.Reviewer.AvatarURL
		}
	} else if r.ReviewerID != nil {
		rv.Reviewer.ID = *r.ReviewerID
	}

	return rv
}
