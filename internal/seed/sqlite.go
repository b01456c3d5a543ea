package seed

import (
	"context"

	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

// SQLiteWriter seeds the local store through its repositories.
type SQLiteWriter struct {
	Cars    *listing.Repository
	Reviews *review.Repository
}

// InsertCar implements Writer.
func (w SQLiteWriter) InsertCar(ctx context.Context, row listing.Row) (string, error) {
	return w.Cars.Insert(ctx, row)
}

// UpsertUser implements Writer.
func (w SQLiteWriter) UpsertUser(ctx context.Context, u review.Reviewer) error {
	return w.Reviews.UpsertUser(ctx, u)
}

// AddReview implements Writer.
func (w SQLiteWriter) AddReview(ctx context.Context, n review.NewReview) (string, error) {
	return w.Reviews.Add(ctx, n)
}

// DeleteCar implements Writer.
func (w SQLiteWriter) DeleteCar(ctx context.Context, id string) error {
	return w.Cars.Delete(ctx, id)
}

// DeleteReview implements Writer.
func (w SQLiteWriter) DeleteReview(ctx context.Context, id string) error {
	return w.Reviews.Delete(ctx, id)
}
