package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

func TestEncodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		want      string
		wantValid bool
	}{
		{"nil", nil, "", false},
		{"list", []string{"GPS", "A/C"}, `["GPS","A/C"]`, true},
		{"json string kept", `["4x4"]`, `["4x4"]`, true},
		{"plain string quoted", "not json", `"not json"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeJSON(tt.in)
			if err != nil {
				t.Fatalf("encodeJSON() error = %v", err)
			}
			if got.Valid != tt.wantValid || got.String != tt.want {
				t.Errorf("encodeJSON() = %+v, want %q (valid=%v)", got, tt.want, tt.wantValid)
			}
		})
	}
}

func TestSchemaErr(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMissing bool
	}{
		{"undefined function", &pq.Error{Code: "42883"}, true},
		{"undefined table wrapped", fmt.Errorf("query: %w", &pq.Error{Code: "42P01"}), true},
		{"other pq error", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(schemaErr(tt.err), ErrSchemaMissing)
			if got != tt.wantMissing {
				t.Errorf("errors.Is(ErrSchemaMissing) = %v, want %v", got, tt.wantMissing)
			}
		})
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("CF_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("CF_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := s.DB().ExecContext(ctx, "TRUNCATE reviews, cars, users CASCADE"); err != nil {
		t.Fatalf("truncating: %v", err)
	}
	return s
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestStoreCars(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	cars := []listing.Row{
		{ID: "corolla", Title: strPtr("Toyota Corolla"), PricePerDay: floatPtr(40), Tags: []string{"Sedan"}, CreatedAt: base},
		{ID: "jeep", Title: strPtr("Jeep Wrangler"), PricePerDay: floatPtr(90), Tags: `["4x4"]`, CreatedAt: base.Add(time.Hour)},
	}
	for _, c := range cars {
		if _, err := s.InsertCar(ctx, c); err != nil {
			t.Fatalf("InsertCar() error = %v", err)
		}
	}

	recent, err := s.Recent(ctx, listing.RecentLimit)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "jeep" {
		t.Fatalf("Recent() = %+v", recent)
	}
	if tags := listing.NormalizeTags(recent[0].Tags); len(tags) != 1 || tags[0] != "4x4" {
		t.Errorf("tags = %v", tags)
	}

	found, err := s.SearchFuzzy(ctx, "corola", listing.SimilarityThreshold)
	if err != nil {
		t.Fatalf("SearchFuzzy() error = %v", err)
	}
	if len(found) == 0 || found[0].ID != "corolla" {
		t.Errorf("SearchFuzzy() = %+v", found)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
}

func TestStoreReviews(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, u := range []review.Reviewer{{ID: "host", Name: "Host"}, {ID: "guest", Name: "Guest"}} {
		if err := s.UpsertUser(ctx, u); err != nil {
			t.Fatalf("UpsertUser() error = %v", err)
		}
	}
	if _, err := s.InsertCar(ctx, listing.Row{ID: "car-1", HostID: strPtr("host")}); err != nil {
		t.Fatalf("InsertCar() error = %v", err)
	}

	for _, n := range []review.NewReview{
		{CarID: "car-1", ReviewerID: "guest", Rating: 4},
		{CarID: "car-1", ReviewerID: "host", Rating: 5},
		{CarID: "car-1", Rating: 2},
	} {
		if _, err := s.AddReview(ctx, n); err != nil {
			t.Fatalf("AddReview() error = %v", err)
		}
	}

	if _, err := s.AddReview(ctx, review.NewReview{CarID: "car-1", Rating: 9}); !errors.Is(err, review.ErrInvalidRating) {
		t.Errorf("AddReview(9) error = %v, want ErrInvalidRating", err)
	}

	rows, err := s.ListForCar(ctx, "car-1", "host", review.Limit)
	if err != nil {
		t.Fatalf("ListForCar() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d reviews, want 2", len(rows))
	}

	car, err := s.Get(ctx, "car-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if car.Rating == nil || *car.Rating != 3 {
		t.Errorf("rating = %v, want 3", car.Rating)
	}
}

func TestStoreHostlessRating(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertCar(ctx, listing.Row{ID: "hostless"}); err != nil {
		t.Fatalf("InsertCar() error = %v", err)
	}
	if _, err := s.AddReview(ctx, review.NewReview{CarID: "hostless", Rating: 5}); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	car, err := s.Get(ctx, "hostless")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if car.Rating == nil || *car.Rating != 5 {
		t.Errorf("rating = %v, want 5 from the anonymous review", car.Rating)
	}
}

func TestStoreDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertCar(ctx, listing.Row{ID: "car-del"}); err != nil {
		t.Fatalf("InsertCar() error = %v", err)
	}
	revID, err := s.AddReview(ctx, review.NewReview{CarID: "car-del", Rating: 3})
	if err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	if err := s.DeleteReview(ctx, revID); err != nil {
		t.Fatalf("DeleteReview() error = %v", err)
	}
	if err := s.DeleteReview(ctx, revID); !errors.Is(err, review.ErrNotFound) {
		t.Errorf("second DeleteReview() error = %v, want review.ErrNotFound", err)
	}
	if err := s.DeleteCar(ctx, "car-del"); err != nil {
		t.Fatalf("DeleteCar() error = %v", err)
	}
	if err := s.DeleteCar(ctx, "car-del"); !errors.Is(err, listing.ErrNotFound) {
		t.Errorf("second DeleteCar() error = %v, want listing.ErrNotFound", err)
	}
}
