package review

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/evcraddock/car-finder/internal/db"
)

func setupTestRepo(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.Exec("INSERT INTO cars (id, title, host_id) VALUES ('car-1', 'Jeep', NULL)"); err != nil {
		t.Fatalf("inserting car: %v", err)
	}
	return NewRepository(d), d
}

func TestAddValidatesRating(t *testing.T) {
	repo, _ := setupTestRepo(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := repo.Add(context.Background(), NewReview{CarID: "car-1", Rating: rating})
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: error = %v, want ErrInvalidRating", rating, err)
		}
	}
}

func TestListForCar(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, u := range []Reviewer{
		{ID: "host", Name: "Host"},
		{ID: "guest", Name: "Guest", AvatarURL: "https://img.example/g.png"},
	} {
		if err := repo.UpsertUser(ctx, u); err != nil {
			t.Fatalf("UpsertUser() error = %v", err)
		}
	}

	reviews := []NewReview{
		{ID: "r1", CarID: "car-1", ReviewerID: "guest", Rating: 5, Comment: "Great", CreatedAt: base},
		{ID: "r2", CarID: "car-1", ReviewerID: "host", Rating: 5, Comment: "My own car", CreatedAt: base.Add(time.Hour)},
		{ID: "r3", CarID: "car-1", Rating: 3, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, n := range reviews {
		if _, err := repo.Add(ctx, n); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		exclude string
		want    []string
	}{
		{"host excluded, anonymous kept", "host", []string{"r3", "r1"}},
		{"nobody excluded", "", []string{"r3", "r2", "r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.ListForCar(ctx, "car-1", tt.exclude, Limit)
			if err != nil {
				t.Fatalf("ListForCar() error = %v", err)
			}
			var got []string
			for _, r := range rows {
				got = append(got, r.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}

	rows, err := repo.ListForCar(ctx, "car-1", "host", Limit)
	if err != nil {
		t.Fatalf("ListForCar() error = %v", err)
	}
	guest := FromRow(rows[1], "Anonymous User")
	if guest.Reviewer.Name != "Guest" || guest.Reviewer.AvatarURL != "https://img.example/g.png" {
		t.Errorf("guest reviewer = %+v", guest.Reviewer)
	}
	anon := FromRow(rows[0], "Anonymous User")
	if anon.Reviewer.Name != "Anonymous User" || anon.Reviewer.AvatarURL != AvatarPlaceholder {
		t.Errorf("anonymous reviewer = %+v", anon.Reviewer)
	}
}

func TestListForCarLimit(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := repo.Add(ctx, NewReview{CarID: "car-1", Rating: 4}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	rows, err := repo.ListForCar(ctx, "car-1", "", 3)
	if err != nil {
		t.Fatalf("ListForCar() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d rows, want 3", len(rows))
	}
}

func TestListForCarEmpty(t *testing.T) {
	repo, _ := setupTestRepo(t)

	rows, err := repo.ListForCar(context.Background(), "nope", "", Limit)
	if err != nil {
		t.Fatalf("ListForCar() error = %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %#v, want empty non-nil", rows)
	}
}

func TestDelete(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	id, err := repo.Add(ctx, NewReview{CarID: "car-1", Rating: 2})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
