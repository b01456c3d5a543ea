// Package seed loads cars, users and reviews from a YAML file into a store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

// Writer is a store that can take seed data.
type Writer interface {
	InsertCar(ctx context.Context, row listing.Row) (string, error)
	UpsertUser(ctx context.Context, u review.Reviewer) error
	AddReview(ctx context.Context, n review.NewReview) (string, error)
	DeleteCar(ctx context.Context, id string) error
	DeleteReview(ctx context.Context, id string) error
}

// File is the layout of a seed file.
type File struct {
	Users []User `yaml:"users"`
	Cars  []Car  `yaml:"cars"`
}

// User is a host or reviewer.
type User struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	AvatarURL string `yaml:"avatar_url"`
}

// Car is a listing with its reviews. Tags may be a YAML list or a string
// holding JSON, the way some rows arrive from the hosted backend.
type Car struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	PricePerDay *float64  `yaml:"price_per_day"`
	Location    string    `yaml:"location"`
	Photos      []string  `yaml:"photos"`
	Tags        any       `yaml:"tags"`
	Type        string    `yaml:"type"`
	HostID      string    `yaml:"host_id"`
	CreatedAt   time.Time `yaml:"created_at"`
	Reviews     []Review  `yaml:"reviews"`
}

// Review is a review left on a seeded car.
type Review struct {
	ID         string    `yaml:"id"`
	ReviewerID string    `yaml:"reviewer_id"`
	Rating     int       `yaml:"rating"`
	Comment    string    `yaml:"comment"`
	Likes      int       `yaml:"likes"`
	Dislikes   int       `yaml:"dislikes"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// Result counts what was written, or removed by Reset.
type Result struct {
	Users   int `json:"users"`
	Cars    int `json:"cars"`
	Reviews int `json:"reviews"`
}

// Parse decodes a seed file.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses the seed file at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	return Parse(fh)
}

// Reset removes the cars and reviews of f that carry an explicit ID, so the
// file can be applied again. Entries already gone are skipped. Users stay:
// UpsertUser overwrites them.
func Reset(ctx context.Context, w Writer, f *File) (Result, error) {
	var res Result

	for _, c := range f.Cars {
		for _, r := range c.Reviews {
			if r.ID == "" {
				continue
			}
			err := w.DeleteReview(ctx, r.ID)
			switch {
			case errors.Is(err, review.ErrNotFound):
			case err != nil:
				return res, fmt.Errorf("removing review %s: %w", r.ID, err)
			default:
				res.Reviews++
			}
		}
	}

	for _, c := range f.Cars {
		if c.ID == "" {
			continue
		}
		err := w.DeleteCar(ctx, c.ID)
		switch {
		case errors.Is(err, listing.ErrNotFound):
		case err != nil:
			return res, fmt.Errorf("removing car %s: %w", c.ID, err)
		default:
			res.Cars++
		}
	}

	return res, nil
}

// Apply writes users first, then each car followed by its reviews.
func Apply(ctx context.Context, w Writer, f *File) (Result, error) {
	var res Result

	for _, u := range f.Users {
		if err := w.UpsertUser(ctx, review.Reviewer{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}); err != nil {
			return res, fmt.Errorf("seeding user %s: %w", u.ID, err)
		}
		res.Users++
	}

	for _, c := range f.Cars {
		id, err := w.InsertCar(ctx, c.row())
		if err != nil {
			return res, fmt.Errorf("seeding car %q: %w", c.Title, err)
		}
		res.Cars++

		for _, r := range c.Reviews {
			_, err := w.AddReview(ctx, review.NewReview{
				ID:         r.ID,
				CarID:      id,
				ReviewerID: r.ReviewerID,
				Rating:     r.Rating,
				Comment:    r.Comment,
				Likes:      r.Likes,
				Dislikes:   r.Dislikes,
				CreatedAt:  r.CreatedAt,
			})
			if err != nil {
				return res, fmt.Errorf("seeding review on %q: %w", c.Title, err)
			}
			res.Reviews++
		}
	}

	return res, nil
}

func (c Car) row() listing.Row {
	r := listing.Row{
		ID:          c.ID,
		Title:       optional(c.Title),
		Description: optional(c.Description),
		PricePerDay: c.PricePerDay,
		Location:    optional(c.Location),
		Tags:        c.Tags,
		Type:        optional(c.Type),
		HostID:      optional(c.HostID),
		CreatedAt:   c.CreatedAt,
	}
	if c.Photos != nil {
		r.Photos = c.Photos
	}
	return r
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
