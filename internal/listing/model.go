// Package listing provides the car listing model, tag normalization,
// the listing fetcher and the SQLite listing store.
package listing

import (
	"errors"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/evcraddock/car-finder/internal/i18n"
)

// PlaceholderImage is shown for listings without photos.
const PlaceholderImage = "https://placehold.co/300x200?text=Car"

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = errors.New("listing not found")

// Listing is a rentable car as shown in search results and on the detail page.
type Listing struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Image    string   `json:"image"`
	Location string   `json:"location"`
	Rating   float64  `json:"rating"`
	Tags     []string `json:"tags"`
	Category string   `json:"type,omitempty"`

	// Detail fields; empty in search results from backends that project them away.
	Description string   `json:"description,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	HostID      string   `json:"host_id,omitempty"`
}

// Row is a raw listing row as returned by a backend. Any field may be missing.
// Tags and Photos are untyped because backends disagree on their shape.
type Row struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	PricePerDay *float64  `json:"price_per_day"`
	Location    *string   `json:"location"`
	Photos      any       `json:"photos"`
	Tags        any       `json:"tags"`
	Type        *string   `json:"type"`
	HostID      *string   `json:"host_id"`
	Rating      *float64  `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// Defaults are the localized fallbacks for missing fields.
type Defaults struct {
	Name     string
	Location string
}

// DefaultsFor returns the fallbacks in the given language.
func DefaultsFor(tag language.Tag) Defaults {
	p := i18n.Printer(tag)
	return Defaults{
		Name:     p.Sprintf(i18n.UnknownCar),
		Location: p.Sprintf(i18n.UnknownLocation),
	}
}

// FromRow maps a backend row into a Listing, filling in defaults.
func FromRow(r Row, d Defaults) Listing {
	l := Listing{
		ID:       r.ID,
		Name:     d.Name,
		Location: d.Location,
		Image:    PlaceholderImage,
	}

	if r.Title != nil && *r.Title != "" {
		l.Name = *r.Title
	}
	if r.PricePerDay != nil {
		l.Price = *r.PricePerDay
	}
	if r.Location != nil && *r.Location != "" {
		l.Location = *r.Location
	}
	if r.Rating != nil {
		l.Rating = *r.Rating
	}
	if r.Type != nil {
		l.Category = *r.Type
	}
	if r.Description != nil {
		l.Description = *r.Description
	}
	if r.HostID != nil {
		l.HostID = *r.HostID
	}

	l.Tags = NormalizeTags(r.Tags, "listing", r.ID)

	photos, err := parseStringList(r.Photos)
	if err != nil {
		slog.Warn("discarding malformed photos", "listing", r.ID, "error", err)
	}
	if len(photos) > 0 {
		l.Photos = photos
		l.Image = photos[0]
	}

	return l
}
