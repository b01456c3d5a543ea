package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// RecentLimit caps the browse query and the fuzzy search result.
	RecentLimit = 50

	// SimilarityThreshold gates the fuzzy title search.
	SimilarityThreshold = 0.05
)

// Source is a backend that can serve listing rows.
type Source interface {
	// Recent returns up to limit rows, newest first.
	Recent(ctx context.Context, limit int) ([]Row, error)
	// SearchFuzzy returns rows whose title is similar to query above threshold,
	// best match first.
	SearchFuzzy(ctx context.Context, query string, threshold float64) ([]Row, error)
	// Get returns a single row with detail columns, or ErrNotFound.
	Get(ctx context.Context, id string) (*Row, error)
}

// Fetcher turns backend rows into normalized listings.
type Fetcher struct {
	src Source
}

// NewFetcher creates a fetcher over src.
func NewFetcher(src Source) *Fetcher {
	return &Fetcher{src: src}
}

// Fetch runs the browse query when query is blank and the fuzzy search
// otherwise. On failure the returned list is empty (never nil) alongside
// the error; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context, query string, d Defaults) ([]Listing, error) {
	q := strings.TrimSpace(query)

	var rows []Row
	var err error
	if q == "" {
		rows, err = f.src.Recent(ctx, RecentLimit)
	} else {
		rows, err = f.src.SearchFuzzy(ctx, q, SimilarityThreshold)
	}
	if err != nil {
		slog.Error("fetching listings failed", "query", q, "error", err)
		return []Listing{}, fmt.Errorf("fetching listings: %w", err)
	}

	listings := make([]Listing, 0, len(rows))
	for _, r := range rows {
		listings = append(listings, FromRow(r, d))
	}
	return listings, nil
}

// Get returns the detail listing for id.
func (f *Fetcher) Get(ctx context.Context, id string, d Defaults) (*Listing, error) {
	row, err := f.src.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("fetching listing %s: %w", id, err)
	}

	l := FromRow(*row, d)
	return &l, nil
}
