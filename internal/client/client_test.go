package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

func floatPtr(f float64) *float64 { return &f }

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		opts      SearchOptions
		wantQuery string
	}{
		{"no options", SearchOptions{}, ""},
		{"query trimmed", SearchOptions{Query: "  jeep "}, "q=jeep"},
		{
			name:      "full filter",
			opts:      SearchOptions{MinPrice: floatPtr(20), MaxPrice: floatPtr(99.5), Type: "SUV", Tags: []string{"GPS", "A/C"}},
			wantQuery: "max_price=99.5&min_price=20&tag=GPS&tag=A%2FC&type=SUV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/cars" {
					t.Errorf("path = %q, want /api/cars", r.URL.Path)
				}
				if r.URL.RawQuery != tt.wantQuery {
					t.Errorf("query = %q, want %q", r.URL.RawQuery, tt.wantQuery)
				}
				w.Header().Set("Content-Type", "application/json")
				if err := json.NewEncoder(w).Encode(SearchResponse{
					Total:    1,
					Listings: []listing.Listing{{ID: "jeep", Name: "Jeep", Tags: []string{"4x4"}}},
				}); err != nil {
					t.Fatalf("encode: %v", err)
				}
			}))
			defer srv.Close()

			resp, err := New(srv.URL, "").Search(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if resp.Total != 1 || resp.Listings[0].Name != "Jeep" {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestSearchBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"query":"bmw","total":0,"listings":[],"error":"Search failed: timeout"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Search(context.Background(), SearchOptions{Query: "bmw"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Error() != "Search failed: timeout" {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestGetCar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cars/jeep-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Accept-Language") != "fr" {
			t.Errorf("accept-language = %q", r.Header.Get("Accept-Language"))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ShowResponse{
			Car:     listing.Listing{ID: "jeep-1", Name: "Jeep"},
			Reviews: []review.Review{{ID: "r1", Rating: 5}},
			Summary: review.Summarize([]review.Review{{Rating: 5}}),
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	resp, err := New(srv.URL+"/", "fr").GetCar(context.Background(), "jeep-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.Car.Name != "Jeep" || len(resp.Reviews) != 1 || resp.Summary.Average != 5 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetCarNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Car not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").GetCar(context.Background(), "nope")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("error = %v", err)
	}
	if err.Error() != "Car not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestListReviews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cars/c1/reviews" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"reviews":[{"id":"r1","rating":4,"reviewer":{"name":"Sara","avatar_url":"x"}}],
			"summary":{"average":4,"count":1,"breakdown":[]}}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, "").ListReviews(context.Background(), "c1")
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if len(res.Reviews) != 1 || res.Reviews[0].Reviewer.Name != "Sara" || res.Summary.Count != 1 {
		t.Errorf("res = %+v", res)
	}
}

func TestServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").ListReviews(context.Background(), "c1")
	if err == nil || err.Error() != "server error: Internal Server Error" {
		t.Errorf("error = %v", err)
	}
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url, "").Search(context.Background(), SearchOptions{}); err == nil {
		t.Error("expected error, got nil")
	}
}
