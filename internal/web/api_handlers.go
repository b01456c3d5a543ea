package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evcraddock/car-finder/internal/filter"
	"github.com/evcraddock/car-finder/internal/i18n"
	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"error": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// CarsResponse is the body of GET /api/cars.
type CarsResponse struct {
	Query    string            `json:"query"`
	Filter   filter.State      `json:"filter"`
	Total    int               `json:"total"`
	Listings []listing.Listing `json:"listings"`
	Error    string            `json:"error,omitempty"`
}

// CarResponse is the body of GET /api/cars/:id.
type CarResponse struct {
	Car     listing.Listing `json:"car"`
	Reviews []review.Review `json:"reviews"`
	Summary review.Summary  `json:"summary"`
	Error   string          `json:"error,omitempty"`
}

// language picks the language for localized defaults: Accept-Language when
// it names a supported language, the saved preference otherwise.
func (s *Server) language(r *http.Request) language.Tag {
	if tag, ok := i18n.Negotiate(r.Header.Get("Accept-Language")); ok {
		return tag
	}
	prefs, err := s.settings.Load(r.Context())
	if err != nil {
		slog.Warn("loading settings for language", "error", err)
		return language.English
	}
	return prefs.Tag()
}

// apiListCars fetches listings for q and applies the attribute filter.
// A backend failure yields 502 with an empty list and a localized error.
func (s *Server) apiListCars(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := strings.TrimSpace(params.Get("q"))
	state := filter.ParseQuery(params)

	tag := s.language(r)
	all, err := s.fetcher.Fetch(r.Context(), query, listing.DefaultsFor(tag))

	resp := CarsResponse{Query: query, Filter: state}
	resp.Listings = filter.Evaluate(all, state)
	resp.Total = len(resp.Listings)

	if err != nil {
		resp.Error = i18n.Printer(tag).Sprintf(i18n.SearchFailed, err)
		apiJSON(w, resp, http.StatusBadGateway)
		return
	}
	apiJSON(w, resp, http.StatusOK)
}

// loadCar resolves :id to a listing, writing the error response itself when
// it cannot.
func (s *Server) loadCar(w http.ResponseWriter, r *http.Request, p *message.Printer, d listing.Defaults) (*listing.Listing, bool) {
	id := strings.TrimSpace(r.URL.Query().Get(":id"))
	if id == "" {
		apiError(w, "car id is required", http.StatusBadRequest)
		return nil, false
	}

	car, err := s.fetcher.Get(r.Context(), id, d)
	if errors.Is(err, listing.ErrNotFound) {
		apiError(w, p.Sprintf(i18n.CarNotFound), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		slog.Error("fetching car", "id", id, "error", err)
		apiError(w, p.Sprintf(i18n.CarNotFound), http.StatusBadGateway)
		return nil, false
	}
	return car, true
}

// apiGetCar returns a car with its reviews, leaving out the owner's own.
// A review failure still returns the car, with the error text set.
func (s *Server) apiGetCar(w http.ResponseWriter, r *http.Request) {
	tag := s.language(r)
	p := i18n.Printer(tag)

	car, ok := s.loadCar(w, r, p, listing.DefaultsFor(tag))
	if !ok {
		return
	}

	resp := CarResponse{Car: *car, Reviews: []review.Review{}, Summary: review.Summarize(nil)}

	res, err := s.reviews.ForCar(r.Context(), car.ID, car.HostID, p.Sprintf(i18n.AnonymousUser))
	if err != nil {
		slog.Error("fetching reviews", "car", car.ID, "error", err)
		resp.Error = p.Sprintf(i18n.ReviewsFailed, err)
	} else {
		resp.Reviews = res.Reviews
		resp.Summary = res.Summary
	}

	apiJSON(w, resp, http.StatusOK)
}

// apiListReviews returns a car's reviews and their summary.
func (s *Server) apiListReviews(w http.ResponseWriter, r *http.Request) {
	tag := s.language(r)
	p := i18n.Printer(tag)

	car, ok := s.loadCar(w, r, p, listing.DefaultsFor(tag))
	if !ok {
		return
	}

	res, err := s.reviews.ForCar(r.Context(), car.ID, car.HostID, p.Sprintf(i18n.AnonymousUser))
	if err != nil {
		slog.Error("fetching reviews", "car", car.ID, "error", err)
		apiError(w, p.Sprintf(i18n.ReviewsFailed, err), http.StatusBadGateway)
		return
	}

	apiJSON(w, res, http.StatusOK)
}

// apiFilters returns the default filter and the dialog catalogue.
func (s *Server) apiFilters(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]interface{}{
		"defaults": filter.Defaults(),
		"options":  filter.CatalogOptions(),
	}, http.StatusOK)
}
