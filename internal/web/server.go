// Package web provides the JSON HTTP API the mobile app talks to.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"

	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/logging"
	"github.com/evcraddock/car-finder/internal/review"
	"github.com/evcraddock/car-finder/internal/settings"
)

// Server is the API HTTP server.
type Server struct {
	fetcher  *listing.Fetcher
	reviews  *review.Aggregator
	settings *settings.Service
	handler  http.Handler
}

// Stores are the backends the server reads from.
type Stores struct {
	Listings listing.Source
	Reviews  review.Source
	Settings settings.Store
}

// NewServer creates an API server. corsOrigins lists the origins allowed to
// call the API from a browser; "*" allows any.
func NewServer(st Stores, corsOrigins []string) *Server {
	s := &Server{
		fetcher:  listing.NewFetcher(st.Listings),
		reviews:  review.NewAggregator(st.Reviews),
		settings: settings.NewService(st.Settings),
	}

	standard := alice.New(logging.RequestLogger, logging.Recoverer, secureHeaders, makeResponseJSON)

	mux := pat.New()
	mux.Get("/health", http.HandlerFunc(s.handleHealth))

	mux.Get("/api/cars", http.HandlerFunc(s.apiListCars))
	mux.Get("/api/cars/:id", http.HandlerFunc(s.apiGetCar))
	mux.Get("/api/cars/:id/reviews", http.HandlerFunc(s.apiListReviews))
	mux.Get("/api/filters", http.HandlerFunc(s.apiFilters))

	mux.Get("/api/settings", http.HandlerFunc(s.apiGetSettings))
	mux.Put("/api/settings/language", http.HandlerFunc(s.apiSetLanguage))
	mux.Put("/api/settings/theme", http.HandlerFunc(s.apiSetTheme))
	mux.Post("/api/settings/theme/toggle", http.HandlerFunc(s.apiToggleTheme))

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept-Language", logging.RequestIDHeader},
		ExposedHeaders: []string{logging.RequestIDHeader},
	})

	// pat answers unmatched paths with 404 and wrong methods with 405 plus
	// an Allow header; routeErrors turns both into JSON bodies.
	s.handler = c.Handler(standard.Append(routeErrors).Then(mux))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
