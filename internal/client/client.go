// Package client provides an HTTP client for the car-finder API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/car-finder/internal/filter"
	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

// Client is an HTTP client for the car-finder API.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// New creates a new API client. language, when set, is sent as
// Accept-Language so defaults come back localized.
func New(baseURL, language string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "server error: " + http.StatusText(e.StatusCode)
}

// SearchOptions are the query and filter for Search. Nil prices use the
// server's limits.
type SearchOptions struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Type     string
	Tags     []string
}

// SearchResponse is the response from GET /api/cars.
type SearchResponse struct {
	Query    string            `json:"query"`
	Filter   filter.State      `json:"filter"`
	Total    int               `json:"total"`
	Listings []listing.Listing `json:"listings"`
	Error    string            `json:"error,omitempty"`
}

// ShowResponse is the response from GET /api/cars/{id}.
type ShowResponse struct {
	Car     listing.Listing `json:"car"`
	Reviews []review.Review `json:"reviews"`
	Summary review.Summary  `json:"summary"`
	Error   string          `json:"error,omitempty"`
}

// Search fetches and filters listings.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	params := url.Values{}
	if q := strings.TrimSpace(opts.Query); q != "" {
		params.Set("q", q)
	}
	if opts.MinPrice != nil {
		params.Set("min_price", strconv.FormatFloat(*opts.MinPrice, 'f', -1, 64))
	}
	if opts.MaxPrice != nil {
		params.Set("max_price", strconv.FormatFloat(*opts.MaxPrice, 'f', -1, 64))
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	for _, t := range opts.Tags {
		params.Add("tag", t)
	}

	path := "/api/cars"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp SearchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCar returns a car with its reviews and rating summary.
func (c *Client) GetCar(ctx context.Context, id string) (*ShowResponse, error) {
	var resp ShowResponse
	if err := c.get(ctx, "/api/cars/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListReviews returns the reviews of a car and their summary.
func (c *Client) ListReviews(ctx context.Context, id string) (*review.Result, error) {
	var resp review.Result
	if err := c.get(ctx, "/api/cars/"+url.PathEscape(id)+"/reviews", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
