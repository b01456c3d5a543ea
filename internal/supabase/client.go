// Package supabase reads listings and reviews from a hosted Supabase project
// through its PostgREST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

const (
	restPath = "/rest/v1"

	listColumns   = "id,title,price_per_day,location,photos,tags,type,created_at"
	detailColumns = "id,title,description,photos,price_per_day,location,tags,type,host_id,created_at"
	reviewColumns = "id,rating,comment,created_at,reviewer_id,likes,dislikes,reviewer:reviewer_id(id,name,avatar_url)"
)

// Client talks to a Supabase project. It implements listing.Source and
// review.Source.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client for the project at baseURL using the anon or
// service key.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase key is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

// APIError is an error response from PostgREST.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: unexpected status %d", e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.StatusCode)
}

// Recent returns up to limit cars, newest first.
func (c *Client) Recent(ctx context.Context, limit int) ([]listing.Row, error) {
	params := url.Values{
		"select": {listColumns},
		"order":  {"created_at.desc"},
		"limit":  {strconv.Itoa(limit)},
	}

	rows := []listing.Row{}
	if err := c.get(ctx, "/cars", params, &rows); err != nil {
		return nil, fmt.Errorf("listing recent cars: %w", err)
	}
	return rows, nil
}

type searchRequest struct {
	SearchQuery string  `json:"search_query"`
	Threshold   float64 `json:"threshold"`
}

// SearchFuzzy calls the search_cars_fuzzy remote procedure.
func (c *Client) SearchFuzzy(ctx context.Context, query string, threshold float64) ([]listing.Row, error) {
	rows := []listing.Row{}
	body := searchRequest{SearchQuery: query, Threshold: threshold}
	if err := c.post(ctx, "/rpc/search_cars_fuzzy", body, &rows); err != nil {
		return nil, fmt.Errorf("searching cars: %w", err)
	}
	return rows, nil
}

// Get returns one car with its detail columns.
func (c *Client) Get(ctx context.Context, id string) (*listing.Row, error) {
	params := url.Values{
		"select": {detailColumns},
		"id":     {"eq." + id},
		"limit":  {"1"},
	}

	var rows []listing.Row
	if err := c.get(ctx, "/cars", params, &rows); err != nil {
		return nil, fmt.Errorf("querying car %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("car %s: %w", id, listing.ErrNotFound)
	}
	return &rows[0], nil
}

// ListForCar returns up to limit reviews of a car joined with the reviewer.
// Reviews without a reviewer are kept when excludeReviewerID is set.
func (c *Client) ListForCar(ctx context.Context, carID, excludeReviewerID string, limit int) ([]review.Row, error) {
	params := url.Values{
		"select": {reviewColumns},
		"car_id": {"eq." + carID},
		"order":  {"created_at.desc"},
		"limit":  {strconv.Itoa(limit)},
	}
	if excludeReviewerID != "" {
		params.Set("or", fmt.Sprintf("(reviewer_id.neq.%s,reviewer_id.is.null)", excludeReviewerID))
	}

	rows := []review.Row{}
	if err := c.get(ctx, "/reviews", params, &rows); err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return rows, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + restPath + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+restPath+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) (err error) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing body: %w", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
