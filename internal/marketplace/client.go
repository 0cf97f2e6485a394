// Package marketplace implements the HTTP client for the rental
// marketplace's search, room detail, and review endpoints.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"bnbscout/internal/listing"
)

const (
	defaultBaseURL     = "https://www.airbnb.com"
	defaultHTTPTimeout = 30 * time.Second
	userAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// ReviewPageSize is the page size used when walking a room's reviews.
	ReviewPageSize = 50
)

// Client talks to the marketplace API.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

// Option customizes the marketplace client.
type Option func(*Client)

// WithBaseURL overrides the API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// NewClient constructs a marketplace API client.
func NewClient(apiKey string, opts ...Option) *Client {
	http := resty.New()
	http.SetHeader("user-agent", userAgent)
	http.SetTimeout(defaultHTTPTimeout)

	client := &Client{
		http:    http,
		baseURL: defaultBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchParams is the bounding box and stay window for a search call.
type SearchParams struct {
	CheckIn  string
	CheckOut string
	NELat    float64
	NELong   float64
	SWLat    float64
	SWLong   float64
	Zoom     float64
	Currency string
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.apiKey != "" {
		req.SetHeader("X-Airbnb-API-Key", c.apiKey)
	}
	return req
}

// Search fetches every result page for the bounding box and returns the
// raw listings, duplicates included. Callers deduplicate.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]listing.Listing, error) {
	if params.CheckIn == "" || params.CheckOut == "" {
		return nil, errors.New("marketplace search: check-in and check-out required")
	}

	var payload searchResponse
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"checkin":  params.CheckIn,
			"checkout": params.CheckOut,
			"ne_lat":   strconv.FormatFloat(params.NELat, 'f', -1, 64),
			"ne_lng":   strconv.FormatFloat(params.NELong, 'f', -1, 64),
			"sw_lat":   strconv.FormatFloat(params.SWLat, 'f', -1, 64),
			"sw_lng":   strconv.FormatFloat(params.SWLong, 'f', -1, 64),
			"zoom":     strconv.FormatFloat(params.Zoom, 'f', -1, 64),
			"currency": params.Currency,
		}).
		SetResult(&payload).
		Get(c.baseURL + "/api/v3/search")
	if err != nil {
		return nil, fmt.Errorf("marketplace search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace search: http %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	listings := make([]listing.Listing, 0, len(payload.Results))
	for _, raw := range payload.Results {
		listings = append(listings, raw.toListing(params.Currency))
	}
	return listings, nil
}

// RoomDetail fetches the detail record for one room.
func (c *Client) RoomDetail(ctx context.Context, roomID string, params SearchParams) (listing.Detail, error) {
	if roomID == "" {
		return listing.Detail{}, errors.New("marketplace detail: room id required")
	}

	var payload detailResponse
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"checkin":  params.CheckIn,
			"checkout": params.CheckOut,
			"currency": params.Currency,
		}).
		SetResult(&payload).
		Get(c.baseURL + "/api/v3/rooms/" + roomID)
	if err != nil {
		return listing.Detail{}, fmt.Errorf("marketplace detail %s: %w", roomID, err)
	}
	if resp.IsError() {
		return listing.Detail{}, fmt.Errorf("marketplace detail %s: http %d: %s", roomID, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	detail := payload.toDetail()
	// The detail payload does not always echo the room id.
	detail.RoomID = roomID
	return detail, nil
}

// Reviews fetches one page of reviews for a room.
func (c *Client) Reviews(ctx context.Context, roomID string, offset, limit int) ([]listing.Review, error) {
	if roomID == "" {
		return nil, errors.New("marketplace reviews: room id required")
	}
	if limit <= 0 {
		limit = ReviewPageSize
	}

	var payload reviewsResponse
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"listing_id": roomID,
			"_offset":    strconv.Itoa(offset),
			"_limit":     strconv.Itoa(limit),
		}).
		SetResult(&payload).
		Get(c.baseURL + "/api/v2/reviews")
	if err != nil {
		return nil, fmt.Errorf("marketplace reviews %s: %w", roomID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace reviews %s: http %d: %s", roomID, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	reviews := make([]listing.Review, 0, len(payload.Reviews))
	for _, raw := range payload.Reviews {
		reviews = append(reviews, listing.Review{
			RoomID:    roomID,
			CreatedAt: raw.CreatedAt,
			Comments:  raw.Comments,
			Rating:    raw.Rating,
		})
	}
	return reviews, nil
}

// AllReviews walks every review page for a room.
func (c *Client) AllReviews(ctx context.Context, roomID string) ([]listing.Review, error) {
	var all []listing.Review
	for offset := 0; ; offset += ReviewPageSize {
		page, err := c.Reviews(ctx, roomID, offset, ReviewPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < ReviewPageSize {
			return all, nil
		}
	}
}
