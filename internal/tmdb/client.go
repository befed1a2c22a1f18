package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result represents a single TMDB movie search match.
type Result struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Country is one production country entry on a movie detail payload.
type Country struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

// CrewMember is one credits crew entry on a movie detail payload.
type CrewMember struct {
	Job  string `json:"job"`
	Name string `json:"name"`
}

// Credits carries the crew list appended to a detail fetch.
type Credits struct {
	Crew []CrewMember `json:"crew"`
}

// MovieDetails captures the TMDB movie payload with credits appended.
type MovieDetails struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	ReleaseDate         string    `json:"release_date"`
	PosterPath          string    `json:"poster_path"`
	ProductionCountries []Country `json:"production_countries"`
	Credits             Credits   `json:"credits"`
}

// Searcher defines the TMDB operations used by enrichment.
type Searcher interface {
	SearchMovie(ctx context.Context, query string) (*Response, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error)
}

// Client provides access to the TMDB API for searches and detail fetches.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	language = strings.TrimSpace(language)
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches TMDB for the supplied title.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)

	var payload Response
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb search: %w", err)
	}
	return &payload, nil
}

// GetMovieDetails fetches movie details by TMDB ID with credits appended,
// so one round trip covers both the director and the production countries.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var payload MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb movie details: %w", err)
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, payload any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb returned %d (latency=%v)", resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
