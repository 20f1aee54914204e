// Package tmdb is a stateless client for a TMDB-compatible movie catalog.
// It can call the API directly or go through a same-origin proxy, and it
// normalizes both response shapes into the same Page type. Every operation
// issues exactly one GET; there is no retry or backoff.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Defaults for the public TMDB v3 API.
const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultImageBase = "https://image.tmdb.org/t/p/w500"
	DefaultLanguage  = "en-US"
)

// Curated list types accepted by Browse.
const (
	ListPopular    = "popular"
	ListTopRated   = "top_rated"
	ListNowPlaying = "now_playing"
	ListOnTheAir   = "on_the_air"
)

// ValidListType reports whether t is a curated list Browse understands.
func ValidListType(t string) bool {
	switch t {
	case ListPopular, ListTopRated, ListNowPlaying, ListOnTheAir:
		return true
	}
	return false
}

// Config holds the catalog endpoints and credentials. It is injected at
// startup; the client never inspects its runtime environment.
type Config struct {
	APIKey    string
	BaseURL   string
	ImageBase string
	ProxyURL  string
	UseProxy  bool
	Language  string
}

// Client is a stateless catalog gateway.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a catalog client, filling in defaults for any endpoint
// fields left empty.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBase == "" {
		cfg.ImageBase = DefaultImageBase
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Item is a single catalog result. Movies carry Title/ReleaseDate, TV shows
// carry Name/FirstAirDate.
type Item struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	PosterPath   string `json:"poster_path"`
	ReleaseDate  string `json:"release_date,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	GenreIDs     []int  `json:"genre_ids"`
}

// DisplayTitle returns the movie title or TV show name, whichever is set.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// ReleaseYear extracts the year from the release or first-air date, or 0 if
// neither is known.
func (i Item) ReleaseYear() int {
	date := i.ReleaseDate
	if date == "" {
		date = i.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// Page is the normalized shape of every list-returning catalog call.
type Page struct {
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// Genre is one entry of the catalog's genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Error is a gateway failure. Network is set when the catalog could not be
// reached at all, as opposed to the catalog answering with an error; callers
// show different copy for the two cases.
type Error struct {
	Status  int
	Message string
	Network bool
}

func (e *Error) Error() string {
	if e.Network {
		return fmt.Sprintf("could not reach the movie catalog: %s", e.Message)
	}
	if e.Status != 0 {
		return fmt.Sprintf("movie catalog error (status %d): %s", e.Status, e.Message)
	}
	return e.Message
}

// proxyEnvelope is the wrapper the proxy deployment puts around catalog
// responses.
type proxyEnvelope struct {
	Success      *bool   `json:"success"`
	Message      string  `json:"message"`
	Results      []Item  `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Genres       []Genre `json:"genres"`
}

// Search looks up catalog items by free-text query.
func (c *Client) Search(ctx context.Context, query, mediaType string, page int) (*Page, error) {
	if c.cfg.UseProxy {
		return c.getPage(ctx, c.proxyURL(url.Values{
			"type":       {"search"},
			"query":      {query},
			"page":       {strconv.Itoa(page)},
			"media_type": {mediaType},
		}))
	}
	return c.getPage(ctx, c.directURL("/search/"+mediaType, url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}))
}

// Genres fetches the catalog's genre list for the given media type.
func (c *Client) Genres(ctx context.Context, mediaType string) ([]Genre, error) {
	if c.cfg.UseProxy {
		var envelope proxyEnvelope
		if err := c.getJSON(ctx, c.proxyURL(url.Values{
			"type":       {"genres"},
			"media_type": {mediaType},
		}), &envelope); err != nil {
			return nil, err
		}
		if envelope.Success != nil && !*envelope.Success {
			return nil, &Error{Message: proxyMessage(envelope.Message)}
		}
		return envelope.Genres, nil
	}

	var out struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.getJSON(ctx, c.directURL("/genre/"+mediaType+"/list", nil), &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// Discover lists catalog items of a genre, most popular first.
func (c *Client) Discover(ctx context.Context, genreID int, mediaType string, page int) (*Page, error) {
	if c.cfg.UseProxy {
		return c.getPage(ctx, c.proxyURL(url.Values{
			"type":       {"discover"},
			"media_type": {mediaType},
			"genre":      {strconv.Itoa(genreID)},
			"page":       {strconv.Itoa(page)},
		}))
	}
	return c.getPage(ctx, c.directURL("/discover/"+mediaType, url.Values{
		"page":        {strconv.Itoa(page)},
		"sort_by":     {"popularity.desc"},
		"with_genres": {strconv.Itoa(genreID)},
	}))
}

// Browse fetches one of the curated lists: popular, top_rated, now_playing
// (movies) or on_the_air (TV).
func (c *Client) Browse(ctx context.Context, listType, mediaType string, page int) (*Page, error) {
	if !ValidListType(listType) {
		return nil, fmt.Errorf("invalid list type %q", listType)
	}
	if c.cfg.UseProxy {
		return c.getPage(ctx, c.proxyURL(url.Values{
			"type":       {listType},
			"media_type": {mediaType},
			"page":       {strconv.Itoa(page)},
		}))
	}

	var path string
	switch listType {
	case ListNowPlaying:
		path = "/movie/now_playing"
	case ListOnTheAir:
		path = "/tv/on_the_air"
	default:
		path = "/" + mediaType + "/" + listType
	}
	return c.getPage(ctx, c.directURL(path, url.Values{
		"page": {strconv.Itoa(page)},
	}))
}

// PosterURL resolves a catalog poster_path to a full image URL, or "" when
// the item has no poster.
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.cfg.ImageBase + posterPath
}

func (c *Client) proxyURL(params url.Values) string {
	return c.cfg.ProxyURL + "?" + params.Encode()
}

func (c *Client) directURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)
	return c.cfg.BaseURL + path + "?" + params.Encode()
}

// getPage fetches a URL and normalizes either response shape into a Page.
func (c *Client) getPage(ctx context.Context, rawURL string) (*Page, error) {
	if c.cfg.UseProxy {
		var envelope proxyEnvelope
		if err := c.getJSON(ctx, rawURL, &envelope); err != nil {
			return nil, err
		}
		if envelope.Success != nil && !*envelope.Success {
			return nil, &Error{Message: proxyMessage(envelope.Message)}
		}
		results := envelope.Results
		if results == nil {
			results = []Item{}
		}
		return &Page{
			Results:      results,
			TotalPages:   envelope.TotalPages,
			TotalResults: envelope.TotalResults,
		}, nil
	}

	var page Page
	if err := c.getJSON(ctx, rawURL, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []Item{}
	}
	return &page, nil
}

// getJSON issues a single GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error(), Network: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var upstream struct {
			StatusMessage string `json:"status_message"`
			Message       string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&upstream)
		msg := upstream.StatusMessage
		if msg == "" {
			msg = upstream.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: fmt.Sprintf("malformed catalog response: %v", err)}
	}
	return nil
}

func proxyMessage(msg string) string {
	if msg == "" {
		return "catalog request failed"
	}
	return msg
}
