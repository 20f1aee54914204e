package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"watchlog/pkg/tmdb"

	"github.com/stretchr/testify/assert"
)

func TestClient_SearchDirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "inception", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"id": 27205, "title": "Inception", "poster_path": "/poster.jpg", "release_date": "2010-07-15", "genre_ids": [28, 878]}
			],
			"total_pages": 1,
			"total_results": 1
		}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{APIKey: "test-key", BaseURL: server.URL})

	page, err := client.Search(context.Background(), "inception", "movie", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.TotalResults)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, "Inception", page.Results[0].DisplayTitle())
	assert.Equal(t, 2010, page.Results[0].ReleaseYear())
}

func TestClient_SearchProxy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "search", r.URL.Query().Get("type"))
		assert.Equal(t, "inception", r.URL.Query().Get("query"))
		assert.Equal(t, "movie", r.URL.Query().Get("media_type"))
		// The proxy never sees the API key
		assert.Empty(t, r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"results": [{"id": 27205, "title": "Inception"}],
			"total_pages": 3,
			"total_results": 42
		}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{UseProxy: true, ProxyURL: server.URL + "/api/movie-search"})

	page, err := client.Search(context.Background(), "inception", "movie", 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 42, page.TotalResults)
	assert.Equal(t, "Inception", page.Results[0].Title)
}

func TestClient_ProxyFailureEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "message": "upstream quota exceeded"}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{UseProxy: true, ProxyURL: server.URL})

	_, err := client.Search(context.Background(), "inception", "movie", 1)
	var gwErr *tmdb.Error
	assert.True(t, errors.As(err, &gwErr))
	assert.False(t, gwErr.Network)
	assert.Contains(t, gwErr.Error(), "upstream quota exceeded")
}

func TestClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message": "Invalid API key"}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{APIKey: "bad-key", BaseURL: server.URL})

	_, err := client.Search(context.Background(), "inception", "movie", 1)
	var gwErr *tmdb.Error
	assert.True(t, errors.As(err, &gwErr))
	assert.False(t, gwErr.Network)
	assert.Equal(t, http.StatusUnauthorized, gwErr.Status)
	assert.Contains(t, gwErr.Error(), "Invalid API key")
}

func TestClient_NetworkError(t *testing.T) {
	// Point at a server that is already gone.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := tmdb.NewClient(tmdb.Config{APIKey: "test-key", BaseURL: baseURL})

	_, err := client.Search(context.Background(), "inception", "movie", 1)
	var gwErr *tmdb.Error
	assert.True(t, errors.As(err, &gwErr))
	assert.True(t, gwErr.Network)
	assert.Contains(t, gwErr.Error(), "could not reach the movie catalog")
}

func TestClient_Genres(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{APIKey: "test-key", BaseURL: server.URL})

	genres, err := client.Genres(context.Background(), "movie")
	assert.NoError(t, err)
	assert.Len(t, genres, 2)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestClient_GenresProxy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "genres", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "genres": [{"id": 35, "name": "Comedy"}]}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{UseProxy: true, ProxyURL: server.URL})

	genres, err := client.Genres(context.Background(), "movie")
	assert.NoError(t, err)
	assert.Len(t, genres, 1)
	assert.Equal(t, "Comedy", genres[0].Name)
}

func TestClient_Discover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "878", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [], "total_pages": 0, "total_results": 0}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{APIKey: "test-key", BaseURL: server.URL})

	page, err := client.Discover(context.Background(), 878, "movie", 1)
	assert.NoError(t, err)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestClient_Browse(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"id": 1, "name": "Severance", "first_air_date": "2022-02-18"}], "total_pages": 1, "total_results": 1}`))
	}))
	defer server.Close()

	client := tmdb.NewClient(tmdb.Config{APIKey: "test-key", BaseURL: server.URL})

	page, err := client.Browse(context.Background(), tmdb.ListOnTheAir, "tv", 1)
	assert.NoError(t, err)
	assert.Equal(t, "/tv/on_the_air", gotPath)
	assert.Equal(t, "Severance", page.Results[0].DisplayTitle())
	assert.Equal(t, 2022, page.Results[0].ReleaseYear())

	_, err = client.Browse(context.Background(), tmdb.ListNowPlaying, "movie", 1)
	assert.NoError(t, err)
	assert.Equal(t, "/movie/now_playing", gotPath)

	_, err = client.Browse(context.Background(), "trending", "movie", 1)
	assert.Error(t, err)
}

func TestClient_PosterURL(t *testing.T) {
	client := tmdb.NewClient(tmdb.Config{})
	assert.Equal(t, tmdb.DefaultImageBase+"/poster.jpg", client.PosterURL("/poster.jpg"))
	assert.Empty(t, client.PosterURL(""))
}
