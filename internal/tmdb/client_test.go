package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cinevault/internal/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "zh-CN"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := tmdb.New("key", "  ", "zh-CN"); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchMovieSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("language") != "zh-CN" {
			t.Fatalf("expected language query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":27205,"title":"Inception","release_date":"2010-07-16","poster_path":"/inception.jpg"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "zh-CN")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchMovie(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 27205 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.Results[0].PosterPath != "/inception.jpg" {
		t.Fatalf("poster path lost: %#v", resp.Results[0])
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":500}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := client.SearchMovie(context.Background(), "fail"); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
}

func TestSearchMovieEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestGetMovieDetailsAppendsCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/movie/27205") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Fatalf("expected credits appended, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 27205,
			"title": "Inception",
			"release_date": "2010-07-16",
			"poster_path": "/inception.jpg",
			"production_countries": [{"iso_3166_1":"GB","name":"United Kingdom"},{"iso_3166_1":"US","name":"United States of America"}],
			"credits": {"crew": [{"job":"Producer","name":"Emma Thomas"},{"job":"Director","name":"Christopher Nolan"}]}
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "zh-CN")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	details, err := client.GetMovieDetails(context.Background(), 27205)
	if err != nil {
		t.Fatalf("GetMovieDetails returned error: %v", err)
	}
	if len(details.ProductionCountries) != 2 || details.ProductionCountries[0].ISO3166 != "GB" {
		t.Fatalf("unexpected countries: %#v", details.ProductionCountries)
	}
	if len(details.Credits.Crew) != 2 || details.Credits.Crew[1].Job != "Director" {
		t.Fatalf("unexpected crew: %#v", details.Credits.Crew)
	}
}

func TestGetMovieDetailsRejectsBadID(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.GetMovieDetails(context.Background(), 0); err == nil {
		t.Fatal("expected error for non-positive movie id")
	}
}
