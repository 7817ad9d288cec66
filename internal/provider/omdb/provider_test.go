package omdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func jsonResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestConfigureRequiresAPIKey(t *testing.T) {
	prov := New()
	if err := prov.Configure(map[string]interface{}{}); err == nil {
		t.Fatal("expected error when api_key is missing")
	}
	if err := prov.Configure(map[string]interface{}{"api_key": "   "}); err == nil {
		t.Fatal("expected error for blank api_key")
	}
}

func TestFetchMoviePoster(t *testing.T) {
	prov := New()
	prov.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{
            "Title": "Interstellar",
            "Year": "2014",
            "Poster": "https://m.media-amazon.com/images/interstellar.jpg",
            "imdbID": "tt0816692",
            "Type": "movie",
            "Response": "True"
        }`), nil
	})

	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	poster, err := prov.Fetch(context.Background(), provider.Request{
		MediaType: provider.MediaTypeMovie,
		Title:     "Interstellar",
		Year:      "2014",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if poster.Title != "Interstellar" {
		t.Errorf("Title = %q, want Interstellar", poster.Title)
	}
	if poster.Year != "2014" {
		t.Errorf("Year = %q, want 2014", poster.Year)
	}
	if poster.ImageURL != "https://m.media-amazon.com/images/interstellar.jpg" {
		t.Errorf("ImageURL = %q, want Amazon poster URL", poster.ImageURL)
	}
	if got := poster.IDs["imdb_id"]; got != "tt0816692" {
		t.Errorf("imdb_id = %q, want tt0816692", got)
	}
}

func TestFetchSeriesPoster(t *testing.T) {
	prov := New()
	prov.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		if q.Get("type") != "series" {
			t.Errorf("type query = %q, want series", q.Get("type"))
		}
		return jsonResponse(200, `{
            "Title": "Breaking Bad",
            "Year": "2008-2013",
            "Poster": "https://m.media-amazon.com/images/bb.jpg",
            "imdbID": "tt0903747",
            "totalSeasons": "5",
            "Type": "series",
            "Response": "True"
        }`), nil
	})

	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	poster, err := prov.Fetch(context.Background(), provider.Request{
		MediaType: provider.MediaTypeSeries,
		Title:     "Breaking Bad",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if poster.Year != "2008" {
		t.Errorf("Year = %q, want first year 2008", poster.Year)
	}
	if poster.ImageURL == "" {
		t.Error("ImageURL empty, want poster URL")
	}
}

func TestFetchMissingPoster(t *testing.T) {
	prov := New()
	prov.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{
            "Title": "Obscure Film",
            "Year": "1931",
            "Poster": "N/A",
            "Type": "movie",
            "Response": "True"
        }`), nil
	})

	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	_, err := prov.Fetch(context.Background(), provider.Request{
		MediaType: provider.MediaTypeMovie,
		Title:     "Obscure Film",
	})

	var provErr *provider.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Fetch() error = %v, want ProviderError", err)
	}
	if provErr.Code != "NO_POSTER" {
		t.Errorf("error code = %q, want NO_POSTER", provErr.Code)
	}
}

func TestFetchNotFound(t *testing.T) {
	prov := New()
	prov.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"Response": "False", "Error": "Movie not found!"}`), nil
	})

	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if _, err := prov.Fetch(context.Background(), provider.Request{
		MediaType: provider.MediaTypeMovie,
		Title:     "Does Not Exist",
	}); err == nil {
		t.Fatal("Fetch() expected error for missing title")
	}
}

func TestFetchUnconfigured(t *testing.T) {
	prov := New()
	if _, err := prov.Fetch(context.Background(), provider.Request{
		MediaType: provider.MediaTypeMovie,
		Title:     "Dune",
	}); err == nil {
		t.Fatal("Fetch() expected error when unconfigured")
	}
}

func TestFetchUnsupportedType(t *testing.T) {
	prov := New()
	prov.httpClient = newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"Response": "True", "Type": "movie"}`), nil
	})
	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if _, err := prov.Fetch(context.Background(), provider.Request{
		MediaType: provider.MediaTypeAnime,
		Title:     "Frieren",
	}); err == nil {
		t.Fatal("Fetch() expected error for unsupported media type")
	}
}
