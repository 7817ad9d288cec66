package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider"
)

const providerName = "omdb"

// Provider implements the provider.Provider interface for OMDb.
type Provider struct {
	client     *omdb.Client
	httpClient *http.Client
	apiKey     string
	config     map[string]interface{}
}

// New creates a new OMDb provider instance.
func New() *Provider {
	return &Provider{
		config: make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "Open Movie Database (OMDB) poster art"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		MediaTypes: []provider.MediaType{
			provider.MediaTypeMovie,
			provider.MediaTypeSeries,
		},
		RequiresAuth: true,
		Priority:     70,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_key",
				DisplayName: "API Key",
				Type:        provider.ConfigFieldTypePassword,
				Required:    true,
				Description: "OMDb API key. Request one from https://www.omdbapi.com/apikey.aspx",
				Sensitive:   true,
			},
		},
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	// Allow overriding the HTTP client before configuration (useful for tests).
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	p.apiKey = apiKey
	p.config = config
	p.client = omdb.NewClient(p.apiKey, p.httpClient)

	return nil
}

// Fetch looks up a poster for the given request.
func (p *Provider) Fetch(ctx context.Context, request provider.Request) (*provider.Poster, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch request.MediaType {
	case provider.MediaTypeMovie:
		return p.fetchMovie(request)
	case provider.MediaTypeSeries:
		return p.fetchSeries(request)
	default:
		return nil, fmt.Errorf("unsupported media type: %s", request.MediaType)
	}
}

func (p *Provider) fetchMovie(request provider.Request) (*provider.Poster, error) {
	if strings.TrimSpace(request.Title) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "movie fetch requires a title",
		}
	}

	result, err := p.client.SearchByTitle(omdb.QueryData{
		Title:      request.Title,
		Year:       request.Year,
		SearchType: "movie",
	})
	if err != nil {
		return nil, p.mapError(err)
	}

	switch movie := result.(type) {
	case omdb.MovieResult:
		return p.movieResultToPoster(movie)
	case *omdb.MovieResult:
		return p.movieResultToPoster(*movie)
	default:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  "movie not found",
		}
	}
}

func (p *Provider) fetchSeries(request provider.Request) (*provider.Poster, error) {
	if strings.TrimSpace(request.Title) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "series fetch requires a title",
		}
	}

	result, err := p.client.SearchByTitle(omdb.QueryData{
		Title:      request.Title,
		Year:       request.Year,
		SearchType: "series",
	})
	if err != nil {
		return nil, p.mapError(err)
	}

	switch series := result.(type) {
	case omdb.SeriesResult:
		return p.seriesResultToPoster(series)
	case *omdb.SeriesResult:
		return p.seriesResultToPoster(*series)
	default:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  "series not found",
		}
	}
}

func (p *Provider) movieResultToPoster(result omdb.MovieResult) (*provider.Poster, error) {
	if result.Poster == "" || result.Poster == "N/A" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NO_POSTER",
			Message:  fmt.Sprintf("no poster for movie: %s", result.Title),
		}
	}

	poster := &provider.Poster{
		Provider: providerName,
		Title:    result.Title,
		Year:     omdb.FirstYear(result.Year),
		ImageURL: result.Poster,
		IDs:      make(map[string]string),
	}
	if result.ImdbID != "" {
		poster.IDs["imdb_id"] = result.ImdbID
	}
	return poster, nil
}

func (p *Provider) seriesResultToPoster(result omdb.SeriesResult) (*provider.Poster, error) {
	if result.Poster == "" || result.Poster == "N/A" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NO_POSTER",
			Message:  fmt.Sprintf("no poster for series: %s", result.Title),
		}
	}

	poster := &provider.Poster{
		Provider: providerName,
		Title:    result.Title,
		Year:     omdb.FirstYear(result.Year),
		ImageURL: result.Poster,
		IDs:      make(map[string]string),
	}
	if result.ImdbID != "" {
		poster.IDs["imdb_id"] = result.ImdbID
	}
	return poster, nil
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "AUTH_FAILED",
			Message:  "OMDb authentication failed: " + msg,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  msg,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "UNKNOWN",
			Message:  msg,
		}
	}
}
