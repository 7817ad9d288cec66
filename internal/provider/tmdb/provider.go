package tmdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider"
	"github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
)

const (
	providerName = "tmdb"

	// imageBaseURL serves original resolution poster images.
	imageBaseURL = "https://image.tmdb.org/t/p/original"
)

// Provider implements the provider.Provider interface for TMDB.
type Provider struct {
	client      TMDBClient
	cache       *cache.Cache
	cacheFile   string
	language    string
	apiKey      string
	rateLimiter *rateLimiter
	config      map[string]interface{}
}

// TMDBClient is the subset of *tmdb.TMDb the provider uses (for testing).
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
}

// New creates a new TMDB provider instance.
func New() *Provider {
	return &Provider{
		language: "en-US",
		config:   make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns the provider description.
func (p *Provider) Description() string {
	return "The Movie Database (TMDB) poster art"
}

// Capabilities returns what this provider can do.
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		MediaTypes: []provider.MediaType{
			provider.MediaTypeMovie,
			provider.MediaTypeSeries,
		},
		RequiresAuth: true,
		Priority:     80,
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
				Description: "TMDB API key (not the Read Access Token). Get it from themoviedb.org/settings/api",
				Sensitive:   true,
			},
			{
				Name:        "language",
				DisplayName: "Language",
				Type:        provider.ConfigFieldTypeString,
				Default:     "en-US",
				Description: "Preferred language for poster lookups",
			},
			{
				Name:        "cache_enabled",
				DisplayName: "Enable Cache",
				Type:        provider.ConfigFieldTypeBool,
				Default:     true,
				Description: "Cache API responses to reduce requests",
			},
		},
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	p.config = config

	apiKey, ok := config["api_key"].(string)
	if !ok || strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	p.apiKey = strings.TrimSpace(apiKey)

	if language, ok := config["language"].(string); ok && language != "" {
		p.language = language
	}

	// Allow injecting a fake client before configuration in tests.
	if p.client == nil {
		p.client = tmdb.Init(tmdb.Config{APIKey: p.apiKey})
	}

	cacheEnabled := true
	if enabled, ok := config["cache_enabled"].(bool); ok {
		cacheEnabled = enabled
	}

	if cacheEnabled {
		if dir, ok := config["cache_dir"].(string); ok && dir != "" {
			if err := os.MkdirAll(dir, 0755); err == nil {
				p.cacheFile = filepath.Join(dir, "tmdb_cache.gob")
			}
		}

		p.cache = cache.New(168*time.Hour, 10*time.Minute)
		if p.cacheFile != "" {
			if _, err := os.Stat(p.cacheFile); err == nil {
				_ = p.cache.LoadFile(p.cacheFile)
			}
		}
	}

	// TMDB allows ~40 requests per 10 seconds per IP.
	p.rateLimiter = newRateLimiter(38, 10*time.Second)

	return nil
}

// SaveCache persists the response cache to disk.
func (p *Provider) SaveCache() error {
	if p.cache != nil && p.cacheFile != "" {
		return p.cache.SaveFile(p.cacheFile)
	}
	return nil
}

// Fetch looks up a poster for the requested title.
func (p *Provider) Fetch(ctx context.Context, request provider.Request) (*provider.Poster, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not configured")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:%s:%s:%s", request.MediaType, request.Title, request.Year, p.language)
	if p.cache != nil {
		if cached, found := p.cache.Get(cacheKey); found {
			if poster, ok := cached.(*provider.Poster); ok {
				return poster, nil
			}
		}
	}

	var poster *provider.Poster
	var err error

	switch request.MediaType {
	case provider.MediaTypeMovie:
		poster, err = p.fetchMovie(ctx, request)
	case provider.MediaTypeSeries:
		poster, err = p.fetchSeries(ctx, request)
	default:
		return nil, fmt.Errorf("unsupported media type: %s", request.MediaType)
	}

	if err != nil {
		return nil, err
	}

	if p.cache != nil && poster != nil {
		p.cache.Set(cacheKey, poster, cache.DefaultExpiration)
	}

	return poster, nil
}

func (p *Provider) fetchMovie(ctx context.Context, request provider.Request) (*provider.Poster, error) {
	options := map[string]string{"language": p.language, "include_adult": "false"}
	if request.Year != "" {
		options["year"] = request.Year
	}

	if err := p.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	results, err := p.client.SearchMovie(request.Title, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  fmt.Sprintf("no results found for movie: %s", request.Title),
		}
	}

	// Take the first result that has a poster
	for _, movie := range results.Results {
		if movie.PosterPath == "" {
			continue
		}
		year := ""
		if len(movie.ReleaseDate) >= 4 {
			year = movie.ReleaseDate[:4]
		}
		return &provider.Poster{
			Provider: providerName,
			Title:    movie.Title,
			Year:     year,
			ImageURL: imageBaseURL + movie.PosterPath,
			IDs:      map[string]string{"tmdb_id": fmt.Sprintf("%d", movie.ID)},
		}, nil
	}

	return nil, &provider.ProviderError{
		Provider: providerName,
		Code:     "NO_POSTER",
		Message:  fmt.Sprintf("no poster found for movie: %s", request.Title),
	}
}

func (p *Provider) fetchSeries(ctx context.Context, request provider.Request) (*provider.Poster, error) {
	options := map[string]string{"language": p.language}
	if request.Year != "" {
		options["first_air_date_year"] = request.Year
	}

	if err := p.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	results, err := p.client.SearchTv(request.Title, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  fmt.Sprintf("no results found for series: %s", request.Title),
		}
	}

	for _, show := range results.Results {
		if show.PosterPath == "" {
			continue
		}
		year := ""
		if len(show.FirstAirDate) >= 4 {
			year = show.FirstAirDate[:4]
		}
		return &provider.Poster{
			Provider: providerName,
			Title:    show.Name,
			Year:     year,
			ImageURL: imageBaseURL + show.PosterPath,
			IDs:      map[string]string{"tmdb_id": fmt.Sprintf("%d", show.ID)},
		}, nil
	}

	return nil, &provider.ProviderError{
		Provider: providerName,
		Code:     "NO_POSTER",
		Message:  fmt.Sprintf("no poster found for series: %s", request.Title),
	}
}

// mapError maps TMDB errors to provider errors
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     "AUTH_FAILED",
			Message:  "TMDB authentication failed: " + err.Error(),
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       "UNAVAILABLE",
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     "UNKNOWN",
		Message:  "TMDB error: " + err.Error(),
	}
}
