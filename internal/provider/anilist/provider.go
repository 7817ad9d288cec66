package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider"
)

const (
	providerName = "anilist"

	// DefaultURL is the AniList GraphQL endpoint.
	DefaultURL = "https://graphql.anilist.co"
)

// mediaQuery fetches cover art for the best matching anime title.
const mediaQuery = `query ($search: String) {
  Media(search: $search, type: ANIME) {
    id
    title { romaji english native }
    startDate { year }
    coverImage { extraLarge large medium }
  }
}`

// Provider implements the provider.Provider interface for AniList.
// AniList serves public GraphQL queries without authentication.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	config     map[string]interface{}
}

// New creates a new AniList provider instance.
func New() *Provider {
	return &Provider{
		baseURL: DefaultURL,
		config:  make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "AniList anime cover art"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeAnime},
		RequiresAuth: false,
		Priority:     100,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{Fields: []provider.ConfigField{}}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	p.config = config
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return nil
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Media *struct {
			ID    int `json:"id"`
			Title struct {
				Romaji  string `json:"romaji"`
				English string `json:"english"`
				Native  string `json:"native"`
			} `json:"title"`
			StartDate struct {
				Year int `json:"year"`
			} `json:"startDate"`
			CoverImage struct {
				ExtraLarge string `json:"extraLarge"`
				Large      string `json:"large"`
				Medium     string `json:"medium"`
			} `json:"coverImage"`
		} `json:"Media"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch looks up a cover image for the requested title.
func (p *Provider) Fetch(ctx context.Context, request provider.Request) (*provider.Poster, error) {
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	if strings.TrimSpace(request.Title) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "anime fetch requires a title",
		}
	}

	payload, err := json.Marshal(graphqlRequest{
		Query:     mediaQuery,
		Variables: map[string]interface{}{"search": request.Title},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "UNAVAILABLE",
			Message:  "AniList request failed: " + err.Error(),
			Retry:    true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 30
		if v, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && v > 0 {
			retryAfter = v
		}
		return nil, &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    "AniList rate limit exceeded",
			Retry:      true,
			RetryAfter: retryAfter,
		}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "UNKNOWN",
			Message:  fmt.Sprintf("AniList search failed: %d - %s", resp.StatusCode, string(body)),
		}
	}

	var result graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode AniList response: %w", err)
	}

	media := result.Data.Media
	if media == nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  fmt.Sprintf("no AniList result for: %s", request.Title),
		}
	}

	imageURL := media.CoverImage.ExtraLarge
	if imageURL == "" {
		imageURL = media.CoverImage.Large
	}
	if imageURL == "" {
		imageURL = media.CoverImage.Medium
	}
	if imageURL == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NO_POSTER",
			Message:  fmt.Sprintf("no cover image for: %s", request.Title),
		}
	}

	title := media.Title.English
	if title == "" {
		title = media.Title.Romaji
	}
	if title == "" {
		title = media.Title.Native
	}

	year := ""
	if media.StartDate.Year > 0 {
		year = strconv.Itoa(media.StartDate.Year)
	}

	return &provider.Poster{
		Provider: providerName,
		Title:    title,
		Year:     year,
		ImageURL: imageURL,
		IDs:      map[string]string{"anilist_id": strconv.Itoa(media.ID)},
	}, nil
}
