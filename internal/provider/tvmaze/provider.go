package tvmaze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider"
)

const (
	providerName = "tvmaze"

	// DefaultURL is the TVmaze API base URL.
	DefaultURL = "https://api.tvmaze.com"
)

// Provider implements the provider.Provider interface for TVmaze.
// TVmaze serves public queries without authentication; an API token only
// raises the rate limits.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	token      string
	config     map[string]interface{}
}

// New creates a new TVmaze provider instance.
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
	return "TVmaze show poster art"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		MediaTypes:   []provider.MediaType{provider.MediaTypeSeries},
		RequiresAuth: false,
		Priority:     90,
	}
}

// ConfigSchema returns the configuration schema for this provider.
func (p *Provider) ConfigSchema() provider.ConfigSchema {
	return provider.ConfigSchema{
		Fields: []provider.ConfigField{
			{
				Name:        "api_token",
				DisplayName: "API Token",
				Type:        provider.ConfigFieldTypePassword,
				Required:    false,
				Description: "Optional TVmaze token for higher rate limits",
				Sensitive:   true,
			},
		},
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	p.config = config

	// "token" is accepted as an alias so a config layer using the shorter
	// key still reaches the provider.
	if token, ok := config["api_token"].(string); ok {
		p.token = strings.TrimSpace(token)
	} else if token, ok := config["token"].(string); ok {
		p.token = strings.TrimSpace(token)
	}

	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return nil
}

// show mirrors the TVmaze singlesearch response fields we consume.
type show struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Premiered string `json:"premiered"`
	Image     struct {
		Medium   string `json:"medium"`
		Original string `json:"original"`
	} `json:"image"`
	Externals struct {
		IMDB    string `json:"imdb"`
		TheTVDB int    `json:"thetvdb"`
	} `json:"externals"`
}

// Fetch looks up a show poster via the singlesearch endpoint.
func (p *Provider) Fetch(ctx context.Context, request provider.Request) (*provider.Poster, error) {
	if p.httpClient == nil {
		// Configuration is optional for TVmaze, fall back to defaults.
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	if request.MediaType != provider.MediaTypeSeries {
		return nil, fmt.Errorf("unsupported media type: %s", request.MediaType)
	}
	if strings.TrimSpace(request.Title) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "INVALID_REQUEST",
			Message:  "show fetch requires a title",
		}
	}

	endpoint := fmt.Sprintf("%s/singlesearch/shows?q=%s", p.baseURL, url.QueryEscape(request.Title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "UNAVAILABLE",
			Message:  "TVmaze request failed: " + err.Error(),
			Retry:    true,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NOT_FOUND",
			Message:  fmt.Sprintf("no show found for: %s", request.Title),
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &provider.ProviderError{
			Provider:   providerName,
			Code:       "RATE_LIMITED",
			Message:    "TVmaze rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "UNKNOWN",
			Message:  fmt.Sprintf("TVmaze search failed: %d - %s", resp.StatusCode, string(body)),
		}
	}

	var result show
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode TVmaze response: %w", err)
	}

	imageURL := result.Image.Original
	if imageURL == "" {
		imageURL = result.Image.Medium
	}
	if imageURL == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "NO_POSTER",
			Message:  fmt.Sprintf("no poster for show: %s", result.Name),
		}
	}

	year := ""
	if len(result.Premiered) >= 4 {
		year = result.Premiered[:4]
	}

	poster := &provider.Poster{
		Provider: providerName,
		Title:    result.Name,
		Year:     year,
		ImageURL: imageURL,
		IDs:      map[string]string{"tvmaze_id": strconv.Itoa(result.ID)},
	}
	if result.Externals.IMDB != "" {
		poster.IDs["imdb_id"] = result.Externals.IMDB
	}
	return poster, nil
}
