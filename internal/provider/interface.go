package provider

import (
	"context"
	"fmt"
)

// MediaType represents the type of media content a poster is requested for.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
	MediaTypeAnime  MediaType = "anime"
)

// Provider is the interface every poster source must implement.
type Provider interface {
	// Identification
	Name() string
	Description() string

	// Capability discovery
	Capabilities() Capabilities

	// Configuration
	Configure(config map[string]interface{}) error
	ConfigSchema() ConfigSchema

	// Poster lookup. Implementations return the best matching poster
	// reference without downloading the image itself.
	Fetch(ctx context.Context, request Request) (*Poster, error)
}

// Capabilities describes what a provider can do.
type Capabilities struct {
	MediaTypes   []MediaType // What media types are supported
	RequiresAuth bool        // Whether authentication is required
	Priority     int         // Default priority for this provider (higher = preferred)
}

// Supports reports whether the provider handles the given media type.
func (c Capabilities) Supports(mt MediaType) bool {
	for _, t := range c.MediaTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// ConfigSchema describes the configuration requirements for a provider.
type ConfigSchema struct {
	Fields []ConfigField
}

// ConfigField describes a single configuration field.
type ConfigField struct {
	Name        string          // Field name
	DisplayName string          // Human-readable name
	Type        ConfigFieldType // Field type
	Required    bool            // Whether this field is required
	Default     interface{}     // Default value
	Description string          // Help text
	Sensitive   bool            // Whether this contains sensitive data (for masking)
}

// ConfigFieldType represents the type of a configuration field.
type ConfigFieldType string

const (
	ConfigFieldTypeInt      ConfigFieldType = "int"
	ConfigFieldTypeBool     ConfigFieldType = "bool"
	ConfigFieldTypeString   ConfigFieldType = "string"
	ConfigFieldTypePassword ConfigFieldType = "password"
)

// Request describes the title a poster is wanted for.
type Request struct {
	MediaType MediaType
	Title     string
	Year      string
	Language  string // Preferred language
}

// Poster is a resolved poster reference returned by a provider.
type Poster struct {
	// Provider that supplied this poster.
	Provider string

	// Canonical title and year as reported by the provider. May differ
	// from the request after fuzzy matching.
	Title string
	Year  string

	// ImageURL points at the full resolution poster image.
	ImageURL string

	// Provider-specific IDs (imdb_id, tmdb_id, ...).
	IDs map[string]string
}

// ProviderError represents an error from a provider.
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}
