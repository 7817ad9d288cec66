package provider

import (
	"context"
	"errors"
	"fmt"
)

// Chain resolves a poster by walking enabled providers in fallback order.
//
// The order follows the media type: anime titles consult anime-capable
// providers first, series consult series-capable providers, and any provider
// that was not yet tried for the request's type is consulted as a last
// resort. Within each group providers run in descending registry priority.
type Chain struct {
	registry *Registry
}

// NewChain creates a chain over the given registry.
func NewChain(registry *Registry) *Chain {
	return &Chain{registry: registry}
}

// Resolve walks the fallback order until a provider returns a poster.
// Provider errors are collected; if every provider fails the aggregate
// error is returned.
func (c *Chain) Resolve(ctx context.Context, request Request) (*Poster, error) {
	if request.Title == "" {
		return nil, fmt.Errorf("poster lookup requires a title")
	}

	var errs []error
	tried := make(map[string]bool)

	for _, step := range c.order(request.MediaType) {
		for _, p := range c.registry.EnabledFor(step.mediaType) {
			if tried[p.Name()] {
				continue
			}
			tried[p.Name()] = true

			if err := ctx.Err(); err != nil {
				return nil, err
			}

			req := request
			req.MediaType = step.mediaType
			poster, err := p.Fetch(ctx, req)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if poster == nil || poster.ImageURL == "" {
				errs = append(errs, &ProviderError{
					Provider: p.Name(),
					Code:     "NO_POSTER",
					Message:  fmt.Sprintf("no poster for %q", request.Title),
				})
				continue
			}
			return poster, nil
		}
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("no providers enabled for media type %s", request.MediaType)
	}
	return nil, fmt.Errorf("poster lookup failed for %q: %w", request.Title, errors.Join(errs...))
}

type chainStep struct {
	mediaType MediaType
}

// order lists the media types to consult, most specific first. Anime falls
// back to the series providers; movies and series fall back to anime
// providers last, mirroring the behavior users expect when a title sits in
// the wrong library section.
func (c *Chain) order(mt MediaType) []chainStep {
	switch mt {
	case MediaTypeAnime:
		return []chainStep{{MediaTypeAnime}, {MediaTypeSeries}}
	case MediaTypeSeries:
		return []chainStep{{MediaTypeSeries}, {MediaTypeAnime}}
	case MediaTypeMovie:
		return []chainStep{{MediaTypeMovie}, {MediaTypeAnime}}
	default:
		return []chainStep{{mt}}
	}
}
